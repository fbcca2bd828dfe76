package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dbaudit/datacheck/types"
)

// FileSource loads the suite configuration from a YAML file on disk.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading from the given YAML file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and converts the YAML suite config into the engine's group
// model. Bad enable flags and unknown priorities fail the whole load.
func (s *FileSource) Load() ([]types.Group, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", s.path, err)
	}

	var cfg types.SuiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", s.path, err)
	}

	return convertConfig(cfg)
}

func convertConfig(cfg types.SuiteConfig) ([]types.Group, error) {
	groups := make([]types.Group, 0, len(cfg.Groups))
	for _, gc := range cfg.Groups {
		group := types.Group{
			Name:        gc.Name,
			Description: gc.Description,
			Enabled:     bool(gc.Enabled),
			Cases:       make([]types.TestCase, 0, len(gc.Tests)),
		}
		for _, tc := range gc.Tests {
			priority, err := types.ParsePriority(tc.Priority)
			if err != nil {
				return nil, fmt.Errorf("test case %q: %w", tc.ID, err)
			}
			group.Cases = append(group.Cases, types.TestCase{
				ID:        tc.ID,
				Name:      tc.Name,
				Enabled:   bool(tc.Enabled),
				Category:  tc.Category,
				Priority:  priority,
				RawParams: tc.Parameters,
				Group:     gc.Name,
			})
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// StaticSource serves a fixed set of groups. Used in tests and by callers
// that build suites programmatically.
type StaticSource struct {
	groups []types.Group
}

// NewStaticSource wraps already-built groups in a Source.
func NewStaticSource(groups []types.Group) *StaticSource {
	return &StaticSource{groups: groups}
}

func (s *StaticSource) Load() ([]types.Group, error) {
	return s.groups, nil
}
