// Package registry loads test case configuration from a tabular source and
// holds the validated in-memory suite for a run.
package registry

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/dbaudit/datacheck/types"
)

// Source is the adapter seam to whatever stores the tabular configuration.
// A YAML file source ships with the engine; spreadsheet adapters implement
// the same interface and keep their formatting concerns to themselves.
type Source interface {
	Load() ([]types.Group, error)
}

// Registry manages the configured test groups
type Registry struct {
	config Config
	groups []types.Group
	mu     sync.RWMutex
}

// Config contains registry configuration
type Config struct {
	Log    log.Logger
	Source Source
}

// NewRegistry creates a new registry instance and loads the suite from the
// configured source. Loading problems (no groups, no rows, malformed rows)
// are fatal here; per-case problems are not fatal and surface later as
// outcomes.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("config source is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	r := &Registry{config: cfg}
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}

	cfg.Log.Debug("Registry loaded", "groups", len(r.groups), "cases", r.TotalCases())
	return r, nil
}

func (r *Registry) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	groups, err := r.config.Source.Load()
	if err != nil {
		return err
	}
	if err := validateGroups(groups); err != nil {
		return err
	}
	r.groups = groups
	return nil
}

// validateGroups rejects suites the orchestrator could not report on
// unambiguously: empty suites, duplicate group names and duplicate case
// IDs within a group.
func validateGroups(groups []types.Group) error {
	if len(groups) == 0 {
		return fmt.Errorf("configuration contains no groups")
	}

	seenGroups := make(map[string]bool)
	total := 0
	for _, group := range groups {
		if group.Name == "" {
			return fmt.Errorf("group with empty name")
		}
		if seenGroups[group.Name] {
			return fmt.Errorf("duplicate group %q", group.Name)
		}
		seenGroups[group.Name] = true

		seenIDs := make(map[string]bool)
		for _, tc := range group.Cases {
			if tc.ID == "" {
				return fmt.Errorf("test case with empty id in group %q", group.Name)
			}
			if seenIDs[tc.ID] {
				return fmt.Errorf("duplicate test case id %q in group %q", tc.ID, group.Name)
			}
			seenIDs[tc.ID] = true
			if tc.Category == "" {
				return fmt.Errorf("test case %q in group %q has no category", tc.ID, group.Name)
			}
			total++
		}
	}
	if total == 0 {
		return fmt.Errorf("configuration contains no test cases")
	}
	return nil
}

// Groups returns a copy of the configured groups in declaration order.
func (r *Registry) Groups() []types.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// TotalCases returns the number of configured test cases across all
// groups, enabled or not.
func (r *Registry) TotalCases() int {
	n := 0
	for _, group := range r.groups {
		n += len(group.Cases)
	}
	return n
}

// EnabledCases returns the number of cases that will actually execute
// after controller gating.
func (r *Registry) EnabledCases() int {
	n := 0
	for _, group := range r.groups {
		n += group.EnabledCount()
	}
	return n
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}
