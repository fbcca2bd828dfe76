package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// SuiteConfig is the root of a suite configuration file.
type SuiteConfig struct {
	Groups []GroupConfig `yaml:"groups"`
}

// GroupConfig represents one group of test cases as configured.
type GroupConfig struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Enabled     EnableFlag   `yaml:"enabled"`
	Tests       []TestConfig `yaml:"tests"`
}

// TestConfig represents one configured test case row.
type TestConfig struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name,omitempty"`
	Enabled    EnableFlag `yaml:"enabled"`
	Category   string     `yaml:"category"`
	Priority   string     `yaml:"priority,omitempty"`
	Parameters string     `yaml:"parameters,omitempty"`
}

// EnableFlag is a boolean that also accepts the spreadsheet-style string
// spellings TRUE/FALSE, YES/NO, Y/N and 1/0 used by tabular config sources.
type EnableFlag bool

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *EnableFlag) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil {
		*f = EnableFlag(b)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("enable flag must be a boolean or string, got %q", node.Value)
	}
	v, err := ParseEnableFlag(s)
	if err != nil {
		return err
	}
	*f = EnableFlag(v)
	return nil
}

// ParseEnableFlag parses the string spellings accepted for enable flags.
func ParseEnableFlag(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "YES", "Y", "1":
		return true, nil
	case "FALSE", "NO", "N", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized enable flag %q", s)
}
