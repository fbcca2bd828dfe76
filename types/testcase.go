package types

import (
	"fmt"
	"strings"
	"time"
)

// Priority indicates how important a test case is to the suite owner.
// It is informational: the engine neither reorders nor filters by priority.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// ParsePriority normalizes a configured priority value. An empty value
// defaults to MEDIUM; anything else must match one of the known levels.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return PriorityMedium, nil
	case string(PriorityHigh):
		return PriorityHigh, nil
	case string(PriorityMedium):
		return PriorityMedium, nil
	case string(PriorityLow):
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// TestCase is the in-memory representation of one configured validation,
// independent of the tabular source it was loaded from. Instances are
// immutable after load; the engine only reads them.
type TestCase struct {
	ID        string
	Name      string
	Enabled   bool
	Category  string
	Priority  Priority
	RawParams string
	Group     string
}

// Group is a named collection of test cases gated by a single enable flag.
// A disabled group skips every case it contains regardless of the cases'
// individual flags (controller gating).
type Group struct {
	Name        string
	Description string
	Enabled     bool
	Cases       []TestCase
}

// EnabledCount returns how many cases in the group are effectively enabled,
// i.e. the group flag intersected with each case's own flag.
func (g Group) EnabledCount() int {
	if !g.Enabled {
		return 0
	}
	n := 0
	for _, c := range g.Cases {
		if c.Enabled {
			n++
		}
	}
	return n
}

// Outcome is the single result record produced for one test case in one run.
// Every configured case produces exactly one Outcome per run, including
// disabled cases (status skip).
type Outcome struct {
	TestID   string
	Name     string
	Group    string
	Category string
	Status   TestStatus
	Message  string
	Details  map[string]any
	Duration time.Duration
}

// Detail returns a detail value, or nil when absent.
func (o *Outcome) Detail(key string) any {
	if o.Details == nil {
		return nil
	}
	return o.Details[key]
}
