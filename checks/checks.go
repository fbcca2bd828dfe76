// Package checks holds the category-specific validation implementations
// and the registry that dispatches a test case's category to one of them.
package checks

import (
	"context"
	"sort"
	"sync"

	"github.com/dbaudit/datacheck/connector"
	"github.com/dbaudit/datacheck/params"
	"github.com/dbaudit/datacheck/types"
)

// Category names as they appear in configuration rows.
const (
	CategorySchema      = "SCHEMA_VALIDATION"
	CategoryRowCount    = "ROW_COUNT_VALIDATION"
	CategoryNullValue   = "NULL_VALUE_VALIDATION"
	CategoryDataQuality = "DATA_QUALITY_VALIDATION"
)

// Result is what a check reports after it ran. Status is pass or fail;
// infrastructure problems are returned as errors instead and become
// Outcome status error at the orchestrator boundary.
type Result struct {
	Status  types.TestStatus
	Message string
	Details map[string]any
}

func pass(message string, details map[string]any) *Result {
	return &Result{Status: types.TestStatusPass, Message: message, Details: details}
}

func fail(message string, details map[string]any) *Result {
	return &Result{Status: types.TestStatusFail, Message: message, Details: details}
}

// Check is one category implementation. Implementations are stateless; all
// inputs arrive through the parameter set and the connector handles.
type Check interface {
	// Category returns the category name this check serves.
	Category() string

	// RequiredKeys lists the parameter keys that must be present. A case
	// invoked without them never reaches Run.
	RequiredKeys() []string

	// RequiresTarget reports whether the check compares two stores and
	// needs the target connector in addition to the source.
	RequiresTarget() bool

	// Run executes the check. A returned error signals an infrastructure
	// or configuration problem distinct from an assertion failure.
	Run(ctx context.Context, set params.Set, source, target connector.Connector) (*Result, error)
}

// Registry maps category names to check implementations.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry creates a registry with the built-in category checks
// registered.
func NewRegistry() *Registry {
	r := &Registry{checks: make(map[string]Check)}
	r.Register(&SchemaCheck{})
	r.Register(&RowCountCheck{})
	r.Register(&NullValueCheck{})
	r.Register(&DataQualityCheck{})
	return r
}

// Register adds or replaces the check for its category.
func (r *Registry) Register(c Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[c.Category()] = c
}

// Lookup returns the check registered for category. A category with no
// registered implementation is "not yet implemented", which callers map to
// a skip, not an error.
func (r *Registry) Lookup(category string) (Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.checks[category]
	return c, ok
}

// Categories returns the registered category names, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.checks))
	for name := range r.checks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// scalarQuery runs a single-value query and returns it as an int.
func scalarQuery(ctx context.Context, conn connector.Connector, query string) (int, error) {
	rows, err := conn.Query(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	n, _ := toInt(rows[0][0])
	return n, nil
}
