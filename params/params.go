// Package params resolves the flat key=value parameter strings carried by
// test case rows into typed lookups for the check implementations.
package params

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Set is the decoded form of one raw parameter string. Values stay strings;
// checks coerce them as needed via the typed accessors.
type Set map[string]string

// Resolve parses a raw parameter string of the form
// "key1=value1;key2=value2". Keys are trimmed and lower-cased, values are
// trimmed, segments without '=' are ignored, and the last occurrence of a
// duplicate key wins. Empty input yields an empty set.
func Resolve(raw string) Set {
	set := make(Set)
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" || !strings.Contains(segment, "=") {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		set[key] = strings.TrimSpace(value)
	}
	return set
}

// Missing returns the required keys absent from the set (or present but
// empty), in the order given.
func (s Set) Missing(required []string) []string {
	var missing []string
	for _, key := range required {
		if s[strings.ToLower(key)] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Get returns the value for key, case-insensitively.
func (s Set) Get(key string) string {
	return s[strings.ToLower(key)]
}

// Has reports whether key is present with a non-empty value.
func (s Set) Has(key string) bool {
	return s.Get(key) != ""
}

// Float parses the value for key as a float. Absent keys return the
// fallback; malformed values return a ConfigurationError.
func (s Set) Float(key string, fallback float64) (float64, error) {
	raw := s.Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, NewConfigurationError(fmt.Sprintf("parameter %q must be numeric, got %q", key, raw))
	}
	return v, nil
}

// Columns parses the value for key as a comma-separated column list.
// Absent keys return nil.
func (s Set) Columns(key string) []string {
	raw := s.Get(key)
	if raw == "" {
		return nil
	}
	var cols []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// Keys returns the sorted key list, mostly for deterministic logging.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
