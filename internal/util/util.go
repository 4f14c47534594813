// Package util holds small deterministic-iteration and naming helpers
// shared by the automaton and grammar packages.
package util

import "sort"

// OrderedKeys returns the keys of m sorted ascending, so callers that range
// over a map get a reproducible iteration order (map construction, error
// messages, table rendering all depend on this).
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
