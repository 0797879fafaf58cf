// Package causal implements the causal-connection algebra shared by the
// two dual process-model encodings: the Causal Net, where firing an
// activity consumes exactly one of several alternative predecessor
// subsets (OR of AND), and the Causal Matrix (heuristics net), where
// every subset is a slot that must contribute simultaneously (AND of
// OR). Both encodings store the same set-of-subsets shape; only the
// interpretation differs, so one model type carries a semantics tag.
package causal

import (
	"sort"
	"strings"
)

// Connections is a set of activity-id subsets. Under SemanticsNet the
// outer level reads as OR over AND-subsets; under SemanticsMatrix as
// AND over OR-subsets. An empty Connections marks a start (no inputs)
// or end (no outputs) activity.
type Connections [][]string

// Canonical returns the normal form: inner subsets sorted and deduped,
// empty inner subsets dropped, duplicate subsets removed, outer order
// lexicographic. All algebra operates on canonical values.
func (c Connections) Canonical() Connections {
	var out Connections
	seen := make(map[string]bool, len(c))
	for _, subset := range c {
		inner := dedupSorted(subset)
		if len(inner) == 0 {
			continue
		}
		sig := strings.Join(inner, "\x1f")
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, inner)
	}
	sort.Slice(out, func(i, j int) bool { return lessStrings(out[i], out[j]) })
	return out
}

// IDs returns the sorted union of all ids across the subsets.
func (c Connections) IDs() []string {
	set := make(map[string]bool)
	for _, subset := range c {
		for _, id := range subset {
			set[id] = true
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether two connection sets have the same canonical form.
func (c Connections) Equal(other Connections) bool {
	a, b := c.Canonical(), other.Canonical()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// IsEmpty reports whether the canonical form has no subsets.
func (c Connections) IsEmpty() bool {
	for _, subset := range c {
		if len(subset) > 0 {
			return false
		}
	}
	return true
}

func (c Connections) clone() Connections {
	out := make(Connections, len(c))
	for i, subset := range c {
		inner := make([]string, len(subset))
		copy(inner, subset)
		out[i] = inner
	}
	return out
}

func dedupSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

// lessStrings orders string slices element-wise, shorter prefix first.
func lessStrings(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func containsString(sorted []string, id string) bool {
	i := sort.SearchStrings(sorted, id)
	return i < len(sorted) && sorted[i] == id
}
