package causal

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Semantics tags how a model's Connections are interpreted. The stored
// shape is identical under both readings.
type Semantics int

const (
	// SemanticsNet reads connections as OR of AND: firing consumes
	// exactly one subset, all of its members.
	SemanticsNet Semantics = iota
	// SemanticsMatrix reads connections as AND of OR: every subset is a
	// slot and each slot contributes one member.
	SemanticsMatrix
)

func (s Semantics) String() string {
	switch s {
	case SemanticsNet:
		return "causal-net"
	case SemanticsMatrix:
		return "causal-matrix"
	default:
		return fmt.Sprintf("semantics(%d)", int(s))
	}
}

// Activity is one node of a causal model together with its input and
// output connection sets. Connections reference sibling activity ids.
type Activity struct {
	ID      string
	Name    string
	Inputs  Connections
	Outputs Connections
}

// Model is an immutable causal model: a set of activities whose
// connections are interpreted under the model's semantics tag.
type Model struct {
	id         string
	semantics  Semantics
	activities map[string]Activity
}

// ID returns the model identifier.
func (m *Model) ID() string { return m.id }

// Semantics returns the interpretation tag.
func (m *Model) Semantics() Semantics { return m.semantics }

// ActivityCount returns the number of activities.
func (m *Model) ActivityCount() int { return len(m.activities) }

// Activities returns all activities sorted by ID.
func (m *Model) Activities() []Activity {
	out := make([]Activity, 0, len(m.activities))
	for _, a := range m.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActivityIDs returns all activity ids in sorted order.
func (m *Model) ActivityIDs() []string {
	out := make([]string, 0, len(m.activities))
	for id := range m.activities {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ActivityByID looks up an activity.
func (m *Model) ActivityByID(id string) (Activity, bool) {
	a, ok := m.activities[id]
	return a, ok
}

// StartActivities returns the activities with empty inputs, sorted by ID.
func (m *Model) StartActivities() []Activity {
	var out []Activity
	for _, a := range m.activities {
		if a.Inputs.IsEmpty() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EndActivities returns the activities with empty outputs, sorted by ID.
func (m *Model) EndActivities() []Activity {
	var out []Activity
	for _, a := range m.activities {
		if a.Outputs.IsEmpty() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ArcPairs flattens the output connections to plain dependency pairs
// (from, to), deduplicated and sorted.
func (m *Model) ArcPairs() [][2]string {
	set := make(map[[2]string]bool)
	for id, a := range m.activities {
		for _, subset := range a.Outputs {
			for _, to := range subset {
				set[[2]string{id, to}] = true
			}
		}
	}
	out := make([][2]string, 0, len(set))
	for pair := range set {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Builder assembles a Model; mutable only until Done.
type Builder struct {
	id         string
	semantics  Semantics
	activities map[string]Activity
}

// Build starts a Builder. An empty id is replaced with a fresh uuid.
func Build(id string, semantics Semantics) *Builder {
	if id == "" {
		id = uuid.New().String()
	}
	return &Builder{
		id:         id,
		semantics:  semantics,
		activities: make(map[string]Activity),
	}
}

// Activity adds an activity with its connection sets; connections are
// stored in canonical form. Re-adding an ID replaces the previous entry.
func (b *Builder) Activity(id, name string, inputs, outputs Connections) *Builder {
	b.activities[id] = Activity{
		ID:      id,
		Name:    name,
		Inputs:  inputs.Canonical(),
		Outputs: outputs.Canonical(),
	}
	return b
}

// Done validates that every referenced id names a sibling activity and
// returns the completed Model.
func (b *Builder) Done() (*Model, error) {
	ids := make([]string, 0, len(b.activities))
	for id := range b.activities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := b.activities[id]
		for _, ref := range a.Inputs.IDs() {
			if _, ok := b.activities[ref]; !ok {
				return nil, fmt.Errorf("%w: %q in inputs of %q", ErrUnknownActivity, ref, id)
			}
		}
		for _, ref := range a.Outputs.IDs() {
			if _, ok := b.activities[ref]; !ok {
				return nil, fmt.Errorf("%w: %q in outputs of %q", ErrUnknownActivity, ref, id)
			}
		}
	}
	activities := make(map[string]Activity, len(b.activities))
	for id, a := range b.activities {
		activities[id] = a
	}
	return &Model{id: b.id, semantics: b.semantics, activities: activities}, nil
}
