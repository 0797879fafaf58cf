package dfg

import (
	"fmt"

	"github.com/google/uuid"
)

// Builder provides a fluent API for assembling a Graph. Builders hold
// mutable state only until Done is called; the returned Graph is immutable.
//
// Example:
//
//	g, err := dfg.Build("order-handling").
//	    Activity("a", "receive").
//	    Activity("b", "check").
//	    Activity("c", "ship").
//	    Arc("a", "b", 12).
//	    Arc("b", "c", 12).
//	    Done()
type Builder struct {
	id         string
	activities map[string]Activity
	arcs       []Arc
}

// Build starts a new Builder. An empty id is replaced with a fresh uuid.
func Build(id string) *Builder {
	if id == "" {
		id = uuid.New().String()
	}
	return &Builder{
		id:         id,
		activities: make(map[string]Activity),
	}
}

// Activity adds an activity. Re-adding an existing ID replaces its name.
func (b *Builder) Activity(id, name string) *Builder {
	b.activities[id] = Activity{ID: id, Name: name}
	return b
}

// Activities adds several activities whose names equal their IDs.
func (b *Builder) Activities(ids ...string) *Builder {
	for _, id := range ids {
		b.Activity(id, id)
	}
	return b
}

// Arc adds a weighted arc between two activity IDs. Arcs sharing both
// endpoints are merged by summing their weights when Done runs.
func (b *Builder) Arc(source, target string, weight float64) *Builder {
	b.arcs = append(b.arcs, Arc{Source: source, Target: target, Weight: weight})
	return b
}

// Done validates arc references and returns the completed Graph.
func (b *Builder) Done() (*Graph, error) {
	for _, a := range b.arcs {
		if _, ok := b.activities[a.Source]; !ok {
			return nil, fmt.Errorf("%w: %q (arc %s->%s)", ErrUnknownActivity, a.Source, a.Source, a.Target)
		}
		if _, ok := b.activities[a.Target]; !ok {
			return nil, fmt.Errorf("%w: %q (arc %s->%s)", ErrUnknownActivity, a.Target, a.Source, a.Target)
		}
	}
	return newGraph(b.id, b.activities, b.arcs), nil
}
