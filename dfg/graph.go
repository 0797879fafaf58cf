// Package dfg implements the directly-follows graph model: a weighted
// directed graph over process activities where an arc A->B records how
// often activity B was observed immediately after activity A.
// Graphs are immutable once built; every transformation returns a new
// value and all accessors report in deterministic sorted order.
package dfg

import "sort"

// Activity is a node of a directly-follows graph. Two activities are the
// same activity only when both ID and Name match.
type Activity struct {
	ID   string
	Name string
}

// Arc is a weighted directed edge between two activities, referenced by
// activity ID. The weight carries the observed directly-follows frequency.
type Arc struct {
	Source string
	Target string
	Weight float64
}

type arcKey struct {
	source string
	target string
}

// Graph is an immutable directly-follows graph.
type Graph struct {
	id         string
	activities map[string]Activity
	arcs       map[arcKey]Arc
	incoming   map[string][]Arc // target id -> arcs sorted by source
	outgoing   map[string][]Arc // source id -> arcs sorted by target
}

// newGraph assembles a Graph from an activity set and an arc list.
// Arcs sharing both endpoints are merged by summing their weights.
func newGraph(id string, activities map[string]Activity, arcs []Arc) *Graph {
	g := &Graph{
		id:         id,
		activities: make(map[string]Activity, len(activities)),
		arcs:       make(map[arcKey]Arc, len(arcs)),
		incoming:   make(map[string][]Arc),
		outgoing:   make(map[string][]Arc),
	}
	for aid, a := range activities {
		g.activities[aid] = a
	}
	for _, a := range arcs {
		k := arcKey{a.Source, a.Target}
		if prev, ok := g.arcs[k]; ok {
			a.Weight += prev.Weight
		}
		g.arcs[k] = a
	}
	for _, a := range g.arcs {
		g.incoming[a.Target] = append(g.incoming[a.Target], a)
		g.outgoing[a.Source] = append(g.outgoing[a.Source], a)
	}
	for _, arcs := range g.incoming {
		sort.Slice(arcs, func(i, j int) bool { return arcs[i].Source < arcs[j].Source })
	}
	for _, arcs := range g.outgoing {
		sort.Slice(arcs, func(i, j int) bool { return arcs[i].Target < arcs[j].Target })
	}
	return g
}

// ID returns the graph identifier.
func (g *Graph) ID() string { return g.id }

// ActivityCount returns the number of activities.
func (g *Graph) ActivityCount() int { return len(g.activities) }

// ArcCount returns the number of distinct arcs.
func (g *Graph) ArcCount() int { return len(g.arcs) }

// Activities returns all activities sorted by ID.
func (g *Graph) Activities() []Activity {
	out := make([]Activity, 0, len(g.activities))
	for _, a := range g.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActivityIDs returns all activity IDs in sorted order.
func (g *Graph) ActivityIDs() []string {
	out := make([]string, 0, len(g.activities))
	for id := range g.activities {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ActivityByID looks up an activity.
func (g *Graph) ActivityByID(id string) (Activity, bool) {
	a, ok := g.activities[id]
	return a, ok
}

// HasActivity reports whether the graph contains the activity.
func (g *Graph) HasActivity(id string) bool {
	_, ok := g.activities[id]
	return ok
}

// Arcs returns all arcs sorted by (source, target).
func (g *Graph) Arcs() []Arc {
	out := make([]Arc, 0, len(g.arcs))
	for _, a := range g.arcs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// ArcBetween looks up the arc from source to target.
func (g *Graph) ArcBetween(source, target string) (Arc, bool) {
	a, ok := g.arcs[arcKey{source, target}]
	return a, ok
}

// HasArc reports whether an arc from source to target exists.
func (g *Graph) HasArc(source, target string) bool {
	_, ok := g.arcs[arcKey{source, target}]
	return ok
}

// Incoming returns the arcs ending at the activity, sorted by source.
func (g *Graph) Incoming(id string) []Arc {
	arcs := g.incoming[id]
	out := make([]Arc, len(arcs))
	copy(out, arcs)
	return out
}

// Outgoing returns the arcs starting at the activity, sorted by target.
func (g *Graph) Outgoing(id string) []Arc {
	arcs := g.outgoing[id]
	out := make([]Arc, len(arcs))
	copy(out, arcs)
	return out
}

// Sources returns the activities with no incoming arcs, sorted by ID.
func (g *Graph) Sources() []Activity {
	var out []Activity
	for id, a := range g.activities {
		if len(g.incoming[id]) == 0 {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sinks returns the activities with no outgoing arcs, sorted by ID.
func (g *Graph) Sinks() []Activity {
	var out []Activity
	for id, a := range g.activities {
		if len(g.outgoing[id]) == 0 {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TotalWeight returns the sum of all arc weights.
func (g *Graph) TotalWeight() float64 {
	sum := 0.0
	for _, a := range g.arcs {
		sum += a.Weight
	}
	return sum
}

// Reverse returns a new graph with every arc direction flipped. Weights
// and activities are preserved.
func (g *Graph) Reverse() *Graph {
	arcs := make([]Arc, 0, len(g.arcs))
	for _, a := range g.arcs {
		arcs = append(arcs, Arc{Source: a.Target, Target: a.Source, Weight: a.Weight})
	}
	return newGraph(g.id, g.activities, arcs)
}

// WithArcs returns a new graph over the same activity set carrying only
// the given arcs. Arcs referencing unknown activities are dropped.
func (g *Graph) WithArcs(arcs []Arc) *Graph {
	kept := make([]Arc, 0, len(arcs))
	for _, a := range arcs {
		if g.HasActivity(a.Source) && g.HasActivity(a.Target) {
			kept = append(kept, a)
		}
	}
	return newGraph(g.id, g.activities, kept)
}

// WithoutActivities returns a new graph with the given activities and
// every arc touching them removed.
func (g *Graph) WithoutActivities(ids ...string) *Graph {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	activities := make(map[string]Activity, len(g.activities))
	for id, a := range g.activities {
		if !drop[id] {
			activities[id] = a
		}
	}
	var arcs []Arc
	for _, a := range g.arcs {
		if !drop[a.Source] && !drop[a.Target] {
			arcs = append(arcs, a)
		}
	}
	return newGraph(g.id, activities, arcs)
}
