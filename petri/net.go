// Package petri implements bipartite place/transition nets. Places hold
// tokens, transitions consume and produce them, and every arc connects
// a place to a transition or a transition to a place, never two nodes
// of the same kind. Nets are immutable once built and all accessors
// return sorted copies, so iteration order is deterministic.
package petri

import "sort"

// Place is a token holder. Initial places carry a token before a replay
// starts; final places are where tokens must rest when it ends.
type Place struct {
	ID      string
	Name    string
	Initial bool
	Final   bool
}

// Transition is an event. Silent transitions route tokens without
// representing an observable activity.
type Transition struct {
	ID     string
	Name   string
	Silent bool
}

// ArcKind distinguishes the two legal arc directions.
type ArcKind int

const (
	// PlaceToTransition arcs feed tokens into a transition.
	PlaceToTransition ArcKind = iota
	// TransitionToPlace arcs deposit tokens into a place.
	TransitionToPlace
)

func (k ArcKind) String() string {
	switch k {
	case PlaceToTransition:
		return "place-to-transition"
	case TransitionToPlace:
		return "transition-to-place"
	default:
		return "unknown"
	}
}

// Arc is a directed connection between a place and a transition. The
// kind is derived from the endpoint kinds when the net is built.
type Arc struct {
	Source string
	Target string
	Kind   ArcKind
}

type arcKey struct {
	source, target string
}

// Net is an immutable place/transition net.
type Net struct {
	id          string
	places      map[string]Place
	transitions map[string]Transition
	arcs        map[arcKey]Arc
	incoming    map[string][]Arc
	outgoing    map[string][]Arc
}

func newNet(id string, places map[string]Place, transitions map[string]Transition, arcs map[arcKey]Arc) *Net {
	n := &Net{
		id:          id,
		places:      places,
		transitions: transitions,
		arcs:        arcs,
		incoming:    make(map[string][]Arc),
		outgoing:    make(map[string][]Arc),
	}
	for _, a := range arcs {
		n.outgoing[a.Source] = append(n.outgoing[a.Source], a)
		n.incoming[a.Target] = append(n.incoming[a.Target], a)
	}
	for _, adj := range []map[string][]Arc{n.incoming, n.outgoing} {
		for _, arcs := range adj {
			sort.Slice(arcs, func(i, j int) bool {
				if arcs[i].Source != arcs[j].Source {
					return arcs[i].Source < arcs[j].Source
				}
				return arcs[i].Target < arcs[j].Target
			})
		}
	}
	return n
}

// ID returns the net identifier.
func (n *Net) ID() string { return n.id }

// PlaceCount returns the number of places.
func (n *Net) PlaceCount() int { return len(n.places) }

// TransitionCount returns the number of transitions.
func (n *Net) TransitionCount() int { return len(n.transitions) }

// ArcCount returns the number of arcs.
func (n *Net) ArcCount() int { return len(n.arcs) }

// Places returns all places sorted by ID.
func (n *Net) Places() []Place {
	out := make([]Place, 0, len(n.places))
	for _, p := range n.places {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Transitions returns all transitions sorted by ID.
func (n *Net) Transitions() []Transition {
	out := make([]Transition, 0, len(n.transitions))
	for _, t := range n.transitions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// VisibleTransitions returns the non-silent transitions sorted by ID.
func (n *Net) VisibleTransitions() []Transition {
	var out []Transition
	for _, t := range n.transitions {
		if !t.Silent {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// InitialPlaces returns the places marked before replay, sorted by ID.
func (n *Net) InitialPlaces() []Place {
	var out []Place
	for _, p := range n.places {
		if p.Initial {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FinalPlaces returns the places tokens must reach, sorted by ID.
func (n *Net) FinalPlaces() []Place {
	var out []Place
	for _, p := range n.places {
		if p.Final {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PlaceByID looks up a place.
func (n *Net) PlaceByID(id string) (Place, bool) {
	p, ok := n.places[id]
	return p, ok
}

// TransitionByID looks up a transition.
func (n *Net) TransitionByID(id string) (Transition, bool) {
	t, ok := n.transitions[id]
	return t, ok
}

// Arcs returns all arcs sorted by source then target.
func (n *Net) Arcs() []Arc {
	out := make([]Arc, 0, len(n.arcs))
	for _, a := range n.arcs {
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

// HasArc reports whether an arc from source to target exists.
func (n *Net) HasArc(source, target string) bool {
	_, ok := n.arcs[arcKey{source, target}]
	return ok
}

// Incoming returns the arcs pointing at a node, sorted by source.
func (n *Net) Incoming(id string) []Arc {
	return append([]Arc(nil), n.incoming[id]...)
}

// Outgoing returns the arcs leaving a node, sorted by target.
func (n *Net) Outgoing(id string) []Arc {
	return append([]Arc(nil), n.outgoing[id]...)
}

// PreSet returns the sorted ids of the nodes feeding a node.
func (n *Net) PreSet(id string) []string {
	arcs := n.incoming[id]
	out := make([]string, 0, len(arcs))
	for _, a := range arcs {
		out = append(out, a.Source)
	}
	return out
}

// PostSet returns the sorted ids of the nodes fed by a node.
func (n *Net) PostSet(id string) []string {
	arcs := n.outgoing[id]
	out := make([]string, 0, len(arcs))
	for _, a := range arcs {
		out = append(out, a.Target)
	}
	return out
}
