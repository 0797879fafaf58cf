package petri

import (
	"fmt"

	"github.com/google/uuid"
)

// Builder provides a fluent API for assembling nets. Nodes and arcs are
// recorded in call order and validated together by Done.
//
// Example:
//
//	net, err := petri.Build("order").
//	    InitialPlace("start", "start").
//	    Place("p1", "p1").
//	    FinalPlace("end", "end").
//	    Transition("t_ship", "ship").
//	    SilentTransition("t_skip").
//	    Arc("start", "t_ship").
//	    Arc("t_ship", "p1").
//	    Arc("p1", "t_skip").
//	    Arc("t_skip", "end").
//	    Done()
type Builder struct {
	id          string
	places      []Place
	transitions []Transition
	arcs        []arcKey
}

// Build starts a Builder. An empty id is replaced with a fresh uuid.
func Build(id string) *Builder {
	if id == "" {
		id = uuid.New().String()
	}
	return &Builder{id: id}
}

// Place adds a plain place.
func (b *Builder) Place(id, name string) *Builder {
	b.places = append(b.places, Place{ID: id, Name: name})
	return b
}

// InitialPlace adds a place holding a token before replay starts.
func (b *Builder) InitialPlace(id, name string) *Builder {
	b.places = append(b.places, Place{ID: id, Name: name, Initial: true})
	return b
}

// FinalPlace adds a place tokens must reach for a replay to complete.
func (b *Builder) FinalPlace(id, name string) *Builder {
	b.places = append(b.places, Place{ID: id, Name: name, Final: true})
	return b
}

// AddPlace adds a fully specified place.
func (b *Builder) AddPlace(p Place) *Builder {
	b.places = append(b.places, p)
	return b
}

// Transition adds a visible transition labeled with an activity name.
func (b *Builder) Transition(id, name string) *Builder {
	b.transitions = append(b.transitions, Transition{ID: id, Name: name})
	return b
}

// AddTransition adds a fully specified transition.
func (b *Builder) AddTransition(t Transition) *Builder {
	b.transitions = append(b.transitions, t)
	return b
}

// SilentTransition adds a routing transition with no observable label.
func (b *Builder) SilentTransition(id string) *Builder {
	b.transitions = append(b.transitions, Transition{ID: id, Name: id, Silent: true})
	return b
}

// Arc connects two nodes. Direction legality is checked by Done.
// Duplicate arcs collapse to one.
func (b *Builder) Arc(source, target string) *Builder {
	b.arcs = append(b.arcs, arcKey{source, target})
	return b
}

// Done validates the recorded nodes and arcs and returns the net.
// Node ids share a single namespace; an id used twice fails with
// ErrDuplicateID. Arcs referencing unknown ids fail with ErrUnknownNode
// and arcs connecting two places or two transitions with ErrSameKindArc.
func (b *Builder) Done() (*Net, error) {
	places := make(map[string]Place, len(b.places))
	transitions := make(map[string]Transition, len(b.transitions))
	for _, p := range b.places {
		if _, ok := places[p.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		places[p.ID] = p
	}
	for _, t := range b.transitions {
		if _, ok := places[t.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, t.ID)
		}
		if _, ok := transitions[t.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, t.ID)
		}
		transitions[t.ID] = t
	}

	arcs := make(map[arcKey]Arc, len(b.arcs))
	for _, key := range b.arcs {
		_, srcPlace := places[key.source]
		_, srcTrans := transitions[key.source]
		_, tgtPlace := places[key.target]
		_, tgtTrans := transitions[key.target]
		switch {
		case !srcPlace && !srcTrans:
			return nil, fmt.Errorf("%w: %q (arc %s->%s)", ErrUnknownNode, key.source, key.source, key.target)
		case !tgtPlace && !tgtTrans:
			return nil, fmt.Errorf("%w: %q (arc %s->%s)", ErrUnknownNode, key.target, key.source, key.target)
		case srcPlace && tgtPlace, srcTrans && tgtTrans:
			return nil, fmt.Errorf("%w: %s->%s", ErrSameKindArc, key.source, key.target)
		case srcPlace:
			arcs[key] = Arc{Source: key.source, Target: key.target, Kind: PlaceToTransition}
		default:
			arcs[key] = Arc{Source: key.source, Target: key.target, Kind: TransitionToPlace}
		}
	}
	return newNet(b.id, places, transitions, arcs), nil
}
