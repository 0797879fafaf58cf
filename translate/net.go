package translate

import (
	"fmt"

	"github.com/ProcessMiningUSC/CRIER/causal"
	"github.com/ProcessMiningUSC/CRIER/dfg"
	"github.com/ProcessMiningUSC/CRIER/petri"
	"github.com/ProcessMiningUSC/CRIER/reduce"
)

// tauMinter hands out sequential silent-transition ids.
type tauMinter int

func (m *tauMinter) next() string {
	*m++
	return fmt.Sprintf("tau_%d", int(*m))
}

// DFGToNet unfolds a directly-follows graph into a place/transition
// net. Every activity becomes an input-place -> transition ->
// output-place triple, every graph arc a silent hop between the
// matching output and input places. A global initial place feeds the
// activities without predecessors and a global final place collects
// from the ones without successors. The result is reduced.
func DFGToNet(g *dfg.Graph) (*petri.Net, error) {
	b := petri.Build(g.ID()).
		InitialPlace("source", "source").
		FinalPlace("sink", "sink")
	var tau tauMinter

	for _, id := range g.ActivityIDs() {
		a, _ := g.ActivityByID(id)
		b.Place("in_"+id, "in_"+id).
			Place("out_"+id, "out_"+id).
			Transition("t_"+id, a.Name).
			Arc("in_"+id, "t_"+id).
			Arc("t_"+id, "out_"+id)
	}
	for _, arc := range g.Arcs() {
		t := tau.next()
		b.SilentTransition(t).
			Arc("out_"+arc.Source, t).
			Arc(t, "in_"+arc.Target)
	}
	for _, id := range g.ActivityIDs() {
		if len(g.Incoming(id)) == 0 {
			t := tau.next()
			b.SilentTransition(t).Arc("source", t).Arc(t, "in_"+id)
		}
		if len(g.Outgoing(id)) == 0 {
			t := tau.next()
			b.SilentTransition(t).Arc("out_"+id, t).Arc(t, "sink")
		}
	}

	net, err := b.Done()
	if err != nil {
		return nil, err
	}
	return reduce.Net(net)
}

// CausalToNet unfolds a causal model into a place/transition net. The
// model is first brought to Causal-Net semantics (reported by the
// returned fidelity), then every activity gets the same triple as in
// DFGToNet while each binding becomes a silent transition fanning over
// per-pair link places. Activities with no inputs hang off a global
// initial place, ones with no outputs feed a global final place. The
// result is reduced.
func CausalToNet(m *causal.Model) (*petri.Net, causal.Fidelity, error) {
	netModel, fx, err := causal.ToNet(m)
	if err != nil {
		return nil, fx, err
	}

	b := petri.Build(m.ID()).
		InitialPlace("source", "source").
		FinalPlace("sink", "sink")
	var tau tauMinter

	links := make(map[string]bool)
	link := func(from, to string) string {
		id := "link_" + from + "__" + to
		if !links[id] {
			links[id] = true
			b.Place(id, id)
		}
		return id
	}

	for _, a := range netModel.Activities() {
		b.Place("in_"+a.ID, "in_"+a.ID).
			Place("out_"+a.ID, "out_"+a.ID).
			Transition("t_"+a.ID, a.Name).
			Arc("in_"+a.ID, "t_"+a.ID).
			Arc("t_"+a.ID, "out_"+a.ID)
	}
	for _, a := range netModel.Activities() {
		for _, binding := range a.Outputs {
			t := tau.next()
			b.SilentTransition(t).Arc("out_"+a.ID, t)
			for _, to := range binding {
				b.Arc(t, link(a.ID, to))
			}
		}
		for _, binding := range a.Inputs {
			t := tau.next()
			b.SilentTransition(t).Arc(t, "in_"+a.ID)
			for _, from := range binding {
				b.Arc(link(from, a.ID), t)
			}
		}
		if a.Inputs.IsEmpty() {
			t := tau.next()
			b.SilentTransition(t).Arc("source", t).Arc(t, "in_"+a.ID)
		}
		if a.Outputs.IsEmpty() {
			t := tau.next()
			b.SilentTransition(t).Arc("out_"+a.ID, t).Arc(t, "sink")
		}
	}

	net, err := b.Done()
	if err != nil {
		return nil, fx, err
	}
	reduced, err := reduce.Net(net)
	return reduced, fx, err
}
