// Package translate converts between the three process-model
// formalisms: directly-follows graphs, causal models and
// place/transition nets. Conversions that produce a net run the
// structural reducer before returning; conversions that consume a net
// resolve its silent routing to recover direct activity relations.
package translate

import (
	"github.com/ProcessMiningUSC/CRIER/causal"
	"github.com/ProcessMiningUSC/CRIER/dfg"
)

// DFGToCausal lifts a directly-follows graph into a causal net. Every
// predecessor and successor becomes its own singleton binding, matching
// the graph's one-arc-at-a-time semantics. Arc weights are dropped.
func DFGToCausal(g *dfg.Graph) (*causal.Model, error) {
	b := causal.Build(g.ID(), causal.SemanticsNet)
	for _, id := range g.ActivityIDs() {
		a, _ := g.ActivityByID(id)
		var inputs, outputs causal.Connections
		for _, arc := range g.Incoming(id) {
			inputs = append(inputs, []string{arc.Source})
		}
		for _, arc := range g.Outgoing(id) {
			outputs = append(outputs, []string{arc.Target})
		}
		b.Activity(id, a.Name, inputs, outputs)
	}
	return b.Done()
}

// DFGToMatrix lifts a directly-follows graph into a causal matrix by
// running DFGToCausal through the set algebra. Singleton bindings keep
// the rewrite lossless.
func DFGToMatrix(g *dfg.Graph) (*causal.Model, causal.Fidelity, error) {
	m, err := DFGToCausal(g)
	if err != nil {
		return nil, causal.Fidelity{}, err
	}
	return causal.ToMatrix(m)
}

// CausalToDFG flattens a causal model of either semantics into a
// directly-follows graph. Bindings collapse to plain dependency pairs
// and every arc gets weight one.
func CausalToDFG(m *causal.Model) (*dfg.Graph, error) {
	b := dfg.Build(m.ID())
	for _, a := range m.Activities() {
		b.Activity(a.ID, a.Name)
	}
	for _, pair := range m.ArcPairs() {
		b.Arc(pair[0], pair[1], 1)
	}
	return b.Done()
}
