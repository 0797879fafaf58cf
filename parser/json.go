// Package parser handles JSON import and export for the three model
// formalisms: directly-follows graphs, causal models and
// place/transition nets. Documents mirror the model shapes; structural
// validation stays with the model builders.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/ProcessMiningUSC/CRIER/causal"
	"github.com/ProcessMiningUSC/CRIER/dfg"
	"github.com/ProcessMiningUSC/CRIER/petri"
)

type dfgDoc struct {
	ID         string        `json:"id,omitempty"`
	Activities []activityDoc `json:"activities"`
	Arcs       []dfgArcDoc   `json:"arcs"`
}

type activityDoc struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type dfgArcDoc struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight *float64 `json:"weight,omitempty"`
}

type causalDoc struct {
	ID         string              `json:"id,omitempty"`
	Semantics  string              `json:"semantics"`
	Activities []causalActivityDoc `json:"activities"`
}

type causalActivityDoc struct {
	ID      string     `json:"id"`
	Name    string     `json:"name,omitempty"`
	Inputs  [][]string `json:"inputs"`
	Outputs [][]string `json:"outputs"`
}

type netDoc struct {
	ID          string          `json:"id,omitempty"`
	Places      []placeDoc      `json:"places"`
	Transitions []transitionDoc `json:"transitions"`
	Arcs        []netArcDoc     `json:"arcs"`
}

type placeDoc struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Initial bool   `json:"initial,omitempty"`
	Final   bool   `json:"final,omitempty"`
}

type transitionDoc struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Silent bool   `json:"silent,omitempty"`
}

type netArcDoc struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// DFGFromJSON parses a directly-follows graph. Arcs without a weight
// default to one.
func DFGFromJSON(data []byte) (*dfg.Graph, error) {
	var doc dfgDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	b := dfg.Build(doc.ID)
	for _, a := range doc.Activities {
		b.Activity(a.ID, nameOr(a.Name, a.ID))
	}
	for _, arc := range doc.Arcs {
		weight := 1.0
		if arc.Weight != nil {
			weight = *arc.Weight
		}
		b.Arc(arc.Source, arc.Target, weight)
	}
	return b.Done()
}

// DFGToJSON serializes a directly-follows graph with deterministic
// ordering.
func DFGToJSON(g *dfg.Graph) ([]byte, error) {
	doc := dfgDoc{ID: g.ID()}
	for _, a := range g.Activities() {
		doc.Activities = append(doc.Activities, activityDoc{ID: a.ID, Name: a.Name})
	}
	for _, arc := range g.Arcs() {
		weight := arc.Weight
		doc.Arcs = append(doc.Arcs, dfgArcDoc{Source: arc.Source, Target: arc.Target, Weight: &weight})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// CausalFromJSON parses a causal model. The semantics tag selects
// between "causal-net" and "causal-matrix".
func CausalFromJSON(data []byte) (*causal.Model, error) {
	var doc causalDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	semantics, err := semanticsFromString(doc.Semantics)
	if err != nil {
		return nil, err
	}
	b := causal.Build(doc.ID, semantics)
	for _, a := range doc.Activities {
		b.Activity(a.ID, nameOr(a.Name, a.ID), a.Inputs, a.Outputs)
	}
	return b.Done()
}

// CausalToJSON serializes a causal model with deterministic ordering.
func CausalToJSON(m *causal.Model) ([]byte, error) {
	doc := causalDoc{ID: m.ID(), Semantics: m.Semantics().String()}
	for _, a := range m.Activities() {
		doc.Activities = append(doc.Activities, causalActivityDoc{
			ID:      a.ID,
			Name:    a.Name,
			Inputs:  a.Inputs,
			Outputs: a.Outputs,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}

// NetFromJSON parses a place/transition net. Arc kinds are derived
// from the endpoints.
func NetFromJSON(data []byte) (*petri.Net, error) {
	var doc netDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	b := petri.Build(doc.ID)
	for _, p := range doc.Places {
		b.AddPlace(petri.Place{ID: p.ID, Name: nameOr(p.Name, p.ID), Initial: p.Initial, Final: p.Final})
	}
	for _, tr := range doc.Transitions {
		b.AddTransition(petri.Transition{ID: tr.ID, Name: nameOr(tr.Name, tr.ID), Silent: tr.Silent})
	}
	for _, a := range doc.Arcs {
		b.Arc(a.Source, a.Target)
	}
	return b.Done()
}

// NetToJSON serializes a place/transition net with deterministic
// ordering.
func NetToJSON(n *petri.Net) ([]byte, error) {
	doc := netDoc{ID: n.ID()}
	for _, p := range n.Places() {
		doc.Places = append(doc.Places, placeDoc{ID: p.ID, Name: p.Name, Initial: p.Initial, Final: p.Final})
	}
	for _, tr := range n.Transitions() {
		doc.Transitions = append(doc.Transitions, transitionDoc{ID: tr.ID, Name: tr.Name, Silent: tr.Silent})
	}
	for _, a := range n.Arcs() {
		doc.Arcs = append(doc.Arcs, netArcDoc{Source: a.Source, Target: a.Target})
	}
	return json.MarshalIndent(doc, "", "  ")
}

func semanticsFromString(s string) (causal.Semantics, error) {
	switch s {
	case causal.SemanticsNet.String():
		return causal.SemanticsNet, nil
	case causal.SemanticsMatrix.String():
		return causal.SemanticsMatrix, nil
	default:
		return causal.SemanticsNet, fmt.Errorf("%w: %q", ErrUnknownSemantics, s)
	}
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
