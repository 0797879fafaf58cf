package petri

import (
	"errors"
	"testing"
)

func TestBuildMintsIDWhenEmpty(t *testing.T) {
	net, err := Build("").Place("p", "p").Done()
	if err != nil {
		t.Fatalf("Done() failed: %v", err)
	}
	if net.ID() == "" {
		t.Errorf("Expected a generated net id, got empty string")
	}
}

func TestBuildRejectsDuplicateID(t *testing.T) {
	_, err := Build("n").
		Place("x", "x").
		Transition("x", "x").
		Done()
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
}

func TestBuildRejectsUnknownEndpoint(t *testing.T) {
	_, err := Build("n").
		Place("p", "p").
		Transition("t", "t").
		Arc("p", "ghost").
		Done()
	if !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode, got %v", err)
	}
}

func TestBuildRejectsSameKindArc(t *testing.T) {
	_, err := Build("n").
		Place("p1", "p1").
		Place("p2", "p2").
		Arc("p1", "p2").
		Done()
	if !errors.Is(err, ErrSameKindArc) {
		t.Errorf("Expected ErrSameKindArc for place->place, got %v", err)
	}

	_, err = Build("n").
		Transition("t1", "t1").
		Transition("t2", "t2").
		Arc("t1", "t2").
		Done()
	if !errors.Is(err, ErrSameKindArc) {
		t.Errorf("Expected ErrSameKindArc for transition->transition, got %v", err)
	}
}

func TestBuildCollapsesDuplicateArcs(t *testing.T) {
	net, err := Build("n").
		Place("p", "p").
		Transition("t", "t").
		Arc("p", "t").
		Arc("p", "t").
		Done()
	if err != nil {
		t.Fatalf("Done() failed: %v", err)
	}
	if net.ArcCount() != 1 {
		t.Errorf("Expected duplicate arcs to collapse to 1, got %d", net.ArcCount())
	}
}

func TestBuildAddPlaceKeepsFlags(t *testing.T) {
	net, err := Build("n").
		AddPlace(Place{ID: "p", Name: "p", Initial: true, Final: true}).
		Done()
	if err != nil {
		t.Fatalf("Done() failed: %v", err)
	}
	p, ok := net.PlaceByID("p")
	if !ok || !p.Initial || !p.Final {
		t.Errorf("Expected initial+final place, got %v (ok=%v)", p, ok)
	}
}

func TestSilentTransitionNamedAfterID(t *testing.T) {
	net, err := Build("n").SilentTransition("tau_1").Done()
	if err != nil {
		t.Fatalf("Done() failed: %v", err)
	}
	tr, ok := net.TransitionByID("tau_1")
	if !ok || !tr.Silent || tr.Name != "tau_1" {
		t.Errorf("Expected silent transition named tau_1, got %v (ok=%v)", tr, ok)
	}
}
