package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ProcessMiningUSC/CRIER/causal"
	"github.com/ProcessMiningUSC/CRIER/dfg"
	"github.com/ProcessMiningUSC/CRIER/petri"
)

func TestDFGRoundtrip(t *testing.T) {
	g, err := dfg.Build("claims").
		Activity("a", "file").
		Activity("b", "review").
		Activity("c", "close").
		Arc("a", "b", 3).
		Arc("b", "c", 2).
		Done()
	if err != nil {
		t.Fatalf("Done() returned error: %v", err)
	}

	data, err := DFGToJSON(g)
	if err != nil {
		t.Fatalf("DFGToJSON failed: %v", err)
	}
	back, err := DFGFromJSON(data)
	if err != nil {
		t.Fatalf("DFGFromJSON failed: %v", err)
	}

	if back.ID() != "claims" {
		t.Errorf("Expected id claims, got %s", back.ID())
	}
	if back.ActivityCount() != 3 || back.ArcCount() != 2 {
		t.Errorf("Expected 3 activities and 2 arcs, got %d and %d", back.ActivityCount(), back.ArcCount())
	}
	a, ok := back.ActivityByID("a")
	if !ok || a.Name != "file" {
		t.Errorf("Expected activity a named file, got %+v", a)
	}
	arc, ok := back.ArcBetween("a", "b")
	if !ok || arc.Weight != 3 {
		t.Errorf("Expected a->b weight 3, got %+v", arc)
	}
}

func TestDFGFromJSONDefaults(t *testing.T) {
	data := `{
	  "activities": [{"id": "a"}, {"id": "b"}],
	  "arcs": [{"source": "a", "target": "b"}]
	}`
	g, err := DFGFromJSON([]byte(data))
	if err != nil {
		t.Fatalf("DFGFromJSON failed: %v", err)
	}
	if g.ID() == "" {
		t.Error("Expected a minted graph id")
	}
	arc, _ := g.ArcBetween("a", "b")
	if arc.Weight != 1 {
		t.Errorf("Expected default weight 1, got %v", arc.Weight)
	}
	a, _ := g.ActivityByID("a")
	if a.Name != "a" {
		t.Errorf("Expected name to fall back to id, got %q", a.Name)
	}
}

func TestDFGFromJSONUnknownActivity(t *testing.T) {
	data := `{"activities": [{"id": "a"}], "arcs": [{"source": "a", "target": "ghost"}]}`
	_, err := DFGFromJSON([]byte(data))
	if !errors.Is(err, dfg.ErrUnknownActivity) {
		t.Fatalf("Expected ErrUnknownActivity, got %v", err)
	}
}

func TestDFGFromJSONInvalidPayload(t *testing.T) {
	if _, err := DFGFromJSON([]byte(`{"activities": [`)); err == nil {
		t.Fatal("Expected error for truncated JSON")
	}
}

func TestCausalRoundtrip(t *testing.T) {
	m, err := causal.Build("claims", causal.SemanticsNet).
		Activity("a", "file", nil, causal.Connections{{"b", "c"}}).
		Activity("b", "review", causal.Connections{{"a"}}, causal.Connections{{"d"}}).
		Activity("c", "assess", causal.Connections{{"a"}}, causal.Connections{{"d"}}).
		Activity("d", "close", causal.Connections{{"b", "c"}}, nil).
		Done()
	if err != nil {
		t.Fatalf("Done() returned error: %v", err)
	}

	data, err := CausalToJSON(m)
	if err != nil {
		t.Fatalf("CausalToJSON failed: %v", err)
	}
	back, err := CausalFromJSON(data)
	if err != nil {
		t.Fatalf("CausalFromJSON failed: %v", err)
	}

	if back.Semantics() != causal.SemanticsNet {
		t.Errorf("Expected net semantics, got %v", back.Semantics())
	}
	if back.ActivityCount() != 4 {
		t.Fatalf("Expected 4 activities, got %d", back.ActivityCount())
	}
	for _, want := range m.Activities() {
		got, ok := back.ActivityByID(want.ID)
		if !ok {
			t.Fatalf("Activity %s missing after roundtrip", want.ID)
		}
		if got.Name != want.Name {
			t.Errorf("Activity %s: expected name %q, got %q", want.ID, want.Name, got.Name)
		}
		if !got.Inputs.Equal(want.Inputs) || !got.Outputs.Equal(want.Outputs) {
			t.Errorf("Activity %s: connections changed across roundtrip", want.ID)
		}
	}
}

func TestCausalFromJSONSemanticsTag(t *testing.T) {
	data := `{"semantics": "causal-matrix", "activities": [{"id": "a", "inputs": [], "outputs": []}]}`
	m, err := CausalFromJSON([]byte(data))
	if err != nil {
		t.Fatalf("CausalFromJSON failed: %v", err)
	}
	if m.Semantics() != causal.SemanticsMatrix {
		t.Errorf("Expected matrix semantics, got %v", m.Semantics())
	}
}

func TestCausalFromJSONRejectsUnknownSemantics(t *testing.T) {
	for _, tag := range []string{"", "petri-net", "CAUSAL-NET"} {
		data := `{"semantics": "` + tag + `", "activities": []}`
		if _, err := CausalFromJSON([]byte(data)); !errors.Is(err, ErrUnknownSemantics) {
			t.Errorf("Tag %q: expected ErrUnknownSemantics, got %v", tag, err)
		}
	}
}

func TestNetRoundtrip(t *testing.T) {
	n, err := petri.Build("claims").
		InitialPlace("source", "source").
		Place("p1", "p1").
		FinalPlace("sink", "sink").
		Transition("t_a", "a").
		SilentTransition("tau_1").
		Arc("source", "t_a").
		Arc("t_a", "p1").
		Arc("p1", "tau_1").
		Arc("tau_1", "sink").
		Done()
	if err != nil {
		t.Fatalf("Done() returned error: %v", err)
	}

	data, err := NetToJSON(n)
	if err != nil {
		t.Fatalf("NetToJSON failed: %v", err)
	}
	back, err := NetFromJSON(data)
	if err != nil {
		t.Fatalf("NetFromJSON failed: %v", err)
	}

	if back.PlaceCount() != 3 || back.TransitionCount() != 2 || back.ArcCount() != 4 {
		t.Errorf("Expected 3 places, 2 transitions, 4 arcs, got %d, %d, %d",
			back.PlaceCount(), back.TransitionCount(), back.ArcCount())
	}
	if len(back.InitialPlaces()) != 1 || len(back.FinalPlaces()) != 1 {
		t.Error("Expected marking flags to survive the roundtrip")
	}
	if len(back.VisibleTransitions()) != 1 {
		t.Error("Expected the silent flag to survive the roundtrip")
	}
	if !back.HasArc("p1", "tau_1") {
		t.Error("Expected arc p1->tau_1 after roundtrip")
	}
}

func TestNetFromJSONRejectsSameKindArc(t *testing.T) {
	data := `{
	  "places": [{"id": "p1"}, {"id": "p2"}],
	  "transitions": [],
	  "arcs": [{"source": "p1", "target": "p2"}]
	}`
	_, err := NetFromJSON([]byte(data))
	if !errors.Is(err, petri.ErrSameKindArc) {
		t.Fatalf("Expected ErrSameKindArc, got %v", err)
	}
}

func TestJSONOutputIsStable(t *testing.T) {
	g, err := dfg.Build("stable").
		Activity("b", "b").
		Activity("a", "a").
		Arc("a", "b", 1).
		Done()
	if err != nil {
		t.Fatalf("Done() returned error: %v", err)
	}

	first, err := DFGToJSON(g)
	if err != nil {
		t.Fatalf("DFGToJSON failed: %v", err)
	}
	second, err := DFGToJSON(g)
	if err != nil {
		t.Fatalf("DFGToJSON failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("Expected identical output across calls")
	}
	if !strings.Contains(string(first), `"id": "a"`) {
		t.Errorf("Unexpected serialization: %s", first)
	}
}
