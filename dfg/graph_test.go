package dfg

import (
	"errors"
	"testing"
)

// buildDiamond returns the four-activity diamond a -> {b, c} -> d.
func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	g, err := Build("diamond").
		Activities("a", "b", "c", "d").
		Arc("a", "b", 3).
		Arc("a", "c", 1).
		Arc("b", "d", 3).
		Arc("c", "d", 1).
		Done()
	if err != nil {
		t.Fatalf("Failed to build diamond graph: %v", err)
	}
	return g
}

func TestBuildRejectsUnknownActivity(t *testing.T) {
	_, err := Build("bad").
		Activities("a").
		Arc("a", "missing", 1).
		Done()
	if !errors.Is(err, ErrUnknownActivity) {
		t.Errorf("Expected ErrUnknownActivity, got %v", err)
	}
}

func TestBuildMergesDuplicateArcs(t *testing.T) {
	g, err := Build("dup").
		Activities("a", "b").
		Arc("a", "b", 2).
		Arc("a", "b", 5).
		Done()
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	if g.ArcCount() != 1 {
		t.Errorf("Expected 1 arc after merge, got %d", g.ArcCount())
	}
	arc, ok := g.ArcBetween("a", "b")
	if !ok {
		t.Fatal("Expected arc a->b to exist")
	}
	if arc.Weight != 7 {
		t.Errorf("Expected merged weight 7, got %v", arc.Weight)
	}
}

func TestBuildMintsIDWhenEmpty(t *testing.T) {
	g, err := Build("").Activities("a").Done()
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	if g.ID() == "" {
		t.Error("Expected a generated graph ID, got empty string")
	}
}

func TestAccessorsAreSorted(t *testing.T) {
	g := buildDiamond(t)

	ids := g.ActivityIDs()
	want := []string{"a", "b", "c", "d"}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("Expected activity %q at index %d, got %q", id, i, ids[i])
		}
	}

	arcs := g.Arcs()
	if len(arcs) != 4 {
		t.Fatalf("Expected 4 arcs, got %d", len(arcs))
	}
	if arcs[0].Source != "a" || arcs[0].Target != "b" {
		t.Errorf("Expected first arc a->b, got %s->%s", arcs[0].Source, arcs[0].Target)
	}
	if arcs[3].Source != "c" || arcs[3].Target != "d" {
		t.Errorf("Expected last arc c->d, got %s->%s", arcs[3].Source, arcs[3].Target)
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := buildDiamond(t)

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != "a" {
		t.Errorf("Expected single source a, got %v", sources)
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0].ID != "d" {
		t.Errorf("Expected single sink d, got %v", sinks)
	}
}

func TestReverseFlipsArcs(t *testing.T) {
	g := buildDiamond(t)
	r := g.Reverse()

	if !r.HasArc("b", "a") || !r.HasArc("d", "c") {
		t.Error("Expected reversed arcs b->a and d->c")
	}
	if r.HasArc("a", "b") {
		t.Error("Expected original arc a->b to be gone after Reverse")
	}
	arc, _ := r.ArcBetween("b", "a")
	if arc.Weight != 3 {
		t.Errorf("Expected reversed arc to keep weight 3, got %v", arc.Weight)
	}
	if r.ActivityCount() != g.ActivityCount() {
		t.Errorf("Expected activity count %d, got %d", g.ActivityCount(), r.ActivityCount())
	}
}

func TestWithArcsProjectsSubset(t *testing.T) {
	g := buildDiamond(t)
	sub := g.WithArcs([]Arc{
		{Source: "a", Target: "b", Weight: 3},
		{Source: "b", Target: "d", Weight: 3},
		{Source: "x", Target: "d", Weight: 1}, // unknown endpoint, dropped
	})
	if sub.ArcCount() != 2 {
		t.Errorf("Expected 2 arcs in projection, got %d", sub.ArcCount())
	}
	if sub.ActivityCount() != 4 {
		t.Errorf("Expected all 4 activities kept, got %d", sub.ActivityCount())
	}
	if sub.HasArc("a", "c") {
		t.Error("Expected arc a->c to be excluded from projection")
	}
}

func TestWithoutActivities(t *testing.T) {
	g := buildDiamond(t)
	h := g.WithoutActivities("c")
	if h.HasActivity("c") {
		t.Error("Expected activity c to be removed")
	}
	if h.HasArc("a", "c") || h.HasArc("c", "d") {
		t.Error("Expected arcs touching c to be removed")
	}
	if h.ArcCount() != 2 {
		t.Errorf("Expected 2 remaining arcs, got %d", h.ArcCount())
	}
}

func TestTotalWeight(t *testing.T) {
	g := buildDiamond(t)
	if w := g.TotalWeight(); w != 8 {
		t.Errorf("Expected total weight 8, got %v", w)
	}
}
