package optimize

import (
	"errors"
	"testing"

	"github.com/ProcessMiningUSC/CRIER/dfg"
)

// redundantDiamond is the A/B/C/D diamond with an extra low-weight
// shortcut a->d that both filters should be able to remove.
func redundantDiamond(t *testing.T) *dfg.Graph {
	t.Helper()
	return mustGraph(t, "redundant", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 3},
		{Source: "a", Target: "c", Weight: 1},
		{Source: "b", Target: "d", Weight: 3},
		{Source: "c", Target: "d", Weight: 1},
		{Source: "a", Target: "d", Weight: 1},
	})
}

func assertSoundSubset(t *testing.T, original, filtered *dfg.Graph) {
	t.Helper()
	if filtered.ActivityCount() != original.ActivityCount() {
		t.Errorf("Expected activity set unchanged: %d != %d",
			filtered.ActivityCount(), original.ActivityCount())
	}
	for _, a := range filtered.Arcs() {
		if !original.HasArc(a.Source, a.Target) {
			t.Errorf("Filtered arc %s->%s is not in the original graph", a.Source, a.Target)
		}
	}
	if err := dfg.Validate(filtered); err != nil {
		t.Errorf("Expected filtered graph to stay sound, got %v", err)
	}
}

func TestFilterTwoWayDropsShortcut(t *testing.T) {
	g := redundantDiamond(t)
	filtered, err := FilterTwoWay(g)
	if err != nil {
		t.Fatalf("FilterTwoWay failed: %v", err)
	}
	assertSoundSubset(t, g, filtered)
	if filtered.HasArc("a", "d") {
		t.Error("Expected shortcut a->d to be filtered out")
	}
	// forward pass keeps a->b, a->c, b->d; backward pass adds c->d so
	// that c still reaches the sink
	for _, want := range [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}} {
		if !filtered.HasArc(want[0], want[1]) {
			t.Errorf("Expected arc %s->%s to be kept", want[0], want[1])
		}
	}
}

func TestFilterGreedyMaximumKeepsHeavyArcs(t *testing.T) {
	g := mustGraph(t, "greedy", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "a", Target: "c", Weight: 5},
		{Source: "b", Target: "c", Weight: 1},
		{Source: "b", Target: "d", Weight: 5},
		{Source: "c", Target: "d", Weight: 1},
	})
	filtered, err := FilterGreedy(g, Maximum)
	if err != nil {
		t.Fatalf("FilterGreedy failed: %v", err)
	}
	assertSoundSubset(t, g, filtered)
	if filtered.HasArc("b", "c") {
		t.Error("Expected light arc b->c to be removed when maximizing")
	}
	if !filtered.HasArc("a", "c") || !filtered.HasArc("b", "d") {
		t.Error("Expected heavy arcs a->c and b->d to survive when maximizing")
	}
}

func TestFilterGreedyMinimumDropsHeavyArcs(t *testing.T) {
	g := mustGraph(t, "greedy", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "a", Target: "c", Weight: 5},
		{Source: "b", Target: "c", Weight: 1},
		{Source: "b", Target: "d", Weight: 5},
		{Source: "c", Target: "d", Weight: 1},
	})
	filtered, err := FilterGreedy(g, Minimum)
	if err != nil {
		t.Fatalf("FilterGreedy failed: %v", err)
	}
	assertSoundSubset(t, g, filtered)
	if filtered.HasArc("a", "c") || filtered.HasArc("b", "d") {
		t.Error("Expected heavy arcs to be removed when minimizing")
	}
	// only the light chain a->b->c->d survives
	if filtered.ArcCount() != 3 {
		t.Errorf("Expected 3 remaining arcs, got %d", filtered.ArcCount())
	}
}

func TestFilterGreedyKeepsLastDegreeArcs(t *testing.T) {
	// the plain diamond has no removable arc: every removal would strand
	// an endpoint
	g := mustGraph(t, "diamond", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 3},
		{Source: "a", Target: "c", Weight: 1},
		{Source: "b", Target: "d", Weight: 3},
		{Source: "c", Target: "d", Weight: 1},
	})
	filtered, err := FilterGreedy(g, Maximum)
	if err != nil {
		t.Fatalf("FilterGreedy failed: %v", err)
	}
	if filtered.ArcCount() != 4 {
		t.Errorf("Expected all 4 arcs kept, got %d", filtered.ArcCount())
	}
}

func TestFilterTwoWayGreedy(t *testing.T) {
	g := redundantDiamond(t)
	filtered, err := FilterTwoWayGreedy(g)
	if err != nil {
		t.Fatalf("FilterTwoWayGreedy failed: %v", err)
	}
	assertSoundSubset(t, g, filtered)
	if filtered.HasArc("a", "d") {
		t.Error("Expected shortcut a->d to be gone after combined filtering")
	}
	if filtered.ArcCount() != 4 {
		t.Errorf("Expected the diamond's 4 arcs, got %d", filtered.ArcCount())
	}
}

func TestFiltersRequireValidGraph(t *testing.T) {
	g := mustGraph(t, "two-sources", []string{"a", "b", "c"}, []dfg.Arc{
		{Source: "a", Target: "c", Weight: 1},
		{Source: "b", Target: "c", Weight: 1},
	})
	if _, err := FilterTwoWay(g); !errors.Is(err, dfg.ErrNoUniqueSource) {
		t.Errorf("Expected ErrNoUniqueSource from FilterTwoWay, got %v", err)
	}
	if _, err := FilterGreedy(g, Maximum); !errors.Is(err, dfg.ErrNoUniqueSource) {
		t.Errorf("Expected ErrNoUniqueSource from FilterGreedy, got %v", err)
	}
}
