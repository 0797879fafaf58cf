package optimize

import (
	"errors"
	"testing"

	"github.com/ProcessMiningUSC/CRIER/dfg"
)

func TestArborescenceMaximumSelectsBestIncoming(t *testing.T) {
	// Per non-root node the max-weight incoming arc: B<-A(3), C<-A(1),
	// D<-B(3). The greedy selection is already acyclic.
	g := mustGraph(t, "diamond", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 3},
		{Source: "a", Target: "c", Weight: 1},
		{Source: "b", Target: "d", Weight: 3},
		{Source: "c", Target: "d", Weight: 1},
	})
	arb, err := Arborescence(g, "a", Maximum)
	if err != nil {
		t.Fatalf("Arborescence failed: %v", err)
	}
	arcsMatch(t, arb, []dfg.Arc{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "b", Target: "d"},
	})
}

func TestArborescenceMinimum(t *testing.T) {
	g := mustGraph(t, "diamond", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 3},
		{Source: "a", Target: "c", Weight: 1},
		{Source: "b", Target: "d", Weight: 3},
		{Source: "c", Target: "d", Weight: 1},
	})
	arb, err := Arborescence(g, "a", Minimum)
	if err != nil {
		t.Fatalf("Arborescence failed: %v", err)
	}
	arcsMatch(t, arb, []dfg.Arc{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "c"},
		{Source: "c", Target: "d"},
	})
	// weights come back un-negated
	for _, a := range arb {
		if a.Weight <= 0 {
			t.Errorf("Expected original positive weight, got %v for %s->%s", a.Weight, a.Source, a.Target)
		}
	}
}

func TestArborescenceContractsCycle(t *testing.T) {
	// The greedy selection picks c->b (4) over a->b (1), closing the
	// cycle b<->c; contraction must recover the chain through the cycle.
	g := mustGraph(t, "cycle", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "b", Target: "c", Weight: 5},
		{Source: "c", Target: "b", Weight: 4},
		{Source: "b", Target: "d", Weight: 1},
	})
	arb, err := Arborescence(g, "a", Maximum)
	if err != nil {
		t.Fatalf("Arborescence failed: %v", err)
	}
	arcsMatch(t, arb, []dfg.Arc{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "b", Target: "d"},
	})
}

func TestArborescenceNestedContractions(t *testing.T) {
	// Contracting b<->c produces a second cycle between the synthetic
	// vertex and d, forcing a second contraction level.
	g := mustGraph(t, "nested", []string{"a", "b", "c", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "b", Target: "c", Weight: 9},
		{Source: "c", Target: "b", Weight: 9},
		{Source: "c", Target: "d", Weight: 2},
		{Source: "d", Target: "b", Weight: 3},
	})
	arb, err := Arborescence(g, "a", Maximum)
	if err != nil {
		t.Fatalf("Arborescence failed: %v", err)
	}
	arcsMatch(t, arb, []dfg.Arc{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "d"},
	})
}

func TestArborescenceTieBreaksByLowestSource(t *testing.T) {
	g := mustGraph(t, "tie", []string{"a", "b", "d"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 2},
		{Source: "d", Target: "b", Weight: 2},
		{Source: "a", Target: "d", Weight: 1},
	})
	arb, err := Arborescence(g, "a", Maximum)
	if err != nil {
		t.Fatalf("Arborescence failed: %v", err)
	}
	arcsMatch(t, arb, []dfg.Arc{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "d"},
	})
}

func TestArborescenceUnknownRoot(t *testing.T) {
	g := mustGraph(t, "tiny", []string{"a", "b"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 1},
	})
	if _, err := Arborescence(g, "zz", Maximum); !errors.Is(err, ErrUnknownRoot) {
		t.Errorf("Expected ErrUnknownRoot, got %v", err)
	}
}

func TestArborescenceUnreachableActivity(t *testing.T) {
	g := mustGraph(t, "island", []string{"a", "b", "c"}, []dfg.Arc{
		{Source: "a", Target: "b", Weight: 1},
	})
	if _, err := Arborescence(g, "a", Maximum); !errors.Is(err, ErrNoArborescence) {
		t.Errorf("Expected ErrNoArborescence, got %v", err)
	}
}
