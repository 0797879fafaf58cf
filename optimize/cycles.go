// Package optimize implements the directly-follows-graph optimizer:
// cycle detection and collapsing, rooted spanning arborescences
// (Edmonds' algorithm), and the arc-filtering passes built on them.
// All functions are pure: they never mutate the input graph.
package optimize

import (
	"fmt"

	"github.com/ProcessMiningUSC/CRIER/dfg"
)

// Walk colors for the iterative depth-first search.
const (
	colorWhite = iota // not visited
	colorGray         // on the current path
	colorBlack        // fully explored
)

// HasCycle reports whether the graph contains a directed cycle. The
// search seeds every activity in sorted order and walks outgoing arcs
// with an explicit stack; the test is repeated on the reversed graph.
func HasCycle(g *dfg.Graph) bool {
	return findCycle(g) != nil || findCycle(g.Reverse()) != nil
}

// FindCycle returns the arcs of one directed cycle, or nil when the
// graph is acyclic. The forward walk accumulates traversed arcs and
// closes a cycle when an arc's target is already on the current path;
// the leading arcs before the re-entered activity are trimmed away. If
// no forward cycle is found the search retries on the reversed graph
// and flips the resulting arcs back. Activities are seeded and arcs
// walked in sorted order, so the result is deterministic.
func FindCycle(g *dfg.Graph) []dfg.Arc {
	if cycle := findCycle(g); cycle != nil {
		return cycle
	}
	cycle := findCycle(g.Reverse())
	if cycle == nil {
		return nil
	}
	flipped := make([]dfg.Arc, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		a := cycle[i]
		flipped = append(flipped, dfg.Arc{Source: a.Target, Target: a.Source, Weight: a.Weight})
	}
	return flipped
}

// findCycle runs the iterative three-color search over one orientation.
func findCycle(g *dfg.Graph) []dfg.Arc {
	type frame struct {
		id  string
		idx int
	}
	color := make(map[string]int, g.ActivityCount())
	for _, start := range g.ActivityIDs() {
		if color[start] != colorWhite {
			continue
		}
		stack := []frame{{id: start}}
		var path []dfg.Arc
		color[start] = colorGray
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			arcs := g.Outgoing(f.id)
			if f.idx >= len(arcs) {
				color[f.id] = colorBlack
				stack = stack[:len(stack)-1]
				if len(path) > 0 {
					path = path[:len(path)-1]
				}
				continue
			}
			a := arcs[f.idx]
			f.idx++
			switch color[a.Target] {
			case colorGray:
				return closeCycle(path, a)
			case colorWhite:
				color[a.Target] = colorGray
				stack = append(stack, frame{id: a.Target})
				path = append(path, a)
			}
		}
	}
	return nil
}

// closeCycle trims the walk path down to the closed loop ended by arc a.
// The arc re-enters an activity on the current path, so the loop consists
// of the path arcs from that activity onward plus the closing arc itself.
func closeCycle(path []dfg.Arc, a dfg.Arc) []dfg.Arc {
	if a.Source == a.Target {
		return []dfg.Arc{a}
	}
	entry := 0
	for i, p := range path {
		if p.Source == a.Target {
			entry = i
			break
		}
	}
	cycle := make([]dfg.Arc, 0, len(path)-entry+1)
	cycle = append(cycle, path[entry:]...)
	return append(cycle, a)
}

// CollapseCycle returns a new graph in which the cycle's activities are
// replaced by a single synthetic activity. Arcs fully inside the cycle
// are dropped, arcs crossing the boundary are rewired to the synthetic
// activity (duplicates merge by summing weights), and all other arcs are
// kept unchanged. The synthetic id is loop_<lowest member id>, suffixed
// if that id is already taken.
func CollapseCycle(g *dfg.Graph, cycle []dfg.Arc) (*dfg.Graph, error) {
	if len(cycle) == 0 {
		return nil, fmt.Errorf("%w: empty cycle", ErrNoCycle)
	}
	members := make(map[string]bool)
	lowest := ""
	for _, a := range cycle {
		if !g.HasActivity(a.Source) || !g.HasActivity(a.Target) {
			return nil, fmt.Errorf("%w: cycle arc %s->%s", dfg.ErrUnknownActivity, a.Source, a.Target)
		}
		members[a.Source] = true
		members[a.Target] = true
		if lowest == "" || a.Source < lowest {
			lowest = a.Source
		}
		if a.Target < lowest {
			lowest = a.Target
		}
	}
	synthetic := "loop_" + lowest
	for i := 2; g.HasActivity(synthetic); i++ {
		synthetic = fmt.Sprintf("loop_%s_%d", lowest, i)
	}

	b := dfg.Build(g.ID()).Activity(synthetic, synthetic)
	for _, act := range g.Activities() {
		if !members[act.ID] {
			b.Activity(act.ID, act.Name)
		}
	}
	for _, a := range g.Arcs() {
		srcIn, tgtIn := members[a.Source], members[a.Target]
		switch {
		case srcIn && tgtIn:
			// interior arc, dropped with the cycle
		case srcIn:
			b.Arc(synthetic, a.Target, a.Weight)
		case tgtIn:
			b.Arc(a.Source, synthetic, a.Weight)
		default:
			b.Arc(a.Source, a.Target, a.Weight)
		}
	}
	return b.Done()
}

// CollapseAllCycles removes self-loop arcs, then repeatedly collapses
// cycles until the graph is acyclic. Every collapse strictly shrinks the
// activity set, so the loop terminates.
func CollapseAllCycles(g *dfg.Graph) (*dfg.Graph, error) {
	var kept []dfg.Arc
	for _, a := range g.Arcs() {
		if a.Source != a.Target {
			kept = append(kept, a)
		}
	}
	out := g.WithArcs(kept)
	for {
		cycle := FindCycle(out)
		if cycle == nil {
			return out, nil
		}
		collapsed, err := CollapseCycle(out, cycle)
		if err != nil {
			return nil, err
		}
		out = collapsed
	}
}
