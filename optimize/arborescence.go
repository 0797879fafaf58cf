package optimize

import (
	"fmt"
	"sort"

	"github.com/ProcessMiningUSC/CRIER/dfg"
)

// Objective selects whether an arborescence or filter maximizes or
// minimizes total arc weight.
type Objective int

const (
	Maximum Objective = iota
	Minimum
)

// edge is the working arc record of the contraction levels. Rewired
// copies replace graph arcs while cycles are contracted; the history
// maps on the frame stack lead back to the originals.
type edge struct {
	src string
	tgt string
	w   float64
}

type edgeKey struct {
	src string
	tgt string
}

func (e edge) key() edgeKey { return edgeKey{e.src, e.tgt} }

// contraction records one collapsed cycle: the synthetic activity that
// replaced it, the cycle's arcs at the pre-contraction level, and the
// rewrite history mapping each rewired arc back one level.
type contraction struct {
	synthetic string
	cycle     []edge
	rewritten map[edgeKey]edge
}

// Arborescence computes the rooted spanning arborescence of maximum (or
// minimum) total weight using Edmonds' algorithm: greedily select each
// non-root activity's best incoming arc; while the selection contains a
// cycle, contract it into a synthetic activity with reweighted border
// arcs, stacking the rewrite history; finally re-expand the stack in
// LIFO order, swapping rewired arcs back to their originals and
// re-inserting each cycle minus the arc whose target already receives
// an external arc. The returned arcs are originals from g, sorted by
// (source, target). The Minimum objective negates weights on entry and
// restores them on exit.
func Arborescence(g *dfg.Graph, root string, objective Objective) ([]dfg.Arc, error) {
	if !g.HasActivity(root) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoot, root)
	}
	verts := g.ActivityIDs()
	edges := make([]edge, 0, g.ArcCount())
	for _, a := range g.Arcs() {
		w := a.Weight
		if objective == Minimum {
			w = -w
		}
		if a.Source == a.Target {
			continue // self-loops can never join an arborescence
		}
		edges = append(edges, edge{src: a.Source, tgt: a.Target, w: w})
	}

	var frames []contraction
	synthCount := 0
	var selected []edge
	for {
		best, err := bestIncoming(edges, verts, root)
		if err != nil {
			return nil, err
		}
		cycle := selectionCycle(best, verts, root)
		if cycle == nil {
			selected = make([]edge, 0, len(best))
			for _, v := range verts {
				if e, ok := best[v]; ok {
					selected = append(selected, e)
				}
			}
			break
		}
		synthCount++
		synthetic := fmt.Sprintf("\x00contracted-%d", synthCount)
		verts, edges = contract(verts, edges, cycle, synthetic, &frames)
	}

	// Re-expansion: pop each contraction, restore the rewired arcs and
	// re-insert the cycle arcs around the external entry point.
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		entryTarget := ""
		restored := make([]edge, 0, len(selected)+len(f.cycle))
		for _, e := range selected {
			orig, ok := f.rewritten[e.key()]
			if !ok {
				restored = append(restored, e)
				continue
			}
			if e.tgt == f.synthetic {
				entryTarget = orig.tgt
			}
			restored = append(restored, orig)
		}
		for _, ce := range f.cycle {
			if ce.tgt != entryTarget {
				restored = append(restored, ce)
			}
		}
		selected = restored
	}

	out := make([]dfg.Arc, 0, len(selected))
	for _, e := range selected {
		arc, ok := g.ArcBetween(e.src, e.tgt)
		if !ok {
			return nil, fmt.Errorf("optimize: internal rewrite produced unknown arc %s->%s", e.src, e.tgt)
		}
		out = append(out, arc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out, nil
}

// bestIncoming picks, for every non-root vertex, its highest-weight
// incoming edge (ties broken by lowest source id). A vertex without any
// incoming edge has no spanning arborescence.
func bestIncoming(edges []edge, verts []string, root string) (map[string]edge, error) {
	best := make(map[string]edge, len(verts))
	for _, e := range edges {
		if e.tgt == root {
			continue
		}
		cur, ok := best[e.tgt]
		if !ok || e.w > cur.w || (e.w == cur.w && e.src < cur.src) {
			best[e.tgt] = e
		}
	}
	for _, v := range verts {
		if v == root {
			continue
		}
		if _, ok := best[v]; !ok {
			return nil, fmt.Errorf("%w: activity %q has no incoming arc", ErrNoArborescence, v)
		}
	}
	return best, nil
}

// selectionCycle finds one cycle inside the best-incoming selection by
// walking each vertex's chosen parent chain. Returns the cycle's edges
// or nil when the selection is acyclic.
func selectionCycle(best map[string]edge, verts []string, root string) []edge {
	state := make(map[string]int, len(verts))
	for _, v := range verts {
		if v == root || state[v] != colorWhite {
			continue
		}
		var chain []string
		u := v
		for u != root && state[u] == colorWhite {
			state[u] = colorGray
			chain = append(chain, u)
			// best is total over non-root vertices (bestIncoming checks)
			u = best[u].src
		}
		if state[u] == colorGray {
			// u is on the current chain: the tail from u closes a cycle
			start := 0
			for i, c := range chain {
				if c == u {
					start = i
					break
				}
			}
			members := chain[start:]
			cycle := make([]edge, 0, len(members))
			for _, m := range members {
				cycle = append(cycle, best[m])
			}
			return cycle
		}
		for _, c := range chain {
			state[c] = colorBlack
		}
	}
	return nil
}

// contract collapses the cycle into a synthetic vertex, reweighting the
// arcs that enter it and re-sourcing the arcs that leave it. Parallel
// rewired arcs keep only the best candidate per endpoint pair. The
// rewrite history and the cycle itself are pushed onto the frame stack.
func contract(verts []string, edges []edge, cycle []edge, synthetic string, frames *[]contraction) ([]string, []edge) {
	inCycle := make(map[string]bool, len(cycle))
	cycleIn := make(map[string]edge, len(cycle)) // cycle arc feeding each member
	minW := cycle[0].w
	for _, e := range cycle {
		inCycle[e.src] = true
		inCycle[e.tgt] = true
		cycleIn[e.tgt] = e
		if e.w < minW {
			minW = e.w
		}
	}

	rewritten := make(map[edgeKey]edge)
	keep := make(map[edgeKey]edge)
	var order []edgeKey
	addBest := func(ne edge, orig edge) {
		k := ne.key()
		cur, ok := keep[k]
		if !ok {
			keep[k] = ne
			rewritten[k] = orig
			order = append(order, k)
			return
		}
		if ne.w > cur.w {
			keep[k] = ne
			rewritten[k] = orig
		}
	}

	next := make([]edge, 0, len(edges))
	for _, e := range edges {
		srcIn, tgtIn := inCycle[e.src], inCycle[e.tgt]
		switch {
		case srcIn && tgtIn:
			// interior arc, dropped with the cycle
		case tgtIn:
			w := e.w + minW - cycleIn[e.tgt].w
			addBest(edge{src: e.src, tgt: synthetic, w: w}, e)
		case srcIn:
			addBest(edge{src: synthetic, tgt: e.tgt, w: e.w}, e)
		default:
			next = append(next, e)
		}
	}
	for _, k := range order {
		next = append(next, keep[k])
	}

	nextVerts := make([]string, 0, len(verts))
	for _, v := range verts {
		if !inCycle[v] {
			nextVerts = append(nextVerts, v)
		}
	}
	nextVerts = append(nextVerts, synthetic)

	*frames = append(*frames, contraction{synthetic: synthetic, cycle: cycle, rewritten: rewritten})
	return nextVerts, next
}
