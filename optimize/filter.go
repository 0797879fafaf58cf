package optimize

import (
	"sort"

	"github.com/ProcessMiningUSC/CRIER/dfg"
)

// FilterTwoWay computes the two-way arc filter: the union of the
// maximum arborescence rooted at the unique source with the maximum
// arborescence rooted at the unique sink on the reversed graph (flipped
// back afterwards). The union keeps every activity reachable from the
// source and able to reach the sink, so the result stays sound. The
// graph must pass dfg.Validate first; its error is returned unchanged.
func FilterTwoWay(g *dfg.Graph) (*dfg.Graph, error) {
	if err := dfg.Validate(g); err != nil {
		return nil, err
	}
	source := g.Sources()[0]
	sink := g.Sinks()[0]

	forward, err := Arborescence(g, source.ID, Maximum)
	if err != nil {
		return nil, err
	}
	backward, err := Arborescence(g.Reverse(), sink.ID, Maximum)
	if err != nil {
		return nil, err
	}

	union := make(map[edgeKey]dfg.Arc, len(forward)+len(backward))
	for _, a := range forward {
		union[edgeKey{a.Source, a.Target}] = a
	}
	for _, a := range backward {
		// arcs were computed on the reversed graph; flip them back and
		// restore the original weight
		orig, ok := g.ArcBetween(a.Target, a.Source)
		if ok {
			union[edgeKey{orig.Source, orig.Target}] = orig
		}
	}
	kept := make([]dfg.Arc, 0, len(union))
	for _, a := range union {
		kept = append(kept, a)
	}
	return g.WithArcs(kept), nil
}

// FilterGreedy removes arcs one at a time, lightest first when
// maximizing total weight (heaviest first when minimizing), keeping a
// removal only if it strands no endpoint and the graph stays sound:
// every activity still reachable from the source and still reaching the
// sink. The graph must pass dfg.Validate first.
func FilterGreedy(g *dfg.Graph, objective Objective) (*dfg.Graph, error) {
	if err := dfg.Validate(g); err != nil {
		return nil, err
	}
	source := g.Sources()[0].ID
	sink := g.Sinks()[0].ID

	ordered := g.Arcs()
	sort.SliceStable(ordered, func(i, j int) bool {
		if objective == Minimum {
			return ordered[i].Weight > ordered[j].Weight
		}
		return ordered[i].Weight < ordered[j].Weight
	})

	kept := make(map[edgeKey]dfg.Arc, len(ordered))
	outDeg := make(map[string]int)
	inDeg := make(map[string]int)
	for _, a := range ordered {
		kept[edgeKey{a.Source, a.Target}] = a
		outDeg[a.Source]++
		inDeg[a.Target]++
	}

	for _, a := range ordered {
		if outDeg[a.Source] == 1 || inDeg[a.Target] == 1 {
			continue // removal would strand an endpoint
		}
		k := edgeKey{a.Source, a.Target}
		delete(kept, k)
		outDeg[a.Source]--
		inDeg[a.Target]--
		if !soundWith(g, kept, source, sink) {
			kept[k] = a
			outDeg[a.Source]++
			inDeg[a.Target]++
		}
	}

	arcs := make([]dfg.Arc, 0, len(kept))
	for _, a := range kept {
		arcs = append(arcs, a)
	}
	return g.WithArcs(arcs), nil
}

// FilterTwoWayGreedy runs FilterTwoWay and then FilterGreedy (Maximum)
// on its result.
func FilterTwoWayGreedy(g *dfg.Graph) (*dfg.Graph, error) {
	filtered, err := FilterTwoWay(g)
	if err != nil {
		return nil, err
	}
	return FilterGreedy(filtered, Maximum)
}

// soundWith reports whether, over the kept arc set, every activity of g
// is reachable from source and reaches sink.
func soundWith(g *dfg.Graph, kept map[edgeKey]dfg.Arc, source, sink string) bool {
	forward := make(map[string][]string)
	backward := make(map[string][]string)
	for k := range kept {
		forward[k.src] = append(forward[k.src], k.tgt)
		backward[k.tgt] = append(backward[k.tgt], k.src)
	}
	total := g.ActivityCount()
	return floodCount(source, forward) == total && floodCount(sink, backward) == total
}

// floodCount returns the number of vertices reachable from start over
// the adjacency map, including start itself.
func floodCount(start string, adj map[string][]string) int {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adj[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return len(seen)
}
