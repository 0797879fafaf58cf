package dfg

import (
	"fmt"
	"sort"
)

// Validate checks the structural properties the optimizer relies on:
// exactly one source, exactly one sink, and soundness (every activity
// lies on a path from the source to the sink). The returned error wraps
// the matching sentinel and names the offending activities.
func Validate(g *Graph) error {
	sources := g.Sources()
	if len(sources) != 1 {
		return fmt.Errorf("%w: found %d candidates %v", ErrNoUniqueSource, len(sources), activityIDs(sources))
	}
	sinks := g.Sinks()
	if len(sinks) != 1 {
		return fmt.Errorf("%w: found %d candidates %v", ErrNoUniqueSink, len(sinks), activityIDs(sinks))
	}
	source, sink := sources[0], sinks[0]

	fromSource := reach(g, source.ID, false)
	for _, id := range g.ActivityIDs() {
		if !fromSource[id] {
			return fmt.Errorf("%w: activity %q is not reachable from source %q", ErrUnsound, id, source.ID)
		}
	}
	toSink := reach(g, sink.ID, true)
	for _, id := range g.ActivityIDs() {
		if !toSink[id] {
			return fmt.Errorf("%w: activity %q cannot reach sink %q", ErrUnsound, id, sink.ID)
		}
	}
	return nil
}

// Connected reports weak connectivity: every activity can be reached from
// the lowest-ID activity when arcs are walked in both directions. Empty
// graphs are connected.
func Connected(g *Graph) bool {
	ids := g.ActivityIDs()
	if len(ids) == 0 {
		return true
	}
	seen := map[string]bool{ids[0]: true}
	queue := []string{ids[0]}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, a := range g.Outgoing(id) {
			if !seen[a.Target] {
				seen[a.Target] = true
				queue = append(queue, a.Target)
			}
		}
		for _, a := range g.Incoming(id) {
			if !seen[a.Source] {
				seen[a.Source] = true
				queue = append(queue, a.Source)
			}
		}
	}
	return len(seen) == len(ids)
}

// reach walks the graph from start via a worklist and returns the set of
// visited activity IDs. With backward set it follows arcs in reverse.
func reach(g *Graph, start string, backward bool) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		arcs := g.Outgoing(id)
		if backward {
			arcs = g.Incoming(id)
		}
		for _, a := range arcs {
			next := a.Target
			if backward {
				next = a.Source
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

func activityIDs(activities []Activity) []string {
	ids := make([]string, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	return ids
}
