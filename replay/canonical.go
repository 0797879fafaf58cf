package replay

// CanonicalTrace returns the visible activities of a shortest firing
// sequence from the initial marking to the final marking. Transitions
// are tried in id order, so the result is deterministic for a given
// net. When the final marking is unreachable the error is
// ErrNoFiringSequence.
func (e *Engine) CanonicalTrace() ([]string, error) {
	start := &searchState{tokens: copySet(e.initial)}
	if markingKey(start.tokens) == e.finalKey {
		return []string{}, nil
	}
	queue := []*searchState{start}
	seen := map[string]bool{markingKey(start.tokens): true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range e.transitions {
			if !enabled(t, cur.tokens) {
				continue
			}
			ns := cur.fire(t)
			key := markingKey(ns.tokens)
			if seen[key] {
				continue
			}
			seen[key] = true
			if key == e.finalKey {
				return ns.fired, nil
			}
			queue = append(queue, ns)
		}
	}
	return nil, ErrNoFiringSequence
}
