// Package replay decides whether activity traces fit a
// place/transition net. A trace fits when some firing sequence starts
// at the initial marking, emits exactly the trace's activities in
// order (silent transitions may fire freely in between) and ends with
// the tokens resting on the final places. The search is best-first,
// guided by how much of the trace is still missing.
package replay

import (
	"container/heap"
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ProcessMiningUSC/CRIER/petri"
)

// transitionSpec is the precomputed firing rule of one transition.
type transitionSpec struct {
	id      string
	name    string
	silent  bool
	inputs  []string
	outputs []string
}

// Engine replays traces against one net. The net is digested once at
// construction; the engine itself is read-only afterwards and safe for
// concurrent use by multiple goroutines.
type Engine struct {
	transitions []transitionSpec
	visible     map[string]bool
	initial     map[string]bool
	finalKey    string
	timeout     time.Duration
	maxStates   int
}

// NewEngine digests a net into a replay engine.
func NewEngine(n *petri.Net) *Engine {
	e := &Engine{
		visible: make(map[string]bool),
		initial: make(map[string]bool),
	}
	for _, t := range n.Transitions() {
		e.transitions = append(e.transitions, transitionSpec{
			id:      t.ID,
			name:    t.Name,
			silent:  t.Silent,
			inputs:  n.PreSet(t.ID),
			outputs: n.PostSet(t.ID),
		})
		if !t.Silent {
			e.visible[t.Name] = true
		}
	}
	for _, p := range n.InitialPlaces() {
		e.initial[p.ID] = true
	}
	final := make(map[string]bool)
	for _, p := range n.FinalPlaces() {
		final[p.ID] = true
	}
	e.finalKey = markingKey(final)
	return e
}

// WithTimeout sets a wall-clock limit per Fits call. Zero means no
// limit.
func (e *Engine) WithTimeout(d time.Duration) *Engine {
	e.timeout = d
	return e
}

// WithMaxStates caps the number of states a single search may expand.
// Zero means no cap.
func (e *Engine) WithMaxStates(n int) *Engine {
	e.maxStates = n
	return e
}

// Fits reports whether the trace replays to a perfect fit. A trace
// naming an activity the net does not know is rejected without
// searching. On timeout the error is ErrTimeout, never a plain
// non-fit.
func (e *Engine) Fits(trace []string) (bool, error) {
	ctx := context.Background()
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.FitsContext(ctx, trace)
}

// FitsContext is Fits under a caller-supplied context.
func (e *Engine) FitsContext(ctx context.Context, trace []string) (bool, error) {
	for _, activity := range trace {
		if !e.visible[activity] {
			return false, nil
		}
	}

	start := &searchState{tokens: copySet(e.initial)}
	open := &stateQueue{}
	heap.Push(open, start)
	seen := map[stateKey]bool{{markingKey(start.tokens), 0}: true}
	expanded := 0

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return false, ErrTimeout
			}
			return false, ctx.Err()
		default:
		}

		s := heap.Pop(open).(*searchState)
		if len(s.fired) == len(trace) && markingKey(s.tokens) == e.finalKey {
			return true, nil
		}
		expanded++
		if e.maxStates > 0 && expanded > e.maxStates {
			return false, ErrStateLimit
		}

		for _, t := range e.transitions {
			if !enabled(t, s.tokens) {
				continue
			}
			if !t.silent {
				// visible firings must extend the trace prefix
				if len(s.fired) >= len(trace) || trace[len(s.fired)] != t.name {
					continue
				}
			}
			ns := s.fire(t)
			key := stateKey{markingKey(ns.tokens), len(ns.fired)}
			if seen[key] {
				continue
			}
			seen[key] = true
			heap.Push(open, ns)
		}
	}
	return false, nil
}

// searchState is one node of the replay search: the marked places plus
// the visible activities fired so far.
type searchState struct {
	tokens  map[string]bool
	fired   []string
	firings int
	seq     int
}

func (s *searchState) fire(t transitionSpec) *searchState {
	tokens := copySet(s.tokens)
	for _, p := range t.inputs {
		delete(tokens, p)
	}
	for _, p := range t.outputs {
		tokens[p] = true
	}
	fired := s.fired
	if !t.silent {
		fired = make([]string, len(s.fired), len(s.fired)+1)
		copy(fired, s.fired)
		fired = append(fired, t.name)
	}
	return &searchState{tokens: tokens, fired: fired, firings: s.firings + 1}
}

// enabled reports whether every input place of the transition holds a
// token.
func enabled(t transitionSpec, tokens map[string]bool) bool {
	for _, p := range t.inputs {
		if !tokens[p] {
			return false
		}
	}
	return true
}

// stateKey dedupes states: fired prefixes of equal length are
// identical, so the marking plus the prefix length identifies a state.
type stateKey struct {
	marking string
	fired   int
}

// markingKey returns a short deterministic digest of a token set.
func markingKey(tokens map[string]bool) string {
	ids := make([]string, 0, len(tokens))
	for id := range tokens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(strings.Join(ids, "\x1f")))
	return fmt.Sprintf("%x", sum[:8])
}

func copySet(set map[string]bool) map[string]bool {
	out := make(map[string]bool, len(set))
	for k := range set {
		out[k] = true
	}
	return out
}

// stateQueue is a best-first queue: states closer to completing the
// trace pop first, ties broken by fewer total firings, then insertion
// order.
type stateQueue struct {
	items []*searchState
	seq   int
}

func (q *stateQueue) Len() int { return len(q.items) }

func (q *stateQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if len(a.fired) != len(b.fired) {
		return len(a.fired) > len(b.fired)
	}
	if a.firings != b.firings {
		return a.firings < b.firings
	}
	return a.seq < b.seq
}

func (q *stateQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *stateQueue) Push(x any) {
	s := x.(*searchState)
	s.seq = q.seq
	q.seq++
	q.items = append(q.items, s)
}

func (q *stateQueue) Pop() any {
	old := q.items
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return s
}
