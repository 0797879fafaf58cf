// Package reduce simplifies place/transition nets by removing
// structure that cannot change replay behavior: no-op self-loops,
// duplicated silent routing and redundant serial hops. Rules apply
// repeatedly until a full pass changes nothing, so the result is a
// fixpoint and reducing twice returns the same net.
package reduce

import (
	"sort"
	"strings"

	"github.com/ProcessMiningUSC/CRIER/petri"
)

// Net reduces a net to its structural fixpoint. Visible transitions and
// initial or final places are never removed; everything else is fair
// game as long as token flow stays equivalent.
func Net(n *petri.Net) (*petri.Net, error) {
	w := newWorkNet(n)
	for {
		selfLoop := w.selfLoopPass()
		parallel := w.parallelPass()
		serial := w.serialPass()
		if !selfLoop && !parallel && !serial {
			break
		}
	}
	return w.build(n.ID())
}

// workNet is the mutable scratch copy the passes operate on.
type workNet struct {
	places      map[string]petri.Place
	transitions map[string]petri.Transition
	in          map[string]map[string]bool
	out         map[string]map[string]bool
}

func newWorkNet(n *petri.Net) *workNet {
	w := &workNet{
		places:      make(map[string]petri.Place, n.PlaceCount()),
		transitions: make(map[string]petri.Transition, n.TransitionCount()),
		in:          make(map[string]map[string]bool),
		out:         make(map[string]map[string]bool),
	}
	for _, p := range n.Places() {
		w.places[p.ID] = p
	}
	for _, t := range n.Transitions() {
		w.transitions[t.ID] = t
	}
	for _, a := range n.Arcs() {
		w.addArc(a.Source, a.Target)
	}
	return w
}

func (w *workNet) addArc(source, target string) {
	if w.out[source] == nil {
		w.out[source] = make(map[string]bool)
	}
	if w.in[target] == nil {
		w.in[target] = make(map[string]bool)
	}
	w.out[source][target] = true
	w.in[target][source] = true
}

func (w *workNet) removeNode(id string) {
	for pred := range w.in[id] {
		delete(w.out[pred], id)
	}
	for succ := range w.out[id] {
		delete(w.in[succ], id)
	}
	delete(w.in, id)
	delete(w.out, id)
	delete(w.places, id)
	delete(w.transitions, id)
}

// selfLoopPass removes nodes whose predecessor set equals their
// successor set: firing through them is a no-op. Only plain places and
// silent transitions qualify.
func (w *workNet) selfLoopPass() bool {
	changed := false
	for _, id := range sortedKeys(w.places) {
		p := w.places[id]
		if p.Initial || p.Final {
			continue
		}
		if setsEqual(w.in[id], w.out[id]) {
			w.removeNode(id)
			changed = true
		}
	}
	for _, id := range sortedTransitionIDs(w.transitions) {
		t := w.transitions[id]
		if !t.Silent {
			continue
		}
		if setsEqual(w.in[id], w.out[id]) {
			w.removeNode(id)
			changed = true
		}
	}
	return changed
}

// parallelPass collapses nodes with an identical wiring signature down
// to the lowest id. Duplicated silent transitions go first so place
// signatures see the survivors only.
func (w *workNet) parallelPass() bool {
	changed := false

	groups := make(map[string][]string)
	for _, id := range sortedTransitionIDs(w.transitions) {
		t := w.transitions[id]
		if !t.Silent {
			continue
		}
		sig := joinSet(w.in[id]) + "\x1e" + joinSet(w.out[id])
		groups[sig] = append(groups[sig], id)
	}
	for _, ids := range groups {
		for _, id := range ids[1:] {
			w.removeNode(id)
			changed = true
		}
	}

	groups = make(map[string][]string)
	for _, id := range sortedKeys(w.places) {
		p := w.places[id]
		// the marking role is part of the signature, so an initial or
		// final place only merges with one playing the same role
		sig := strings.Join([]string{
			joinSet(w.in[id]),
			joinSet(w.out[id]),
			flagSig(p.Initial),
			flagSig(p.Final),
		}, "\x1e")
		groups[sig] = append(groups[sig], id)
	}
	for _, ids := range groups {
		for _, id := range ids[1:] {
			w.removeNode(id)
			changed = true
		}
	}
	return changed
}

// serialPass collapses place/silent-transition pairs connected by a
// sole arc, wiring the pair's predecessors straight to its successors.
// Places carrying a marking role are left alone.
func (w *workNet) serialPass() bool {
	changed := false

	for _, pid := range sortedKeys(w.places) {
		p, ok := w.places[pid]
		if !ok || p.Initial || p.Final {
			continue
		}
		if len(w.out[pid]) != 1 {
			continue
		}
		tid := onlyKey(w.out[pid])
		t, ok := w.transitions[tid]
		if !ok || !t.Silent || len(w.in[tid]) != 1 {
			continue
		}
		w.collapsePair(pid, tid)
		changed = true
	}

	for _, tid := range sortedTransitionIDs(w.transitions) {
		t, ok := w.transitions[tid]
		if !ok || !t.Silent {
			continue
		}
		if len(w.out[tid]) != 1 {
			continue
		}
		pid := onlyKey(w.out[tid])
		p, ok := w.places[pid]
		if !ok || p.Initial || p.Final || len(w.in[pid]) != 1 {
			continue
		}
		w.collapsePair(tid, pid)
		changed = true
	}
	return changed
}

// collapsePair removes the serial pair first->second and reconnects
// every predecessor of first to every successor of second.
func (w *workNet) collapsePair(first, second string) {
	var preds, succs []string
	for pred := range w.in[first] {
		if pred != first && pred != second {
			preds = append(preds, pred)
		}
	}
	for succ := range w.out[second] {
		if succ != first && succ != second {
			succs = append(succs, succ)
		}
	}
	w.removeNode(first)
	w.removeNode(second)
	for _, u := range preds {
		for _, v := range succs {
			w.addArc(u, v)
		}
	}
}

func (w *workNet) build(id string) (*petri.Net, error) {
	b := petri.Build(id)
	for _, pid := range sortedKeys(w.places) {
		b.AddPlace(w.places[pid])
	}
	for _, tid := range sortedTransitionIDs(w.transitions) {
		b.AddTransition(w.transitions[tid])
	}
	for _, src := range append(sortedKeys(w.places), sortedTransitionIDs(w.transitions)...) {
		targets := make([]string, 0, len(w.out[src]))
		for tgt := range w.out[src] {
			targets = append(targets, tgt)
		}
		sort.Strings(targets)
		for _, tgt := range targets {
			b.Arc(src, tgt)
		}
	}
	return b.Done()
}

func sortedKeys(m map[string]petri.Place) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sortedTransitionIDs(m map[string]petri.Transition) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func onlyKey(set map[string]bool) string {
	for k := range set {
		return k
	}
	return ""
}

func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func joinSet(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x1f")
}

func flagSig(flag bool) string {
	if flag {
		return "1"
	}
	return "0"
}
