package translate

import (
	"sort"

	"github.com/ProcessMiningUSC/CRIER/causal"
	"github.com/ProcessMiningUSC/CRIER/petri"
)

// NetToCausal folds a place/transition net back into a causal net.
// Each visible transition becomes an activity; its bindings are found
// by resolving token flow through places and silent transitions until
// visible activities appear. Two visible transitions sharing a label
// merge into one activity with the union of their bindings.
func NetToCausal(n *petri.Net) (*causal.Model, error) {
	forward := newResolver(n, true)
	backward := newResolver(n, false)

	type acc struct {
		name    string
		inputs  causal.Connections
		outputs causal.Connections
	}
	byLabel := make(map[string]*acc)
	var labels []string
	for _, t := range n.VisibleTransitions() {
		a, ok := byLabel[t.Name]
		if !ok {
			a = &acc{name: t.Name}
			byLabel[t.Name] = a
			labels = append(labels, t.Name)
		}
		a.outputs = append(a.outputs, forward.resolve(t.ID, make(map[string]bool))...)
		a.inputs = append(a.inputs, backward.resolve(t.ID, make(map[string]bool))...)
	}

	b := causal.Build(n.ID(), causal.SemanticsNet)
	sort.Strings(labels)
	for _, label := range labels {
		a := byLabel[label]
		b.Activity(label, a.name, a.inputs.Canonical(), a.outputs.Canonical())
	}
	return b.Done()
}

// NetToMatrix folds a net into a causal matrix: NetToCausal followed by
// the matrix rewrite, whose fidelity is passed through.
func NetToMatrix(n *petri.Net) (*causal.Model, causal.Fidelity, error) {
	model, err := NetToCausal(n)
	if err != nil {
		return nil, causal.Fidelity{}, err
	}
	return causal.ToMatrix(model)
}

// resolver walks a net in one direction, turning the token routing
// behind a transition into sets of visible-activity bindings. Silent
// resolutions are memoized; a visited set cuts silent cycles so a loop
// with no visible exit contributes nothing.
type resolver struct {
	net     *petri.Net
	forward bool
	memo    map[string][][]string
}

func newResolver(n *petri.Net, forward bool) *resolver {
	return &resolver{net: n, forward: forward, memo: make(map[string][][]string)}
}

func (r *resolver) nextOf(id string) []string {
	if r.forward {
		return r.net.PostSet(id)
	}
	return r.net.PreSet(id)
}

// resolve returns the bindings reachable by firing the transition: one
// choice per adjacent place, combined across places. A transition with
// no adjacent places yields the single empty binding.
func (r *resolver) resolve(tid string, visited map[string]bool) [][]string {
	if memo, ok := r.memo[tid]; ok {
		return memo
	}
	if visited[tid] {
		return nil
	}
	visited[tid] = true
	defer delete(visited, tid)

	result := [][]string{{}}
	for _, pid := range r.nextOf(tid) {
		result = crossUnion(result, r.placeChoices(pid, visited))
	}
	r.memo[tid] = result
	return result
}

// placeChoices returns the bindings offered by one place: the union
// over its adjacent transitions, visible ones contributing themselves
// and silent ones their resolution. A place with no adjacent
// transitions lets the token rest and contributes the empty binding.
func (r *resolver) placeChoices(pid string, visited map[string]bool) [][]string {
	next := r.nextOf(pid)
	if len(next) == 0 {
		return [][]string{{}}
	}
	var choices [][]string
	for _, tid := range next {
		t, ok := r.net.TransitionByID(tid)
		if !ok {
			continue
		}
		if !t.Silent {
			choices = append(choices, []string{t.Name})
			continue
		}
		choices = append(choices, r.resolve(tid, visited)...)
	}
	return choices
}

// crossUnion combines two binding sets pairwise by set union. An empty
// side means no completion exists and annihilates the product.
func crossUnion(a, b [][]string) [][]string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([][]string, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			merged := make([]string, 0, len(x)+len(y))
			merged = append(merged, x...)
			merged = append(merged, y...)
			sort.Strings(merged)
			deduped := merged[:0]
			for _, id := range merged {
				if len(deduped) == 0 || deduped[len(deduped)-1] != id {
					deduped = append(deduped, id)
				}
			}
			out = append(out, deduped)
		}
	}
	return out
}
