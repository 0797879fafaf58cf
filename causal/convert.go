package causal

import "sort"

// Fidelity reports how faithfully a conversion preserved behavior. The
// two encodings differ in expressive power, so conversion may drop
// reachable combinations (BehaviorLost) or sanction new ones
// (BehaviorAdded). Both are approximations, never errors.
type Fidelity struct {
	BehaviorLost  bool
	BehaviorAdded bool
}

// Merge ORs two fidelity reports together.
func (f Fidelity) Merge(other Fidelity) Fidelity {
	return Fidelity{
		BehaviorLost:  f.BehaviorLost || other.BehaviorLost,
		BehaviorAdded: f.BehaviorAdded || other.BehaviorAdded,
	}
}

// Exact reports whether the conversion was behavior-preserving.
func (f Fidelity) Exact() bool { return !f.BehaviorLost && !f.BehaviorAdded }

// ToNet converts a model to the Causal-Net interpretation. A model
// already under SemanticsNet is returned unchanged. Otherwise every
// activity's inputs and outputs run through the cartesian expansion
// rewrite and the per-activity fidelity reports are merged.
func ToNet(m *Model) (*Model, Fidelity, error) {
	if m.Semantics() == SemanticsNet {
		return m, Fidelity{}, nil
	}
	return convert(m, SemanticsNet, ExpandToNet)
}

// ToMatrix converts a model to the Causal-Matrix interpretation. A
// model already under SemanticsMatrix is returned unchanged. Otherwise
// every activity's connections run through the ordered combination
// rewrite and the per-activity fidelity reports are merged.
func ToMatrix(m *Model) (*Model, Fidelity, error) {
	if m.Semantics() == SemanticsMatrix {
		return m, Fidelity{}, nil
	}
	return convert(m, SemanticsMatrix, CombineToMatrix)
}

func convert(m *Model, target Semantics, rewrite func(Connections) (Connections, Fidelity)) (*Model, Fidelity, error) {
	b := Build(m.ID(), target)
	var fx Fidelity
	for _, a := range m.Activities() {
		inputs, fIn := rewrite(a.Inputs)
		outputs, fOut := rewrite(a.Outputs)
		fx = fx.Merge(fIn).Merge(fOut)
		b.Activity(a.ID, a.Name, inputs, outputs)
	}
	model, err := b.Done()
	return model, fx, err
}

// ExpandToNet rewrites one connection set from the AND-of-OR reading to
// the OR-of-AND reading. Elements are processed in sorted order,
// skipping ones already assigned to an emitted combination. For each
// element e the subsets containing e are gathered and their union forms
// e's coverage. The cartesian operands are the gathered subsets minus e
// plus every remaining subset that overlaps the coverage, reduced by
// the ids that co-occur with e; ids repeating across operands count
// once, and an operand whose members were all merged in prior steps
// collapses to a single representative. The cartesian product across
// the operands, each combination extended with e, is then filtered: a
// combination survives only if every original subset contributes at
// most one element to it or lies entirely inside the coverage. Elements
// left uncovered re-emerge as singletons so the output id-set always
// equals the input id-set.
//
// BehaviorLost is flagged when a subset is a strict subset of another,
// or when a subset is fully absorbed by other steps without ever
// contributing (a three-or-more-way cyclic mutual dependency collapses
// it to nothing). BehaviorAdded is flagged when the filter removes any
// combination the cartesian product produced.
//
// The rewrite is a deterministic function of the canonical input and
// rewrites a connection set if and only if its subsets overlap:
// pairwise-disjoint input comes back unchanged.
func ExpandToNet(conns Connections) (Connections, Fidelity) {
	subsets := conns.Canonical()
	var fx Fidelity
	if hasStrictSubset(subsets) {
		fx.BehaviorLost = true
	}
	assigned := make(map[string]bool)
	consumed := make([]bool, len(subsets))
	var out Connections

	for _, e := range subsets.IDs() {
		if assigned[e] {
			continue
		}
		var gathered []int
		var remaining []int
		coverage := make(map[string]bool)
		for i, s := range subsets {
			if containsString(s, e) {
				gathered = append(gathered, i)
				for _, id := range s {
					coverage[id] = true
				}
			} else {
				remaining = append(remaining, i)
			}
		}

		seenOperand := make(map[string]bool)
		var operands [][]string
		addOperand := func(i int, insideCoverage bool) {
			var op []string
			allMerged := true
			for _, id := range subsets[i] {
				if id == e || seenOperand[id] {
					continue
				}
				if insideCoverage != coverage[id] {
					continue
				}
				seenOperand[id] = true
				op = append(op, id)
				if !assigned[id] {
					allMerged = false
				}
			}
			if len(op) == 0 {
				return
			}
			if allMerged {
				op = op[:1]
			}
			operands = append(operands, op)
			consumed[i] = true
		}
		for _, i := range gathered {
			addOperand(i, true)
		}
		for _, i := range remaining {
			if overlapsCoverage(subsets[i], coverage) {
				// co-occurring ids are stripped, the rest recombines
				addOperand(i, false)
			}
		}

		combos := cartesian(operands)
		var kept Connections
		for _, c := range combos {
			combo := append([]string{e}, c...)
			sort.Strings(combo)
			if comboAllowed(combo, subsets, coverage) {
				kept = append(kept, combo)
			}
		}
		if len(kept) < len(combos) {
			fx.BehaviorAdded = true
		}
		for _, i := range gathered {
			consumed[i] = true
		}
		for _, combo := range kept {
			out = append(out, combo)
			for _, id := range combo {
				assigned[id] = true
			}
		}
		if len(kept) == 0 {
			out = append(out, []string{e})
			assigned[e] = true
		}
	}

	for i, s := range subsets {
		if consumed[i] || len(s) < 2 {
			continue
		}
		absorbed := true
		for _, id := range s {
			if !assigned[id] {
				absorbed = false
				break
			}
		}
		if absorbed {
			fx.BehaviorLost = true
		}
	}
	return out.Canonical(), fx
}

// CombineToMatrix rewrites one connection set from the OR-of-AND
// reading to the AND-of-OR reading: subsets combine in canonical order,
// each stripped of elements already claimed by an earlier subset. A
// subset trimmed down to nothing collapses entirely (BehaviorLost); a
// partially trimmed subset loosens the source's pairing (BehaviorAdded).
// Like ExpandToNet this is deterministic, preserves the id-set, and
// leaves pairwise-disjoint connection sets unchanged.
func CombineToMatrix(conns Connections) (Connections, Fidelity) {
	subsets := conns.Canonical()
	var fx Fidelity
	if hasStrictSubset(subsets) {
		fx.BehaviorLost = true
	}
	seen := make(map[string]bool)
	var out Connections
	for _, s := range subsets {
		var slot []string
		for _, id := range s {
			if seen[id] {
				continue
			}
			seen[id] = true
			slot = append(slot, id)
		}
		if len(slot) == 0 {
			fx.BehaviorLost = true
			continue
		}
		if len(slot) < len(s) {
			fx.BehaviorAdded = true
		}
		out = append(out, slot)
	}
	return out.Canonical(), fx
}

// overlapsCoverage reports whether the subset shares at least one id
// with the coverage of the element being expanded.
func overlapsCoverage(subset []string, coverage map[string]bool) bool {
	for _, id := range subset {
		if coverage[id] {
			return true
		}
	}
	return false
}

// hasStrictSubset reports whether any canonical subset is strictly
// contained in another.
func hasStrictSubset(subsets Connections) bool {
	for i, a := range subsets {
		for j, b := range subsets {
			if i == j || len(a) >= len(b) {
				continue
			}
			inside := true
			for _, id := range a {
				if !containsString(b, id) {
					inside = false
					break
				}
			}
			if inside {
				return true
			}
		}
	}
	return false
}

// comboAllowed checks the combination filter: every original subset may
// contribute at most one element, unless it lies entirely inside the
// gathered coverage.
func comboAllowed(combo []string, subsets Connections, coverage map[string]bool) bool {
	for _, s := range subsets {
		contributed := 0
		for _, id := range s {
			if containsString(combo, id) {
				contributed++
			}
		}
		if contributed <= 1 {
			continue
		}
		for _, id := range s {
			if !coverage[id] {
				return false
			}
		}
	}
	return true
}

// cartesian returns every way of choosing one id per operand. With no
// operands it returns the single empty choice.
func cartesian(operands [][]string) [][]string {
	combos := [][]string{nil}
	for _, op := range operands {
		next := make([][]string, 0, len(combos)*len(op))
		for _, c := range combos {
			for _, id := range op {
				pick := make([]string, len(c), len(c)+1)
				copy(pick, c)
				next = append(next, append(pick, id))
			}
		}
		combos = next
	}
	return combos
}
