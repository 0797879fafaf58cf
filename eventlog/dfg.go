package eventlog

import (
	"fmt"
	"sort"

	"github.com/ProcessMiningUSC/CRIER/dfg"
)

// DFGOptions configures log aggregation. The synthetic ids must not
// collide with observed activity labels.
type DFGOptions struct {
	GraphID      string
	SourceID     string  // synthetic source activity, default "source"
	SinkID       string  // synthetic sink activity, default "sink"
	MinFrequency float64 // directly-follows pairs observed fewer times are dropped
}

// BuildDFG aggregates directly-follows counts into a graph. Arc
// weights are observation counts. When the observed start (end)
// activities do not already form a unique source (sink), a synthetic
// one is added and fanned to them, weighted by how many cases start
// (end) there. The frequency cut applies to observed pairs only; a cut
// that breaks soundness surfaces the validation error.
func BuildDFG(log *Log, opts DFGOptions) (*dfg.Graph, error) {
	if log == nil || log.EventCount() == 0 {
		return nil, ErrEmptyLog
	}
	if opts.SourceID == "" {
		opts.SourceID = "source"
	}
	if opts.SinkID == "" {
		opts.SinkID = "sink"
	}

	starts := make(map[string]float64)
	ends := make(map[string]float64)
	follows := make(map[string]map[string]float64)
	for _, tr := range log.Traces() {
		variant := tr.Variant()
		if len(variant) == 0 {
			continue
		}
		starts[variant[0]]++
		ends[variant[len(variant)-1]]++
		for i := 0; i+1 < len(variant); i++ {
			m := follows[variant[i]]
			if m == nil {
				m = make(map[string]float64)
				follows[variant[i]] = m
			}
			m[variant[i+1]]++
		}
	}

	type pair struct {
		source, target string
		weight         float64
	}
	var arcs []pair
	incoming := make(map[string]bool)
	outgoing := make(map[string]bool)
	for _, source := range sortedCountKeys(follows) {
		targets := follows[source]
		ids := make([]string, 0, len(targets))
		for t := range targets {
			ids = append(ids, t)
		}
		sort.Strings(ids)
		for _, target := range ids {
			if opts.MinFrequency > 0 && targets[target] < opts.MinFrequency {
				continue
			}
			arcs = append(arcs, pair{source, target, targets[target]})
			incoming[target] = true
			outgoing[source] = true
		}
	}

	needSource := len(starts) != 1 || incoming[soleKey(starts)]
	needSink := len(ends) != 1 || outgoing[soleKey(ends)]

	b := dfg.Build(opts.GraphID)
	for _, a := range log.Activities() {
		b.Activity(a, a)
	}
	if needSource {
		b.Activity(opts.SourceID, opts.SourceID)
		for _, a := range sortedWeightKeys(starts) {
			b.Arc(opts.SourceID, a, starts[a])
		}
	}
	if needSink {
		b.Activity(opts.SinkID, opts.SinkID)
		for _, a := range sortedWeightKeys(ends) {
			b.Arc(a, opts.SinkID, ends[a])
		}
	}
	for _, p := range arcs {
		b.Arc(p.source, p.target, p.weight)
	}

	g, err := b.Done()
	if err != nil {
		return nil, err
	}
	if err := dfg.Validate(g); err != nil {
		return nil, fmt.Errorf("aggregated graph: %w", err)
	}
	return g, nil
}

func sortedCountKeys(m map[string]map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedWeightKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func soleKey(m map[string]float64) string {
	for k := range m {
		return k
	}
	return ""
}
