// Package eventlog parses process event logs and aggregates them into
// directly-follows graphs. CSV and JSONL inputs are supported.
package eventlog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event is one observed activity execution within a case.
type Event struct {
	CaseID    string
	Activity  string
	Timestamp time.Time
	Resource  string
}

// Trace is the ordered event sequence of a single case.
type Trace struct {
	CaseID string
	Events []Event
}

// Variant returns the trace's activity sequence.
func (tr *Trace) Variant() []string {
	variant := make([]string, len(tr.Events))
	for i, e := range tr.Events {
		variant[i] = e.Activity
	}
	return variant
}

// Duration returns the time from the first to the last event.
func (tr *Trace) Duration() time.Duration {
	if len(tr.Events) < 2 {
		return 0
	}
	return tr.Events[len(tr.Events)-1].Timestamp.Sub(tr.Events[0].Timestamp)
}

// StartTime returns the timestamp of the first event.
func (tr *Trace) StartTime() time.Time {
	if len(tr.Events) == 0 {
		return time.Time{}
	}
	return tr.Events[0].Timestamp
}

// EndTime returns the timestamp of the last event.
func (tr *Trace) EndTime() time.Time {
	if len(tr.Events) == 0 {
		return time.Time{}
	}
	return tr.Events[len(tr.Events)-1].Timestamp
}

func (tr *Trace) String() string {
	return fmt.Sprintf("case %s: %s", tr.CaseID, strings.Join(tr.Variant(), " -> "))
}

// Log accumulates events grouped by case.
type Log struct {
	cases map[string]*Trace
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{cases: make(map[string]*Trace)}
}

// AddEvent appends an event to its case, creating the case on first
// sight. Call SortTraces once all events are in.
func (l *Log) AddEvent(e Event) {
	tr, ok := l.cases[e.CaseID]
	if !ok {
		tr = &Trace{CaseID: e.CaseID}
		l.cases[e.CaseID] = tr
	}
	tr.Events = append(tr.Events, e)
}

// SortTraces orders every case's events by timestamp.
func (l *Log) SortTraces() {
	for _, tr := range l.cases {
		sort.SliceStable(tr.Events, func(i, j int) bool {
			return tr.Events[i].Timestamp.Before(tr.Events[j].Timestamp)
		})
	}
}

// Traces returns the cases sorted by case id.
func (l *Log) Traces() []*Trace {
	traces := make([]*Trace, 0, len(l.cases))
	for _, tr := range l.cases {
		traces = append(traces, tr)
	}
	sort.Slice(traces, func(i, j int) bool {
		return traces[i].CaseID < traces[j].CaseID
	})
	return traces
}

// TraceByCase returns the trace of one case.
func (l *Log) TraceByCase(id string) (*Trace, bool) {
	tr, ok := l.cases[id]
	return tr, ok
}

// CaseCount returns the number of cases.
func (l *Log) CaseCount() int { return len(l.cases) }

// EventCount returns the total number of events across all cases.
func (l *Log) EventCount() int {
	total := 0
	for _, tr := range l.cases {
		total += len(tr.Events)
	}
	return total
}

// Activities returns the sorted set of activity labels in the log.
func (l *Log) Activities() []string {
	set := make(map[string]bool)
	for _, tr := range l.cases {
		for _, e := range tr.Events {
			set[e.Activity] = true
		}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Resources returns the sorted set of non-empty resources in the log.
func (l *Log) Resources() []string {
	set := make(map[string]bool)
	for _, tr := range l.cases {
		for _, e := range tr.Events {
			if e.Resource != "" {
				set[e.Resource] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// VariantGroup is the set of cases sharing one activity sequence.
type VariantGroup struct {
	Activities []string
	CaseIDs    []string
}

// VariantGroups folds the log's cases into distinct activity
// sequences, sorted by sequence; case ids within a group are sorted.
func (l *Log) VariantGroups() []VariantGroup {
	byKey := make(map[string]*VariantGroup)
	for _, tr := range l.Traces() {
		variant := tr.Variant()
		key := strings.Join(variant, "\x1f")
		g, ok := byKey[key]
		if !ok {
			g = &VariantGroup{Activities: variant}
			byKey[key] = g
		}
		g.CaseIDs = append(g.CaseIDs, tr.CaseID)
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]VariantGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}

// Summary holds aggregate statistics of a log.
type Summary struct {
	Cases          int
	Events         int
	Activities     int
	Resources      int
	Variants       int
	Start          time.Time
	End            time.Time
	Span           time.Duration
	AvgTraceLength float64
	AvgTraceSpan   time.Duration
}

// Summarize computes aggregate statistics for the log.
func (l *Log) Summarize() Summary {
	s := Summary{
		Cases:      l.CaseCount(),
		Events:     l.EventCount(),
		Activities: len(l.Activities()),
		Resources:  len(l.Resources()),
		Variants:   len(l.VariantGroups()),
	}
	if s.Cases == 0 {
		return s
	}

	var total time.Duration
	first := true
	for _, tr := range l.cases {
		if len(tr.Events) == 0 {
			continue
		}
		total += tr.Duration()
		if first {
			s.Start, s.End = tr.StartTime(), tr.EndTime()
			first = false
			continue
		}
		if tr.StartTime().Before(s.Start) {
			s.Start = tr.StartTime()
		}
		if tr.EndTime().After(s.End) {
			s.End = tr.EndTime()
		}
	}
	s.Span = s.End.Sub(s.Start)
	s.AvgTraceLength = float64(s.Events) / float64(s.Cases)
	s.AvgTraceSpan = total / time.Duration(s.Cases)
	return s
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cases: %d\n", s.Cases)
	fmt.Fprintf(&b, "events: %d\n", s.Events)
	fmt.Fprintf(&b, "activities: %d\n", s.Activities)
	fmt.Fprintf(&b, "resources: %d\n", s.Resources)
	fmt.Fprintf(&b, "variants: %d\n", s.Variants)
	fmt.Fprintf(&b, "range: %s to %s\n",
		s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
	fmt.Fprintf(&b, "avg events per case: %.1f\n", s.AvgTraceLength)
	fmt.Fprintf(&b, "avg case duration: %s\n", s.AvgTraceSpan)
	return b.String()
}
