package eventlog

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func at(min int) time.Time {
	return time.Date(2024, 3, 1, 9, min, 0, 0, time.UTC)
}

func event(caseID, activity string, min int) Event {
	return Event{CaseID: caseID, Activity: activity, Timestamp: at(min)}
}

func logFromVariants(t *testing.T, variants ...[]string) *Log {
	t.Helper()
	l := NewLog()
	for i, variant := range variants {
		caseID := fmt.Sprintf("c%d", i+1)
		for j, activity := range variant {
			l.AddEvent(event(caseID, activity, j))
		}
	}
	l.SortTraces()
	return l
}

func TestAddEventGroupsByCase(t *testing.T) {
	l := NewLog()
	l.AddEvent(event("c1", "a", 1))
	l.AddEvent(event("c2", "x", 0))
	l.AddEvent(event("c1", "b", 2))

	if l.CaseCount() != 2 {
		t.Errorf("Expected 2 cases, got %d", l.CaseCount())
	}
	if l.EventCount() != 3 {
		t.Errorf("Expected 3 events, got %d", l.EventCount())
	}
	tr, ok := l.TraceByCase("c1")
	if !ok {
		t.Fatal("Case c1 not found")
	}
	if len(tr.Events) != 2 {
		t.Errorf("Expected 2 events for c1, got %d", len(tr.Events))
	}
}

func TestSortTracesOrdersByTimestamp(t *testing.T) {
	l := NewLog()
	l.AddEvent(event("c1", "b", 5))
	l.AddEvent(event("c1", "a", 1))
	l.AddEvent(event("c1", "c", 9))
	l.SortTraces()

	tr, _ := l.TraceByCase("c1")
	if got := strings.Join(tr.Variant(), ","); got != "a,b,c" {
		t.Errorf("Expected variant a,b,c, got %s", got)
	}
}

func TestTracesSortedByCaseID(t *testing.T) {
	l := NewLog()
	l.AddEvent(event("c2", "a", 0))
	l.AddEvent(event("c10", "a", 0))
	l.AddEvent(event("c1", "a", 0))

	var ids []string
	for _, tr := range l.Traces() {
		ids = append(ids, tr.CaseID)
	}
	if got := strings.Join(ids, ","); got != "c1,c10,c2" {
		t.Errorf("Expected cases c1,c10,c2, got %s", got)
	}
}

func TestActivitiesAndResourcesSorted(t *testing.T) {
	l := NewLog()
	l.AddEvent(Event{CaseID: "c1", Activity: "review", Timestamp: at(0), Resource: "bob"})
	l.AddEvent(Event{CaseID: "c1", Activity: "close", Timestamp: at(1)})
	l.AddEvent(Event{CaseID: "c2", Activity: "review", Timestamp: at(0), Resource: "alice"})

	if got := strings.Join(l.Activities(), ","); got != "close,review" {
		t.Errorf("Expected activities close,review, got %s", got)
	}
	if got := strings.Join(l.Resources(), ","); got != "alice,bob" {
		t.Errorf("Expected resources alice,bob, got %s", got)
	}
}

func TestVariantGroups(t *testing.T) {
	l := logFromVariants(t,
		[]string{"a", "b"},
		[]string{"a", "c"},
		[]string{"a", "b"},
	)

	groups := l.VariantGroups()
	if len(groups) != 2 {
		t.Fatalf("Expected 2 variant groups, got %d", len(groups))
	}
	if got := strings.Join(groups[0].Activities, ","); got != "a,b" {
		t.Errorf("Expected first group a,b, got %s", got)
	}
	if got := strings.Join(groups[0].CaseIDs, ","); got != "c1,c3" {
		t.Errorf("Expected cases c1,c3 in first group, got %s", got)
	}
	if got := strings.Join(groups[1].CaseIDs, ","); got != "c2" {
		t.Errorf("Expected cases c2 in second group, got %s", got)
	}
}

func TestSummarize(t *testing.T) {
	l := NewLog()
	l.AddEvent(event("c1", "a", 0))
	l.AddEvent(event("c1", "b", 10))
	l.AddEvent(event("c2", "a", 5))
	l.AddEvent(event("c2", "b", 10))
	l.SortTraces()

	s := l.Summarize()
	if s.Cases != 2 || s.Events != 4 || s.Activities != 2 || s.Variants != 1 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if !s.Start.Equal(at(0)) || !s.End.Equal(at(10)) {
		t.Errorf("Expected range %v to %v, got %v to %v", at(0), at(10), s.Start, s.End)
	}
	if s.Span != 10*time.Minute {
		t.Errorf("Expected span 10m, got %v", s.Span)
	}
	if s.AvgTraceLength != 2 {
		t.Errorf("Expected avg trace length 2, got %v", s.AvgTraceLength)
	}
	if want := 7*time.Minute + 30*time.Second; s.AvgTraceSpan != want {
		t.Errorf("Expected avg trace span %v, got %v", want, s.AvgTraceSpan)
	}
}

func TestSummarizeEmptyLog(t *testing.T) {
	s := NewLog().Summarize()
	if s.Cases != 0 || s.Events != 0 {
		t.Errorf("Expected zero summary, got %+v", s)
	}
}

func TestTraceString(t *testing.T) {
	l := logFromVariants(t, []string{"a", "b"})
	tr, _ := l.TraceByCase("c1")
	if got := tr.String(); got != "case c1: a -> b" {
		t.Errorf("Unexpected trace string: %s", got)
	}
}
