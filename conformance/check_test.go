package conformance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ProcessMiningUSC/CRIER/eventlog"
	"github.com/ProcessMiningUSC/CRIER/petri"
	"github.com/ProcessMiningUSC/CRIER/replay"
)

// orderNet models a -> b.
func orderNet(t *testing.T) *petri.Net {
	t.Helper()
	n, err := petri.Build("order").
		InitialPlace("source", "source").
		Place("p1", "p1").
		FinalPlace("sink", "sink").
		Transition("t_a", "a").
		Transition("t_b", "b").
		Arc("source", "t_a").
		Arc("t_a", "p1").
		Arc("p1", "t_b").
		Arc("t_b", "sink").
		Done()
	if err != nil {
		t.Fatalf("Done() returned error: %v", err)
	}
	return n
}

func logOf(t *testing.T, variants ...[]string) *eventlog.Log {
	t.Helper()
	l := eventlog.NewLog()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, variant := range variants {
		for j, activity := range variant {
			l.AddEvent(eventlog.Event{
				CaseID:    fmt.Sprintf("c%d", i+1),
				Activity:  activity,
				Timestamp: base.Add(time.Duration(j) * time.Minute),
			})
		}
	}
	l.SortTraces()
	return l
}

func TestCheckCountsCasesPerOutcome(t *testing.T) {
	log := logOf(t,
		[]string{"a", "b"},
		[]string{"a", "b"},
		[]string{"b", "a"},
		[]string{"a"},
	)

	res, err := Check(context.Background(), orderNet(t), log, Options{})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if res.Total != 4 {
		t.Errorf("Expected 4 cases, got %d", res.Total)
	}
	if res.Fitting != 2 {
		t.Errorf("Expected 2 fitting cases, got %d", res.Fitting)
	}
	if res.NonFitting != 2 {
		t.Errorf("Expected 2 non-fitting cases, got %d", res.NonFitting)
	}
	if res.TimedOut != 0 {
		t.Errorf("Expected 0 timed-out cases, got %d", res.TimedOut)
	}
	if res.FitRatio != 0.5 {
		t.Errorf("Expected fit ratio 0.5, got %v", res.FitRatio)
	}
	if len(res.TraceResults) != 3 {
		t.Errorf("Expected 3 variants, got %d", len(res.TraceResults))
	}
}

func TestCheckKeepsVariantOrderDeterministic(t *testing.T) {
	log := logOf(t,
		[]string{"b", "a"},
		[]string{"a", "b"},
		[]string{"a"},
	)

	res, err := Check(context.Background(), orderNet(t), log, Options{Parallelism: 2})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	var variants []string
	for _, tr := range res.TraceResults {
		variants = append(variants, strings.Join(tr.Activities, ","))
	}
	if got := strings.Join(variants, ";"); got != "a;a,b;b,a" {
		t.Errorf("Expected variants a;a,b;b,a, got %s", got)
	}
}

func TestCheckAttributesVerdictToAllSharingCases(t *testing.T) {
	log := logOf(t,
		[]string{"a", "b"},
		[]string{"a", "b"},
		[]string{"a", "b"},
	)

	res, err := Check(context.Background(), orderNet(t), log, Options{})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(res.TraceResults) != 1 {
		t.Fatalf("Expected 1 variant, got %d", len(res.TraceResults))
	}
	tr := res.TraceResults[0]
	if tr.Outcome != Fit {
		t.Errorf("Expected fit, got %s", tr.Outcome)
	}
	if got := strings.Join(tr.CaseIDs, ","); got != "c1,c2,c3" {
		t.Errorf("Expected cases c1,c2,c3, got %s", got)
	}
}

func TestCheckTreatsUnknownActivityAsNonFit(t *testing.T) {
	log := logOf(t, []string{"a", "ghost"})

	res, err := Check(context.Background(), orderNet(t), log, Options{})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.NonFitting != 1 {
		t.Errorf("Expected 1 non-fitting case, got %d", res.NonFitting)
	}
}

func TestCheckTimeoutBucket(t *testing.T) {
	log := logOf(t, []string{"a", "b"})

	res, err := Check(context.Background(), orderNet(t), log, Options{Timeout: time.Nanosecond})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.TimedOut != 1 {
		t.Fatalf("Expected 1 timed-out case, got %d", res.TimedOut)
	}
	tr := res.TraceResults[0]
	if tr.Outcome != TimedOut {
		t.Errorf("Expected timed-out outcome, got %s", tr.Outcome)
	}
	if !errors.Is(tr.Err, replay.ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", tr.Err)
	}
	if res.FitRatio != 0 {
		t.Errorf("Expected fit ratio 0, got %v", res.FitRatio)
	}
}

func TestCheckStateLimitBucket(t *testing.T) {
	log := logOf(t, []string{"a", "b"})

	res, err := Check(context.Background(), orderNet(t), log, Options{MaxStates: 1})
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.TimedOut != 1 {
		t.Fatalf("Expected 1 case in the timed-out bucket, got %d", res.TimedOut)
	}
	if !errors.Is(res.TraceResults[0].Err, replay.ErrStateLimit) {
		t.Errorf("Expected ErrStateLimit, got %v", res.TraceResults[0].Err)
	}
}

func TestCheckCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Check(ctx, orderNet(t), logOf(t, []string{"a", "b"}), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestCheckEmptyLog(t *testing.T) {
	_, err := Check(context.Background(), orderNet(t), eventlog.NewLog(), Options{})
	if !errors.Is(err, eventlog.ErrEmptyLog) {
		t.Fatalf("Expected ErrEmptyLog, got %v", err)
	}
}

func TestOutcomeString(t *testing.T) {
	if Fit.String() != "fit" || NonFit.String() != "non-fit" || TimedOut.String() != "timed-out" {
		t.Error("Unexpected outcome strings")
	}
	if Outcome(99).String() != "unknown" {
		t.Error("Expected unknown for out-of-range outcome")
	}
}
