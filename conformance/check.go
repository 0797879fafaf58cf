// Package conformance replays event logs against place/transition
// nets. Each distinct trace variant is replayed once and the verdict
// is attributed to every case sharing it. Fitness is the perfect-fit
// ratio; there is no partial credit.
package conformance

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ProcessMiningUSC/CRIER/eventlog"
	"github.com/ProcessMiningUSC/CRIER/petri"
	"github.com/ProcessMiningUSC/CRIER/replay"
)

// Options bounds the per-variant replays.
type Options struct {
	Timeout     time.Duration // per-variant replay deadline, zero = none
	MaxStates   int           // per-variant search state cap, zero = none
	Parallelism int           // concurrent replays, zero = unbounded
}

// Outcome classifies one variant's replay verdict.
type Outcome int

const (
	Fit Outcome = iota
	NonFit
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Fit:
		return "fit"
	case NonFit:
		return "non-fit"
	case TimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// TraceResult is the verdict for one variant and the cases sharing it.
// Err carries the replay limit that fired when the outcome is
// TimedOut.
type TraceResult struct {
	Activities []string
	CaseIDs    []string
	Outcome    Outcome
	Err        error
}

// Result aggregates a log-level check. Counts are cases, not
// variants.
type Result struct {
	Total        int
	Fitting      int
	NonFitting   int
	TimedOut     int
	FitRatio     float64
	TraceResults []TraceResult
}

// Check replays every trace variant of the log against the net. A
// variant that hits the timeout or state cap lands in the TimedOut
// bucket, kept apart from non-fitting ones. Cancelling the context
// aborts the whole check.
func Check(ctx context.Context, net *petri.Net, log *eventlog.Log, opts Options) (*Result, error) {
	if log == nil || log.EventCount() == 0 {
		return nil, eventlog.ErrEmptyLog
	}

	engine := replay.NewEngine(net).WithMaxStates(opts.MaxStates)
	groups := log.VariantGroups()
	results := make([]TraceResult, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			callCtx := ctx
			if opts.Timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
				defer cancel()
			}

			tr := TraceResult{Activities: group.Activities, CaseIDs: group.CaseIDs}
			ok, err := engine.FitsContext(callCtx, group.Activities)
			switch {
			case err == nil && ok:
				tr.Outcome = Fit
			case err == nil:
				tr.Outcome = NonFit
			case errors.Is(err, replay.ErrTimeout) || errors.Is(err, replay.ErrStateLimit):
				tr.Outcome = TimedOut
				tr.Err = err
			default:
				return err
			}
			results[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{TraceResults: results}
	for _, tr := range results {
		n := len(tr.CaseIDs)
		res.Total += n
		switch tr.Outcome {
		case Fit:
			res.Fitting += n
		case NonFit:
			res.NonFitting += n
		case TimedOut:
			res.TimedOut += n
		}
	}
	if res.Total > 0 {
		res.FitRatio = float64(res.Fitting) / float64(res.Total)
	}
	return res, nil
}
