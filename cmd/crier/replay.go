package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ProcessMiningUSC/CRIER/conformance"
	"github.com/ProcessMiningUSC/CRIER/parser"
	"github.com/ProcessMiningUSC/CRIER/petri"
	"github.com/ProcessMiningUSC/CRIER/replay"
)

func runReplay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	trace := fs.String("trace", "", "Single trace as a comma-separated activity list")
	logFile := fs.String("log", "", "Event log file (.csv or .jsonl) to replay case by case")
	timeout := fs.Duration("timeout", 0, "Per-trace search deadline (0 = none)")
	maxStates := fs.Int("max-states", 0, "Per-trace search state cap (0 = none)")
	parallelism := fs.Int("parallelism", 0, "Concurrent replays in log mode (0 = unbounded)")
	verbose := fs.Bool("verbose", false, "Print a verdict line per trace variant")
	configPath := fs.String("config", "", "Optional crier.yaml")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: crier replay <net.json> (--trace a,b,c | --log events.csv) [options]

Replay observed traces against a net. A trace fits when its activities
can be fired in order, silent transitions interleaved freely, and the
net ends on its final marking. Searches cut off by the deadline or
state cap are reported as timed-out, never as non-fitting.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # One trace
  crier replay claims-net.json --trace "register,review,archive"

  # Whole log with a per-trace deadline
  crier replay claims-net.json --log claims.csv --timeout 2s

  # Show each variant's verdict
  crier replay claims-net.json --log claims.jsonl --verbose
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("net file required")
	}
	if (*trace == "") == (*logFile == "") {
		fs.Usage()
		return fmt.Errorf("exactly one of --trace or --log required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *timeout == 0 {
		if *timeout, err = cfg.replayTimeout(); err != nil {
			return err
		}
	}
	if *maxStates == 0 {
		*maxStates = cfg.Replay.MaxStates
	}
	if *parallelism == 0 {
		*parallelism = cfg.Replay.Parallelism
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read net: %w", err)
	}
	n, err := parser.NetFromJSON(data)
	if err != nil {
		return fmt.Errorf("parse net: %w", err)
	}

	if *trace != "" {
		return replayTrace(n, *trace, *timeout, *maxStates)
	}
	return replayLog(n, *logFile, conformance.Options{
		Timeout:     *timeout,
		MaxStates:   *maxStates,
		Parallelism: *parallelism,
	}, *verbose)
}

func replayTrace(n *petri.Net, raw string, timeout time.Duration, maxStates int) error {
	activities := splitTrace(raw)

	engine := replay.NewEngine(n)
	if timeout > 0 {
		engine = engine.WithTimeout(timeout)
	}
	if maxStates > 0 {
		engine = engine.WithMaxStates(maxStates)
	}

	ok, err := engine.Fits(activities)
	switch {
	case err == nil && ok:
		fmt.Println("fit")
	case err == nil:
		fmt.Println("non-fit")
	case errors.Is(err, replay.ErrTimeout), errors.Is(err, replay.ErrStateLimit):
		fmt.Printf("timed-out (%v)\n", err)
	default:
		return err
	}
	return nil
}

func replayLog(n *petri.Net, path string, opts conformance.Options, verbose bool) error {
	l, err := parseLogFile(path)
	if err != nil {
		return err
	}

	res, err := conformance.Check(context.Background(), n, l, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Cases: %d\n", res.Total)
	fmt.Printf("  fit:       %d (%.1f%%)\n", res.Fitting, res.FitRatio*100)
	fmt.Printf("  non-fit:   %d\n", res.NonFitting)
	fmt.Printf("  timed-out: %d\n", res.TimedOut)

	if verbose {
		fmt.Println("\nVariants:")
		for _, tr := range res.TraceResults {
			fmt.Printf("  [%s] %s (%d cases)\n", tr.Outcome, strings.Join(tr.Activities, ","), len(tr.CaseIDs))
		}
	}
	return nil
}

func splitTrace(raw string) []string {
	parts := strings.Split(raw, ",")
	activities := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			activities = append(activities, p)
		}
	}
	return activities
}
