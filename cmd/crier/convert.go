package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ProcessMiningUSC/CRIER/causal"
	"github.com/ProcessMiningUSC/CRIER/parser"
	"github.com/ProcessMiningUSC/CRIER/translate"
)

func runConvert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	to := fs.String("to", "", "Target formalism: dfg | causal-net | causal-matrix | net (required)")
	output := fs.String("output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: crier convert <model.json> --to <formalism> [options]

Convert a model between formalisms. The source formalism is detected
from the document; conversions that only approximate the source
behavior print a fidelity warning to stderr.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Expand a mined graph into a replayable net
  crier convert skeleton.json --to net --output claims-net.json

  # Tighten a causal net into matrix semantics
  crier convert model.json --to causal-matrix
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("model file required")
	}
	if *to == "" {
		fs.Usage()
		return fmt.Errorf("--to required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}

	kind, err := detectKind(data)
	if err != nil {
		return err
	}

	var out []byte
	var fx causal.Fidelity
	switch kind {
	case "dfg":
		out, fx, err = convertFromDFG(data, *to)
	case "causal-net", "causal-matrix":
		out, fx, err = convertFromCausal(data, *to)
	case "net":
		out, fx, err = convertFromNet(data, *to)
	default:
		return fmt.Errorf("unrecognized model document")
	}
	if err != nil {
		return err
	}

	warnFidelity(fx)
	return writeModel(*output, out)
}

// detectKind sniffs which formalism a model document holds. Nets carry
// places and transitions, causal models a semantics tag, and anything
// else with activities is a directly-follows graph.
func detectKind(data []byte) (string, error) {
	var probe struct {
		Semantics   string            `json:"semantics"`
		Places      []json.RawMessage `json:"places"`
		Transitions []json.RawMessage `json:"transitions"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	switch {
	case len(probe.Places) > 0 || len(probe.Transitions) > 0:
		return "net", nil
	case probe.Semantics != "":
		return probe.Semantics, nil
	default:
		return "dfg", nil
	}
}

func convertFromDFG(data []byte, to string) ([]byte, causal.Fidelity, error) {
	var fx causal.Fidelity
	g, err := parser.DFGFromJSON(data)
	if err != nil {
		return nil, fx, fmt.Errorf("parse model: %w", err)
	}

	switch to {
	case "dfg":
		out, err := parser.DFGToJSON(g)
		return out, fx, err
	case "causal-net":
		m, err := translate.DFGToCausal(g)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.CausalToJSON(m)
		return out, fx, err
	case "causal-matrix":
		m, fx, err := translate.DFGToMatrix(g)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.CausalToJSON(m)
		return out, fx, err
	case "net":
		n, err := translate.DFGToNet(g)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.NetToJSON(n)
		return out, fx, err
	default:
		return nil, fx, fmt.Errorf("unsupported conversion dfg -> %s", to)
	}
}

func convertFromCausal(data []byte, to string) ([]byte, causal.Fidelity, error) {
	var fx causal.Fidelity
	m, err := parser.CausalFromJSON(data)
	if err != nil {
		return nil, fx, fmt.Errorf("parse model: %w", err)
	}

	switch to {
	case "causal-net":
		m, fx, err := causal.ToNet(m)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.CausalToJSON(m)
		return out, fx, err
	case "causal-matrix":
		m, fx, err := causal.ToMatrix(m)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.CausalToJSON(m)
		return out, fx, err
	case "dfg":
		g, err := translate.CausalToDFG(m)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.DFGToJSON(g)
		return out, fx, err
	case "net":
		n, fx, err := translate.CausalToNet(m)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.NetToJSON(n)
		return out, fx, err
	default:
		return nil, fx, fmt.Errorf("unsupported conversion %s -> %s", m.Semantics(), to)
	}
}

func convertFromNet(data []byte, to string) ([]byte, causal.Fidelity, error) {
	var fx causal.Fidelity
	n, err := parser.NetFromJSON(data)
	if err != nil {
		return nil, fx, fmt.Errorf("parse model: %w", err)
	}

	switch to {
	case "net":
		out, err := parser.NetToJSON(n)
		return out, fx, err
	case "causal-net":
		m, err := translate.NetToCausal(n)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.CausalToJSON(m)
		return out, fx, err
	case "causal-matrix":
		m, fx, err := translate.NetToMatrix(n)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.CausalToJSON(m)
		return out, fx, err
	case "dfg":
		m, err := translate.NetToCausal(n)
		if err != nil {
			return nil, fx, err
		}
		g, err := translate.CausalToDFG(m)
		if err != nil {
			return nil, fx, err
		}
		out, err := parser.DFGToJSON(g)
		return out, fx, err
	default:
		return nil, fx, fmt.Errorf("unsupported conversion net -> %s", to)
	}
}

func warnFidelity(fx causal.Fidelity) {
	if fx.BehaviorLost {
		fmt.Fprintln(os.Stderr, "warning: conversion can drop behavior the source allowed")
	}
	if fx.BehaviorAdded {
		fmt.Fprintln(os.Stderr, "warning: conversion can admit behavior the source forbade")
	}
}
