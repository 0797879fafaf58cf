package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "convert":
		if err := runConvert(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "optimize":
		if err := runOptimize(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "reduce":
		if err := runReduce(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "replay":
		if err := runReplay(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "log":
		if err := runLog(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "render":
		if err := runRender(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("crier version 0.1.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`crier - process model discovery and conformance toolkit

Usage:
  crier <command> [options]

Commands:
  log        Summarize an event log, optionally aggregating a DFG
  optimize   Filter a directly-follows graph down to its skeleton
  convert    Convert a model between formalisms
  reduce     Structurally reduce a place/transition net
  replay     Replay traces against a net and report fitness
  render     Generate an SVG diagram of a model
  help       Show this help message
  version    Show version information

Examples:
  # Aggregate an event log into a directly-follows graph
  crier log claims.csv --dfg claims-dfg.json

  # Keep only the strongest behavior
  crier optimize claims-dfg.json --method tweg --output skeleton.json

  # Turn the skeleton into a replayable net
  crier convert skeleton.json --to net --output claims-net.json

  # Check the log against the net
  crier replay claims-net.json --log claims.csv

For command-specific help, run:
  crier <command> --help`)
}

// writeModel prints a serialized model to stdout, or saves it to path
// when one is given.
func writeModel(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("✓ Saved %s\n", path)
	return nil
}
