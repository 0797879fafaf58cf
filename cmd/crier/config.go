package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ProcessMiningUSC/CRIER/optimize"
)

// config carries the optional crier.yaml settings shared by the
// subcommands. Zero values fall back to built-in defaults, and flags
// override whatever the file says.
type config struct {
	Replay struct {
		Timeout     string `yaml:"timeout"`
		MaxStates   int    `yaml:"max_states"`
		Parallelism int    `yaml:"parallelism"`
	} `yaml:"replay"`
	Optimize struct {
		Objective string `yaml:"objective"`
	} `yaml:"optimize"`
	Log struct {
		MinFrequency float64 `yaml:"min_frequency"`
	} `yaml:"log"`
}

// loadConfig reads a crier.yaml file. An empty path yields the zero
// config.
func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c config) replayTimeout() (time.Duration, error) {
	if c.Replay.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Replay.Timeout)
	if err != nil {
		return 0, fmt.Errorf("replay timeout: %w", err)
	}
	return d, nil
}

func parseObjective(s string) (optimize.Objective, error) {
	switch s {
	case "", "maximum", "max":
		return optimize.Maximum, nil
	case "minimum", "min":
		return optimize.Minimum, nil
	default:
		return optimize.Maximum, fmt.Errorf("unknown objective %q (want maximum or minimum)", s)
	}
}
