package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"
)

var window = flag.Int("w", 6, "send window size; the sequence space is one larger")
var rtt = flag.Float64("rtt", 16.0, "retransmission timeout in ticks")
var messages = flag.Int("n", 1000, "number of messages to submit")
var interval = flag.Float64("i", 50.0, "mean ticks between message arrivals")
var loss = flag.Float64("loss", 0.1, "per-packet loss probability")
var corrupt = flag.Float64("corrupt", 0.1, "per-packet corruption probability")
var dup = flag.Float64("dup", 0.0, "per-packet duplication probability")
var delay = flag.Float64("delay", 5.0, "mean one-way delay in ticks")
var jitter = flag.Float64("jitter", 0.0, "one-way delay spread in ticks; nonzero values reorder packets")
var maxTicks = flag.Float64("dur", 0.0, "stop after this many ticks, 0 to run until drained")
var runs = flag.Int("runs", 1, "number of independently seeded runs")
var seed = flag.Int64("seed", 1, "seed of the first run; run k uses seed+k")
var verbosity = flag.Int("v", 0, "trace verbosity, 0 to 2; output only, never affects behavior")
var readConfig = flag.String("c", "", "read parameters from JSON `file`; flags passed on the command line override it")

// Config collects one simulation's parameters.
type Config struct {
	Window       int
	RTT          float64
	Messages     int
	MeanInterval float64
	Loss         float64
	Corrupt      float64
	Dup          float64
	Delay        float64
	Jitter       float64
	MaxTicks     float64
	Runs         int
	Seed         int64
	Verbosity    int
}

func configFromFlags() Config {
	return Config{
		Window:       *window,
		RTT:          *rtt,
		Messages:     *messages,
		MeanInterval: *interval,
		Loss:         *loss,
		Corrupt:      *corrupt,
		Dup:          *dup,
		Delay:        *delay,
		Jitter:       *jitter,
		MaxTicks:     *maxTicks,
		Runs:         *runs,
		Seed:         *seed,
		Verbosity:    *verbosity,
	}
}

func updateConfig(cfg *Config, f *flag.Flag) {
	switch f.Name {
	case "w":
		cfg.Window = *window
	case "rtt":
		cfg.RTT = *rtt
	case "n":
		cfg.Messages = *messages
	case "i":
		cfg.MeanInterval = *interval
	case "loss":
		cfg.Loss = *loss
	case "corrupt":
		cfg.Corrupt = *corrupt
	case "dup":
		cfg.Dup = *dup
	case "delay":
		cfg.Delay = *delay
	case "jitter":
		cfg.Jitter = *jitter
	case "dur":
		cfg.MaxTicks = *maxTicks
	case "runs":
		cfg.Runs = *runs
	case "seed":
		cfg.Seed = *seed
	case "v":
		cfg.Verbosity = *verbosity
	}
}

// loadConfig resolves the effective configuration: flag defaults, overlaid
// by the JSON config file if one was given, overlaid by flags set on the
// command line.
func loadConfig() (Config, error) {
	cfg := configFromFlags()
	if *readConfig == "" {
		return cfg, nil
	}
	f, err := os.Open(*readConfig)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	flag.Visit(func(fl *flag.Flag) {
		updateConfig(&cfg, fl)
	})
	return cfg, nil
}
