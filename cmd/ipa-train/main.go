// ipa-train trains the IPA regression network on synthetic spectra, reports its RMSEP and R² on a
// held-out set, and writes the charts of the run.
//
// Usage:
//
//	ipa-train [-config run.yaml] [-epochs N] [-seed N] [-out DIR] ...
package main

import (
	"github.com/florent-haffner/ipa-under-the-light/config"

	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults are used if empty)")
	seed := flag.Int64("seed", 0, "Seed of the data, the weights and the shuffling")
	epochs := flag.Int("epochs", 0, "Number of training epochs")
	batchSize := flag.Int("batch-size", 0, "Batch size")
	l2 := flag.Float64("l2", 0, "Coefficient of the weight penalty (0 turns it off)")
	lr := flag.Float64("lr", 0, "Initial learning rate")
	optimizer := flag.String("optimizer", "", "Optimizer (sgd or adam)")
	threads := flag.Int("threads", 0, "Number of workers (0 = every core)")
	outDir := flag.String("out", "", "Directory to write charts to")

	flag.Parse()

	// -l2 0 is meaningful, so only pass it on when it was given
	var l2Override *float64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "l2" {
			l2Override = l2
		}
	})

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	cfg.ApplyOverrides(config.Overrides{
		Seed:         *seed,
		Epochs:       *epochs,
		BatchSize:    *batchSize,
		L2:           l2Override,
		LearningRate: *lr,
		Optimizer:    *optimizer,
		Threads:      *threads,
		OutDir:       *outDir,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
