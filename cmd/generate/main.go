// Package main generates the synthetic swaption dataset.
// Executes: seed generation → synthesis → post-processing → report.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"swaption-lab/internal/config"
	"swaption-lab/internal/logging"
	"swaption-lab/internal/pipeline"
	"swaption-lab/internal/reporting"
	"swaption-lab/internal/synthesis"
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	trades := flag.Int("trades", config.DefaultTrades, "Total number of records to generate")
	bias := flag.Float64("bias", config.DefaultBiasRatio, "Share of forced Level-2 records in the seed")
	seed := flag.Int64("seed", config.DefaultSeed, "Random seed")
	pnlFlag := flag.Bool("pnl-flag", false, "Include the Day-2 PnL flag column")
	rebalance := flag.Bool("rebalance", false, "Rebalance the output to the seed class ratio")
	forcedMinority := flag.Bool("forced-minority", true, "Force the minority block to Level 3 instead of drawing freely")
	synthName := flag.String("synthesizer", synthesis.NameGaussianCopula, "Synthesizer: copula or resample")
	outputDir := flag.String("output-dir", ".", "Output directory for the CSV")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Explicitly-set flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trades":
			cfg.Generator.Trades = *trades
		case "bias":
			cfg.Generator.BiasRatio = *bias
		case "seed":
			cfg.Generator.Seed = *seed
		case "pnl-flag":
			cfg.Generator.PnLFlag = *pnlFlag
		case "forced-minority":
			cfg.Generator.ForcedMinority = *forcedMinority
		case "rebalance":
			cfg.Synthesis.Rebalance = *rebalance
		case "synthesizer":
			cfg.Synthesis.Name = *synthName
		case "output-dir":
			cfg.Output.Dir = *outputDir
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn("received signal, cancelling run", zap.String("signal", sig.String()))
		cancel()
	}()

	// One deterministic source for generation, synthesis, and rebalancing.
	rng := rand.New(rand.NewSource(cfg.Generator.Seed))

	synth, err := synthesis.FromName(cfg.Synthesis.Name, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	result, err := pipeline.New(pipeline.Options{
		Config:      cfg,
		Synthesizer: synth,
		RNG:         rng,
		Logger:      logger,
	}).Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(reporting.RenderSummary(result.Summary))
}
