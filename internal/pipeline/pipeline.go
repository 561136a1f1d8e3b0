// Package pipeline runs the full dataset generation:
// seed generation → metadata → synthesis → post-processing → fidelity → report.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swaption-lab/internal/config"
	"swaption-lab/internal/dataset"
	"swaption-lab/internal/domain"
	"swaption-lab/internal/fidelity"
	"swaption-lab/internal/generation"
	"swaption-lab/internal/postprocess"
	"swaption-lab/internal/reporting"
	"swaption-lab/internal/synthesis"
)

// Options for creating a Pipeline.
type Options struct {
	Config      config.Config
	Synthesizer synthesis.Synthesizer
	RNG         *rand.Rand
	Logger      *zap.Logger      // nil means zap.NewNop()
	Clock       func() time.Time // nil means time.Now
}

// Pipeline executes one synchronous run-to-completion generation.
type Pipeline struct {
	cfg   config.Config
	synth synthesis.Synthesizer
	rng   *rand.Rand
	log   *zap.Logger
	clock func() time.Time
}

// Result carries the outcome of a run.
type Result struct {
	RunID      uuid.UUID
	OutputPath string
	Table      *dataset.Table
	Summary    *reporting.Summary
	Fidelity   fidelity.Result
}

// New creates a pipeline from options.
func New(opts Options) *Pipeline {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		cfg:   opts.Config,
		synth: opts.Synthesizer,
		rng:   opts.RNG,
		log:   log,
		clock: clock,
	}
}

// Run executes all phases and writes the output CSV.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.New()
	log := p.log.With(zap.String("run_id", runID.String()))
	gen := p.cfg.Generator

	// Phase 1: rule-based seed generation with forced class balance.
	level2, minority := gen.ClassCounts()
	log.Info("generating seed dataset",
		zap.Int("trades", gen.Trades),
		zap.Int("level2_block", level2),
		zap.Int("minority_block", minority),
		zap.Bool("pnl_flag", gen.PnLFlag))

	records := generation.NewGenerator(p.rng).WithClock(p.clock).
		GenerateDataset(generation.DatasetOptions{
			Trades:         gen.Trades,
			BiasRatio:      gen.BiasRatio,
			ForcedMinority: gen.ForcedMinority,
			IncludePnLFlag: gen.PnLFlag,
		})
	seed, err := generation.BuildTable(records, gen.PnLFlag)
	if err != nil {
		return nil, fmt.Errorf("build seed table: %w", err)
	}

	// Phase 2: metadata detection with the fixed overrides. trade_id and
	// counterparty_id are deliberately categorical, not ids, so the
	// synthesizer models them (repeats in the output are accepted).
	meta := dataset.Detect(seed)
	for _, col := range []string{domain.ColTradeID, domain.ColCounterpartyID} {
		if err := meta.Override(col, dataset.KindCategorical); err != nil {
			return nil, fmt.Errorf("metadata override: %w", err)
		}
	}
	for _, col := range domain.DateColumns {
		if err := meta.Override(col, dataset.KindDatetime); err != nil {
			return nil, fmt.Errorf("metadata override: %w", err)
		}
	}

	// Phase 3: fit and sample the synthesizer.
	log.Info("fitting synthesizer", zap.String("synthesizer", p.cfg.Synthesis.Name))
	model, err := p.synth.Fit(ctx, seed, meta)
	if err != nil {
		return nil, fmt.Errorf("synthesizer fit: %w", err)
	}
	if sr, ok := model.(synthesis.ShrinkageReporter); ok && sr.AppliedShrinkage() > 0 {
		log.Warn("correlation shrinkage applied", zap.Float64("lambda", sr.AppliedShrinkage()))
	}

	table, err := model.Sample(ctx, gen.Trades)
	if err != nil {
		return nil, fmt.Errorf("synthesizer sample: %w", err)
	}

	// Phase 4: post-processing, plus rebalancing in the balanced variant.
	proc := postprocess.NewProcessor(p.rng)
	if err := proc.Finalize(table); err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}
	if p.cfg.Synthesis.Rebalance {
		log.Info("rebalancing classes", zap.Float64("bias", gen.BiasRatio))
		table, err = proc.Rebalance(table, gen.BiasRatio)
		if err != nil {
			return nil, fmt.Errorf("post-process: %w", err)
		}
	}

	// Phase 5: fidelity check. Violations are reported, never repaired.
	fid, err := fidelity.Check(table)
	if err != nil {
		return nil, fmt.Errorf("fidelity check: %w", err)
	}
	if !fid.Clean() {
		log.Warn("synthesized rows violate the IFRS 13 rule",
			zap.Int("violations", fid.Violations),
			zap.Int("total", fid.Total),
			zap.Ints("sample_rows", fid.SampleRows))
	}

	// Phase 6: write the CSV and build the console summary.
	path, err := reporting.WriteCSV(p.cfg.Output.Dir, table)
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	summary, err := reporting.BuildSummary(table, path, fid)
	if err != nil {
		return nil, fmt.Errorf("build summary: %w", err)
	}
	log.Info("run complete", zap.String("output", path), zap.Int("rows", table.Len()))

	return &Result{
		RunID:      runID,
		OutputPath: path,
		Table:      table,
		Summary:    summary,
		Fidelity:   fid,
	}, nil
}
