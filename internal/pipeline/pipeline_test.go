package pipeline

import (
	"context"
	"math"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"swaption-lab/internal/config"
	"swaption-lab/internal/domain"
	"swaption-lab/internal/synthesis"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Generator.Trades = 100
	cfg.Generator.Seed = 42
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func runPipeline(t *testing.T, cfg config.Config) *Result {
	t.Helper()
	rng := rand.New(rand.NewSource(cfg.Generator.Seed))
	synth, err := synthesis.FromName(cfg.Synthesis.Name, rng)
	require.NoError(t, err)

	p := New(Options{
		Config:      cfg,
		Synthesizer: synth,
		RNG:         rng,
		Logger:      zap.NewNop(),
		Clock:       func() time.Time { return time.Date(2025, 6, 15, 11, 45, 30, 0, time.UTC) },
	})
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	return result
}

func TestRunBalancedVariant(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.PnLFlag = true
	cfg.Synthesis.Name = synthesis.NameResample
	cfg.Synthesis.Rebalance = true

	result := runPipeline(t, cfg)
	tbl := result.Table
	require.Equal(t, 100, tbl.Len())

	// Exact 80/20 class split after rebalancing.
	levels, err := tbl.Strings(domain.ColIFRS13Level)
	require.NoError(t, err)
	counts := map[string]int{}
	for _, lvl := range levels {
		counts[lvl]++
	}
	require.Equal(t, 80, counts[domain.LevelTwo])
	require.Equal(t, 20, counts[domain.LevelThree])

	// class_weight tracks the level of every row.
	weights, err := tbl.Floats(domain.ColClassWeight)
	require.NoError(t, err)
	for i, w := range weights {
		if levels[i] == domain.LevelTwo {
			require.Equal(t, domain.ClassWeightLevelTwo, w, "row %d", i)
		} else {
			require.Equal(t, domain.ClassWeightLevelThree, w, "row %d", i)
		}
	}

	// Bootstrap rows are seed rows, so the rule holds everywhere.
	require.True(t, result.Fidelity.Clean())

	// Output file written under the configured directory.
	require.Equal(t, result.OutputPath, result.Summary.Path)
	_, err = os.Stat(result.OutputPath)
	require.NoError(t, err)
}

func TestRunPostProcessing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Synthesis.Name = synthesis.NameResample

	result := runPipeline(t, cfg)
	tbl := result.Table

	notionals, err := tbl.Floats(domain.ColNotional)
	require.NoError(t, err)
	for i, v := range notionals {
		require.Zero(t, math.Mod(v, domain.NotionalStep), "row %d: notional %v", i, v)
		require.GreaterOrEqual(t, v, float64(domain.NotionalMin), "row %d", i)
		require.LessOrEqual(t, v, float64(domain.NotionalMax), "row %d", i)
	}

	for _, col := range domain.DateColumns {
		dates, err := tbl.Times(col)
		require.NoError(t, err)
		for i, d := range dates {
			h, m, s := d.Clock()
			require.True(t, h == 0 && m == 0 && s == 0 && d.Nanosecond() == 0,
				"%s row %d keeps time of day: %v", col, i, d)
		}
	}

	// Unbalanced variant carries no weight column.
	_, err = tbl.Floats(domain.ColClassWeight)
	require.Error(t, err)
}

func TestRunCopulaVariant(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.Trades = 200

	result := runPipeline(t, cfg)
	tbl := result.Table
	require.Equal(t, 200, tbl.Len())

	// Copula output keeps categorical columns inside the seed categories.
	currencies, err := tbl.Strings(domain.ColCurrency)
	require.NoError(t, err)
	valid := map[string]bool{
		domain.CurrencyUSD: true, domain.CurrencyEUR: true,
		domain.CurrencyGBP: true, domain.CurrencyJPY: true,
	}
	for i, c := range currencies {
		require.True(t, valid[c], "row %d: currency %q", i, c)
	}

	strikes, err := tbl.Floats(domain.ColStrike)
	require.NoError(t, err)
	for i, s := range strikes {
		require.GreaterOrEqual(t, s, domain.StrikeMin, "row %d", i)
		require.LessOrEqual(t, s, domain.StrikeMax, "row %d", i)
	}

	// Fidelity is measured, not enforced; the count must be populated.
	require.Equal(t, 200, result.Fidelity.Total)
	require.NotNil(t, result.Summary)
	require.Equal(t, 200, result.Summary.Rows)
}

func TestRunDeterminism(t *testing.T) {
	cfg := testConfig(t)

	a := runPipeline(t, cfg)
	cfg.Output.Dir = t.TempDir()
	b := runPipeline(t, cfg)

	aStrikes, err := a.Table.Floats(domain.ColStrike)
	require.NoError(t, err)
	bStrikes, err := b.Table.Floats(domain.ColStrike)
	require.NoError(t, err)
	require.Equal(t, aStrikes, bStrikes)

	aCur, err := a.Table.Strings(domain.ColCurrency)
	require.NoError(t, err)
	bCur, err := b.Table.Strings(domain.ColCurrency)
	require.NoError(t, err)
	require.Equal(t, aCur, bCur)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.Trades = -5

	rng := rand.New(rand.NewSource(1))
	p := New(Options{
		Config:      cfg,
		Synthesizer: synthesis.NewResample(rng),
		RNG:         rng,
	})
	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, config.ErrInvalidTrades)
}

func TestRunCancelledContext(t *testing.T) {
	cfg := testConfig(t)
	rng := rand.New(rand.NewSource(1))
	p := New(Options{
		Config:      cfg,
		Synthesizer: synthesis.NewResample(rng),
		RNG:         rng,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx)
	require.Error(t, err)
}
