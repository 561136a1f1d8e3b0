package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"swaption-lab/internal/synthesis"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Generator.Trades != DefaultTrades {
		t.Errorf("trades = %d, want %d", cfg.Generator.Trades, DefaultTrades)
	}
	if cfg.Generator.BiasRatio != DefaultBiasRatio {
		t.Errorf("bias = %g, want %g", cfg.Generator.BiasRatio, DefaultBiasRatio)
	}
	if cfg.Generator.Seed != DefaultSeed {
		t.Errorf("seed = %d, want %d", cfg.Generator.Seed, DefaultSeed)
	}
	if cfg.Generator.PnLFlag || cfg.Synthesis.Rebalance {
		t.Error("variant toggles must default off")
	}
	if !cfg.Generator.ForcedMinority {
		t.Error("forced minority must default on")
	}
	if cfg.Synthesis.Name != synthesis.NameGaussianCopula {
		t.Errorf("synthesizer = %q, want %q", cfg.Synthesis.Name, synthesis.NameGaussianCopula)
	}
	if cfg.Output.Dir != "." {
		t.Errorf("output dir = %q, want .", cfg.Output.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadYAMLProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := "generator:\n  trades: 500\n  bias_ratio: 0.75\n  pnl_flag: true\nsynthesis:\n  name: resample\n  rebalance: true\noutput:\n  dir: out\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Generator.Trades != 500 || cfg.Generator.BiasRatio != 0.75 {
		t.Errorf("generator = %+v, want trades 500 bias 0.75", cfg.Generator)
	}
	if !cfg.Generator.PnLFlag || !cfg.Synthesis.Rebalance {
		t.Error("profile toggles not applied")
	}
	if cfg.Synthesis.Name != synthesis.NameResample {
		t.Errorf("synthesizer = %q, want resample", cfg.Synthesis.Name)
	}
	// Unset keys keep defaults.
	if cfg.Generator.Seed != DefaultSeed {
		t.Errorf("seed = %d, want default %d", cfg.Generator.Seed, DefaultSeed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg, _ := Load("")
		return cfg
	}

	cfg := base()
	cfg.Generator.Trades = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidTrades) {
		t.Errorf("trades 0: err = %v, want ErrInvalidTrades", err)
	}

	cfg = base()
	cfg.Generator.BiasRatio = 1.0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidBias) {
		t.Errorf("bias 1.0: err = %v, want ErrInvalidBias", err)
	}

	cfg = base()
	cfg.Generator.Trades = 2
	cfg.Generator.BiasRatio = 0.4
	// int(2*0.4) = 0 forced Level-2 rows.
	if err := cfg.Validate(); !errors.Is(err, ErrEmptyClass) {
		t.Errorf("empty block: err = %v, want ErrEmptyClass", err)
	}

	cfg = base()
	cfg.Synthesis.Name = "gan"
	if err := cfg.Validate(); !errors.Is(err, synthesis.ErrUnknownSynthesizer) {
		t.Errorf("bad synthesizer: err = %v, want ErrUnknownSynthesizer", err)
	}
}

func TestClassCounts(t *testing.T) {
	g := GeneratorConfig{Trades: 1000, BiasRatio: 0.8}
	level2, minority := g.ClassCounts()
	if level2 != 800 || minority != 200 {
		t.Fatalf("counts = %d/%d, want 800/200", level2, minority)
	}

	g = GeneratorConfig{Trades: 10, BiasRatio: 0.8}
	level2, minority = g.ClassCounts()
	if level2 != 8 || minority != 2 {
		t.Fatalf("counts = %d/%d, want 8/2", level2, minority)
	}
}
