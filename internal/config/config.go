// Package config loads the run configuration: package defaults, overridden
// by an optional YAML profile, overridden again by explicitly-set CLI flags
// in cmd/generate.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"swaption-lab/internal/synthesis"
)

// Defaults matching the reference generation scripts.
const (
	DefaultTrades    = 10000
	DefaultBiasRatio = 0.8
	DefaultSeed      = 42
)

// Config is the full run configuration.
type Config struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Synthesis SynthesisConfig `mapstructure:"synthesis"`
	Output    OutputConfig    `mapstructure:"output"`
	Log       LogConfig       `mapstructure:"log"`
}

// GeneratorConfig controls the seed dataset.
type GeneratorConfig struct {
	Trades         int     `mapstructure:"trades"`
	BiasRatio      float64 `mapstructure:"bias_ratio"`
	Seed           int64   `mapstructure:"seed"`
	PnLFlag        bool    `mapstructure:"pnl_flag"`
	ForcedMinority bool    `mapstructure:"forced_minority"`
}

// SynthesisConfig selects the synthesizer and the post-processing variant.
type SynthesisConfig struct {
	Name      string `mapstructure:"name"`
	Rebalance bool   `mapstructure:"rebalance"`
}

// OutputConfig controls where the CSV lands.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig mirrors the zap build options.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

// Validation errors
var (
	ErrInvalidTrades = errors.New("trades must be positive")
	ErrInvalidBias   = errors.New("bias ratio must be in (0, 1)")
	ErrEmptyClass    = errors.New("bias ratio leaves a class block empty")
)

// Load reads the configuration. An empty path returns pure defaults; a
// non-empty path must name a readable YAML file.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("generator.trades", DefaultTrades)
	v.SetDefault("generator.bias_ratio", DefaultBiasRatio)
	v.SetDefault("generator.seed", DefaultSeed)
	v.SetDefault("generator.pnl_flag", false)
	v.SetDefault("generator.forced_minority", true)
	v.SetDefault("synthesis.name", synthesis.NameGaussianCopula)
	v.SetDefault("synthesis.rebalance", false)
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// ClassCounts partitions the total trade count into the forced Level-2 block
// and the minority block at the configured bias ratio.
func (g GeneratorConfig) ClassCounts() (level2, minority int) {
	level2 = int(float64(g.Trades) * g.BiasRatio)
	return level2, g.Trades - level2
}

// Validate rejects configurations the pipeline cannot run.
func (c Config) Validate() error {
	if c.Generator.Trades <= 0 {
		return fmt.Errorf("trades %d: %w", c.Generator.Trades, ErrInvalidTrades)
	}
	if c.Generator.BiasRatio <= 0 || c.Generator.BiasRatio >= 1 {
		return fmt.Errorf("bias ratio %g: %w", c.Generator.BiasRatio, ErrInvalidBias)
	}
	level2, minority := c.Generator.ClassCounts()
	if level2 < 1 || minority < 1 {
		return fmt.Errorf("trades %d at bias %g splits %d/%d: %w",
			c.Generator.Trades, c.Generator.BiasRatio, level2, minority, ErrEmptyClass)
	}
	switch c.Synthesis.Name {
	case synthesis.NameGaussianCopula, synthesis.NameResample:
	default:
		return fmt.Errorf("synthesizer %q: %w", c.Synthesis.Name, synthesis.ErrUnknownSynthesizer)
	}
	return nil
}
