// Package synthesis defines the narrow boundary to the statistical tabular
// synthesizer and provides two implementations: a Gaussian copula with
// empirical marginals and a plain bootstrap resampler. Callers depend only on
// Fit and Sample; model internals stay out of the pipeline.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"swaption-lab/internal/dataset"
)

// Synthesizer errors
var (
	ErrEmptySeed           = errors.New("empty seed table")
	ErrMissingMetadata     = errors.New("column missing from metadata")
	ErrIDColumn            = errors.New("id column cannot be modeled")
	ErrInvalidSampleSize   = errors.New("sample size must be positive")
	ErrUnknownSynthesizer  = errors.New("unknown synthesizer name")
	ErrNotPositiveDefinite = errors.New("correlation matrix not positive definite")
)

// Synthesizer fits a joint statistical model over a seed table.
// The metadata must cover every column; columns still classified as id are
// rejected, since free identifiers have no distribution to model.
type Synthesizer interface {
	Fit(ctx context.Context, tbl *dataset.Table, meta dataset.Metadata) (Model, error)
}

// Model draws synthetic rows approximating the fitted joint distribution.
// Sampled tables carry the identical column set as the seed table; values
// are plausible under the model but satisfy no rule guarantees.
type Model interface {
	Sample(ctx context.Context, n int) (*dataset.Table, error)
}

// ShrinkageReporter is implemented by models that had to adjust the
// correlation estimate to factorize it.
type ShrinkageReporter interface {
	AppliedShrinkage() float64
}

// Synthesizer names accepted by FromName.
const (
	NameGaussianCopula = "copula"
	NameResample       = "resample"
)

// FromName creates a synthesizer by configuration name.
func FromName(name string, rng *rand.Rand) (Synthesizer, error) {
	switch name {
	case NameGaussianCopula:
		return NewGaussianCopula(rng), nil
	case NameResample:
		return NewResample(rng), nil
	default:
		return nil, ErrUnknownSynthesizer
	}
}

// checkSeed validates the Fit preconditions shared by all implementations.
func checkSeed(tbl *dataset.Table, meta dataset.Metadata) error {
	if tbl.Len() == 0 {
		return ErrEmptySeed
	}
	for _, name := range tbl.Names() {
		kind, ok := meta.KindOf(name)
		if !ok {
			return fmt.Errorf("column %q: %w", name, ErrMissingMetadata)
		}
		if kind == dataset.KindID {
			return fmt.Errorf("column %q: %w", name, ErrIDColumn)
		}
	}
	return nil
}
