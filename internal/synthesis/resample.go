package synthesis

import (
	"context"
	"math/rand"

	"swaption-lab/internal/dataset"
)

// Resample is the bootstrap synthesizer: sampling draws whole seed rows with
// replacement. It trades joint-distribution modeling for exactness and is
// the substitute implementation behind the same boundary.
type Resample struct {
	rng *rand.Rand
}

// NewResample creates a bootstrap synthesizer drawing from rng.
func NewResample(rng *rand.Rand) *Resample {
	return &Resample{rng: rng}
}

// Fit validates the seed and captures it; no model parameters exist.
func (s *Resample) Fit(ctx context.Context, tbl *dataset.Table, meta dataset.Metadata) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSeed(tbl, meta); err != nil {
		return nil, err
	}
	return &resampleModel{rng: s.rng, seed: tbl}, nil
}

type resampleModel struct {
	rng  *rand.Rand
	seed *dataset.Table
}

// Sample draws n seed rows uniformly with replacement.
func (m *resampleModel) Sample(ctx context.Context, n int) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, ErrInvalidSampleSize
	}

	rows := make([]int, n)
	for i := range rows {
		rows[i] = m.rng.Intn(m.seed.Len())
	}
	return m.seed.Select(rows)
}

// Ensure interface compliance
var (
	_ Synthesizer = (*Resample)(nil)
	_ Model       = (*resampleModel)(nil)
)
