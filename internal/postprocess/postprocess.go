// Package postprocess restores presentable formats on the synthesized table:
// calendar dates, notional granularity, and (balanced variant) the exact
// seed class ratio plus training weights.
package postprocess

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"swaption-lab/internal/dataset"
	"swaption-lab/internal/domain"
)

// ErrEmptyClass is returned when rebalancing finds no rows for a level.
var ErrEmptyClass = errors.New("no rows available to resample for class")

// Processor applies the post-synthesis transformations.
type Processor struct {
	rng *rand.Rand
}

// NewProcessor creates a processor shuffling with rng.
func NewProcessor(rng *rand.Rand) *Processor {
	return &Processor{rng: rng}
}

// Finalize mutates the table in place: dates truncated to midnight UTC,
// notional rounded to the nearest 100,000.
func (p *Processor) Finalize(tbl *dataset.Table) error {
	for _, col := range domain.DateColumns {
		times, err := tbl.Times(col)
		if err != nil {
			return fmt.Errorf("truncate %s: %w", col, err)
		}
		for i, t := range times {
			times[i] = truncateToDay(t)
		}
		if err := tbl.SetTimes(col, times); err != nil {
			return fmt.Errorf("truncate %s: %w", col, err)
		}
	}

	notionals, err := tbl.Floats(domain.ColNotional)
	if err != nil {
		return fmt.Errorf("round notional: %w", err)
	}
	step := decimal.NewFromInt(domain.NotionalStep)
	for i, v := range notionals {
		notionals[i] = roundToStep(v, step)
	}
	if err := tbl.SetFloats(domain.ColNotional, notionals); err != nil {
		return fmt.Errorf("round notional: %w", err)
	}
	return nil
}

// Rebalance resamples the table by stored ifrs13_level label to an exact
// {int(bias*n), n-int(bias*n)} split, shuffles the rows, and appends the
// class_weight column. Labels are taken as stored, never re-derived.
func (p *Processor) Rebalance(tbl *dataset.Table, bias float64) (*dataset.Table, error) {
	levels, err := tbl.Strings(domain.ColIFRS13Level)
	if err != nil {
		return nil, fmt.Errorf("rebalance: %w", err)
	}

	var level2Rows, level3Rows []int
	for i, lvl := range levels {
		if lvl == domain.LevelTwo {
			level2Rows = append(level2Rows, i)
		} else {
			level3Rows = append(level3Rows, i)
		}
	}

	n := tbl.Len()
	level2Target := int(float64(n) * bias)
	level3Target := n - level2Target

	rows := make([]int, 0, n)
	drawn, err := p.drawWithReplacement(level2Rows, level2Target, domain.LevelTwo)
	if err != nil {
		return nil, err
	}
	rows = append(rows, drawn...)
	drawn, err = p.drawWithReplacement(level3Rows, level3Target, domain.LevelThree)
	if err != nil {
		return nil, err
	}
	rows = append(rows, drawn...)

	p.rng.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})

	out, err := tbl.Select(rows)
	if err != nil {
		return nil, fmt.Errorf("rebalance: %w", err)
	}

	outLevels, err := out.Strings(domain.ColIFRS13Level)
	if err != nil {
		return nil, fmt.Errorf("rebalance: %w", err)
	}
	weights := make([]float64, len(outLevels))
	for i, lvl := range outLevels {
		weights[i] = domain.ClassWeightFor(lvl)
	}
	if err := out.AddFloats(domain.ColClassWeight, weights); err != nil {
		return nil, fmt.Errorf("rebalance: %w", err)
	}
	return out, nil
}

func (p *Processor) drawWithReplacement(pool []int, count int, label string) ([]int, error) {
	if count == 0 {
		return nil, nil
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%q needs %d rows: %w", label, count, ErrEmptyClass)
	}
	drawn := make([]int, count)
	for i := range drawn {
		drawn[i] = pool[p.rng.Intn(len(pool))]
	}
	return drawn, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// roundToStep rounds v to the nearest multiple of step.
func roundToStep(v float64, step decimal.Decimal) float64 {
	return decimal.NewFromFloat(v).Div(step).Round(0).Mul(step).InexactFloat64()
}
