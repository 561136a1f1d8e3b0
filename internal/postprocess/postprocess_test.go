package postprocess

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"swaption-lab/internal/dataset"
	"swaption-lab/internal/domain"
)

func buildTable(t *testing.T, levels []string, notionals []float64) *dataset.Table {
	t.Helper()
	n := len(levels)

	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = time.Date(2025, 2, 10, 14, 33, 52, 123456789, time.UTC).AddDate(0, 0, i)
	}

	tbl := dataset.NewTable()
	steps := []error{
		tbl.AddTimes(domain.ColTradeDate, dates),
		tbl.AddTimes(domain.ColExpiryDate, dates),
		tbl.AddTimes(domain.ColMaturityDate, dates),
		tbl.AddFloats(domain.ColNotional, notionals),
		tbl.AddStrings(domain.ColIFRS13Level, levels),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatalf("build table: %v", err)
		}
	}
	return tbl
}

func TestFinalizeTruncatesDates(t *testing.T) {
	tbl := buildTable(t,
		[]string{domain.LevelTwo, domain.LevelThree},
		[]float64{5_000_000, 7_000_000})

	p := NewProcessor(rand.New(rand.NewSource(1)))
	if err := p.Finalize(tbl); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	for _, col := range domain.DateColumns {
		dates, err := tbl.Times(col)
		if err != nil {
			t.Fatalf("%s: %v", col, err)
		}
		for i, d := range dates {
			h, m, s := d.Clock()
			if h != 0 || m != 0 || s != 0 || d.Nanosecond() != 0 {
				t.Fatalf("%s row %d: time of day survived: %v", col, i, d)
			}
		}
	}
}

func TestFinalizeRoundsNotional(t *testing.T) {
	tbl := buildTable(t,
		[]string{domain.LevelTwo, domain.LevelThree, domain.LevelTwo},
		[]float64{5_049_999.9, 5_050_000.1, 99_860_001})

	p := NewProcessor(rand.New(rand.NewSource(1)))
	if err := p.Finalize(tbl); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	notionals, _ := tbl.Floats(domain.ColNotional)
	want := []float64{5_000_000, 5_100_000, 99_900_000}
	for i, v := range notionals {
		if v != want[i] {
			t.Fatalf("row %d: notional %.1f, want %.1f", i, v, want[i])
		}
	}
}

func TestRebalanceExactCounts(t *testing.T) {
	// Deliberately skewed input: 3 Level 2, 7 Level 3.
	levels := make([]string, 10)
	notionals := make([]float64, 10)
	for i := range levels {
		levels[i] = domain.LevelThree
		notionals[i] = 1_000_000
	}
	levels[0], levels[4], levels[9] = domain.LevelTwo, domain.LevelTwo, domain.LevelTwo

	p := NewProcessor(rand.New(rand.NewSource(42)))
	out, err := p.Rebalance(buildTable(t, levels, notionals), 0.8)
	if err != nil {
		t.Fatalf("rebalance: %v", err)
	}

	if out.Len() != 10 {
		t.Fatalf("rebalanced to %d rows, want 10", out.Len())
	}
	outLevels, _ := out.Strings(domain.ColIFRS13Level)
	counts := map[string]int{}
	for _, lvl := range outLevels {
		counts[lvl]++
	}
	if counts[domain.LevelTwo] != 8 || counts[domain.LevelThree] != 2 {
		t.Fatalf("counts = %v, want 8 Level 2 / 2 Level 3", counts)
	}
}

func TestRebalanceClassWeights(t *testing.T) {
	levels := []string{domain.LevelTwo, domain.LevelTwo, domain.LevelTwo, domain.LevelTwo, domain.LevelThree}
	notionals := []float64{1, 2, 3, 4, 5}

	p := NewProcessor(rand.New(rand.NewSource(7)))
	out, err := p.Rebalance(buildTable(t, levels, notionals), 0.8)
	if err != nil {
		t.Fatalf("rebalance: %v", err)
	}

	outLevels, _ := out.Strings(domain.ColIFRS13Level)
	weights, err := out.Floats(domain.ColClassWeight)
	if err != nil {
		t.Fatalf("class_weight: %v", err)
	}
	for i, w := range weights {
		want := domain.ClassWeightLevelThree
		if outLevels[i] == domain.LevelTwo {
			want = domain.ClassWeightLevelTwo
		}
		if w != want {
			t.Fatalf("row %d (%s): weight %.1f, want %.1f", i, outLevels[i], w, want)
		}
	}
}

func TestRebalanceEmptyClass(t *testing.T) {
	levels := []string{domain.LevelTwo, domain.LevelTwo, domain.LevelTwo}
	notionals := []float64{1, 2, 3}

	p := NewProcessor(rand.New(rand.NewSource(1)))
	if _, err := p.Rebalance(buildTable(t, levels, notionals), 0.8); !errors.Is(err, ErrEmptyClass) {
		t.Fatalf("err = %v, want ErrEmptyClass", err)
	}
}
