package fidelity

import (
	"testing"

	"swaption-lab/internal/dataset"
	"swaption-lab/internal/domain"
)

func buildTable(t *testing.T, currencies []string, expiry, maturity, strikes []float64, levels []string) *dataset.Table {
	t.Helper()
	tbl := dataset.NewTable()
	steps := []error{
		tbl.AddStrings(domain.ColCurrency, currencies),
		tbl.AddFloats(domain.ColExpiryTenor, expiry),
		tbl.AddFloats(domain.ColMaturityTenor, maturity),
		tbl.AddFloats(domain.ColStrike, strikes),
		tbl.AddStrings(domain.ColIFRS13Level, levels),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatalf("build table: %v", err)
		}
	}
	return tbl
}

func TestCheckClean(t *testing.T) {
	tbl := buildTable(t,
		[]string{"USD", "EUR"},
		[]float64{2, 1},
		[]float64{10, 20},
		[]float64{1.5, 4.2},
		[]string{domain.LevelTwo, domain.LevelThree})

	res, err := Check(tbl)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Clean() || res.Total != 2 || res.Violations != 0 {
		t.Fatalf("result = %+v, want clean over 2 rows", res)
	}
}

func TestCheckCountsViolations(t *testing.T) {
	// Row 0: fields say Level 2, label says Level 3.
	// Row 2: EUR can never be Level 2.
	tbl := buildTable(t,
		[]string{"USD", "USD", "EUR"},
		[]float64{2, 3, 2},
		[]float64{10, 10, 10},
		[]float64{1.5, 2.0, 1.5},
		[]string{domain.LevelThree, domain.LevelTwo, domain.LevelTwo})

	res, err := Check(tbl)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Violations != 2 {
		t.Fatalf("violations = %d, want 2", res.Violations)
	}
	if len(res.SampleRows) != 2 || res.SampleRows[0] != 0 || res.SampleRows[1] != 2 {
		t.Fatalf("sample rows = %v, want [0 2]", res.SampleRows)
	}
}

func TestCheckRoundsTenors(t *testing.T) {
	// Synthesized tenors can carry float noise; 2.0000001 still means 2y.
	tbl := buildTable(t,
		[]string{"USD"},
		[]float64{2.0000001},
		[]float64{9.9999999},
		[]float64{1.5},
		[]string{domain.LevelTwo})

	res, err := Check(tbl)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Clean() {
		t.Fatalf("result = %+v, want clean", res)
	}
}

func TestCheckSampleLimit(t *testing.T) {
	n := 8
	currencies := make([]string, n)
	expiry := make([]float64, n)
	maturity := make([]float64, n)
	strikes := make([]float64, n)
	levels := make([]string, n)
	for i := range currencies {
		currencies[i] = "EUR"
		expiry[i] = 1
		maturity[i] = 20
		strikes[i] = 4.0
		levels[i] = domain.LevelTwo // all wrong
	}

	res, err := Check(buildTable(t, currencies, expiry, maturity, strikes, levels))
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Violations != n {
		t.Fatalf("violations = %d, want %d", res.Violations, n)
	}
	if len(res.SampleRows) != sampleLimit {
		t.Fatalf("sample rows = %v, want %d entries", res.SampleRows, sampleLimit)
	}
}
