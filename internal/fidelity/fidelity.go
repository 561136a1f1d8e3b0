// Package fidelity measures how often synthesized rows break the fair-value
// classification rule that held for every seed row. Violations are counted
// and reported, never repaired: rewriting labels after synthesis would
// silently change the labeled distributions the dataset exists to carry.
package fidelity

import (
	"fmt"
	"math"

	"swaption-lab/internal/dataset"
	"swaption-lab/internal/domain"
)

// sampleLimit caps how many violating row indices a Result carries.
const sampleLimit = 5

// Result summarizes one fidelity check.
type Result struct {
	Total      int
	Violations int
	SampleRows []int // first violating row indices, at most sampleLimit
}

// Clean reports whether every row satisfied the rule.
func (r Result) Clean() bool {
	return r.Violations == 0
}

// Check recomputes the IFRS 13 level from each row's own currency, tenors,
// and strike and compares it with the stored label.
func Check(tbl *dataset.Table) (Result, error) {
	currencies, err := tbl.Strings(domain.ColCurrency)
	if err != nil {
		return Result{}, fmt.Errorf("fidelity check: %w", err)
	}
	expiryTenors, err := tbl.Floats(domain.ColExpiryTenor)
	if err != nil {
		return Result{}, fmt.Errorf("fidelity check: %w", err)
	}
	maturityTenors, err := tbl.Floats(domain.ColMaturityTenor)
	if err != nil {
		return Result{}, fmt.Errorf("fidelity check: %w", err)
	}
	strikes, err := tbl.Floats(domain.ColStrike)
	if err != nil {
		return Result{}, fmt.Errorf("fidelity check: %w", err)
	}
	levels, err := tbl.Strings(domain.ColIFRS13Level)
	if err != nil {
		return Result{}, fmt.Errorf("fidelity check: %w", err)
	}

	res := Result{Total: tbl.Len()}
	for i := range levels {
		derived := domain.DetermineLevel(
			currencies[i],
			int(math.Round(expiryTenors[i])),
			int(math.Round(maturityTenors[i])),
			strikes[i],
		)
		if derived != levels[i] {
			res.Violations++
			if len(res.SampleRows) < sampleLimit {
				res.SampleRows = append(res.SampleRows, i)
			}
		}
	}
	return res, nil
}
