// Package generation produces the rule-based seed trade records that the
// synthesizer is fitted on. All randomness flows through a single injected
// rand.Rand so a fixed seed reproduces the dataset exactly.
package generation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"swaption-lab/internal/domain"
)

// ForceClass selects the generation branch for a record.
type ForceClass int

const (
	// ForceNone draws every field from its full value set.
	ForceNone ForceClass = iota
	// ForceLevel2 pins currency to USD, the tenors to the short sets the
	// classification rule accepts, and the strike below the Level 2 bound.
	ForceLevel2
	// ForceLevel3 draws non-USD currencies, high strikes, and long tenors.
	ForceLevel3
)

// Day-2 PnL flag shares: 15% "Yes" within a forced Level-3 block,
// 20% "Yes" for unforced records.
const (
	pnlYesShare        = 0.15
	unforcedPnLYesProb = 0.2
)

// Generator builds seed trade records.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{
		rng: rng,
		now: time.Now,
	}
}

// WithClock sets a custom clock (for testing).
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces one trade record. seq numbers the trade id; force picks
// the class branch. The IFRS 13 label is always derived from the record's own
// fields, so it is consistent at generation time by construction.
func (g *Generator) Generate(seq int, force ForceClass) domain.TradeRecord {
	daysAgo := 30 + g.rng.Intn(700)
	tradeDate := g.now().UTC().AddDate(0, 0, -daysAgo)

	expiryTenor := choiceInt(g.rng, domain.ExpiryTenors)
	maturityTenor := choiceInt(g.rng, domain.MaturityTenors)

	var currency string
	var strike float64
	switch force {
	case ForceLevel2:
		currency = domain.CurrencyUSD
		strike = roundStrike(uniform(g.rng, domain.StrikeMin, domain.Level2StrikeMax))
		expiryTenor = choiceInt(g.rng, domain.Level2ExpiryTenors)
		maturityTenor = choiceInt(g.rng, domain.Level2MaturityTenors)
	case ForceLevel3:
		currency = choice(g.rng, domain.Level3Currencies)
		strike = roundStrike(uniform(g.rng, domain.Level3StrikeMin, domain.StrikeMax))
		expiryTenor = choiceInt(g.rng, domain.Level3ExpiryTenors)
		maturityTenor = choiceInt(g.rng, domain.Level3MaturityTenors)
	default:
		currency = choice(g.rng, domain.Currencies)
		strike = roundStrike(uniform(g.rng, domain.StrikeMin, domain.StrikeMax))
	}

	loMult, hiMult := domain.NotionalMultiplierRange()
	notional := int64(loMult+g.rng.Intn(hiMult-loMult)) * domain.NotionalStep

	rec := domain.TradeRecord{
		TradeID:        fmt.Sprintf("%s%04d", domain.TradeIDPrefix, seq),
		TradeIDType:    domain.TradeIDTypeHackTrade,
		TradeVersion:   1 + g.rng.Intn(4),
		ProductType:    domain.ProductTypeIRSwaption,
		Currency:       currency,
		OptionType:     choice(g.rng, domain.OptionTypes),
		Notional:       notional,
		TradeDate:      tradeDate,
		Strike:         strike,
		ExpiryDate:     tradeDate.AddDate(0, 0, expiryTenor*365),
		MaturityDate:   tradeDate.AddDate(0, 0, maturityTenor*365),
		CounterpartyID: fmt.Sprintf("%s%d", domain.CounterpartyPrefix, 1000+g.rng.Intn(8999)),
		ExpiryTenor:    expiryTenor,
		MaturityTenor:  maturityTenor,
	}
	rec.IFRS13Level = domain.DetermineLevel(rec.Currency, rec.ExpiryTenor, rec.MaturityTenor, rec.Strike)
	return rec
}

// DatasetOptions controls the driver partitioning.
type DatasetOptions struct {
	Trades         int
	BiasRatio      float64 // share of forced Level-2 records
	ForcedMinority bool    // minority block forced Level 3 instead of unforced
	IncludePnLFlag bool
}

// GenerateDataset produces the full seed dataset: a forced Level-2 block of
// int(Trades*BiasRatio) records followed by the minority block. The class
// balance is forced up front, before any statistical resampling. When the PnL
// flag is on, the forced Level-3 block is split 15/85 by count, independent
// of the fair-value rule; unforced records draw the flag at 20%.
func (g *Generator) GenerateDataset(opts DatasetOptions) []domain.TradeRecord {
	level2Count := int(float64(opts.Trades) * opts.BiasRatio)
	minorityCount := opts.Trades - level2Count

	records := make([]domain.TradeRecord, 0, opts.Trades)
	for i := 0; i < level2Count; i++ {
		rec := g.Generate(i+1, ForceLevel2)
		if opts.IncludePnLFlag {
			rec.Day2PnLAboveThreshold = domain.PnLFlagNo
		}
		records = append(records, rec)
	}

	pnlYes := int(float64(minorityCount) * pnlYesShare)
	for i := 0; i < minorityCount; i++ {
		force := ForceLevel3
		if !opts.ForcedMinority {
			force = ForceNone
		}
		rec := g.Generate(level2Count+i+1, force)
		if opts.IncludePnLFlag {
			switch {
			case force == ForceNone:
				rec.Day2PnLAboveThreshold = domain.PnLFlagNo
				if g.rng.Float64() < unforcedPnLYesProb {
					rec.Day2PnLAboveThreshold = domain.PnLFlagYes
				}
			case i < pnlYes:
				rec.Day2PnLAboveThreshold = domain.PnLFlagYes
			default:
				rec.Day2PnLAboveThreshold = domain.PnLFlagNo
			}
		}
		records = append(records, rec)
	}
	return records
}

// roundStrike rounds a drawn strike to 2 decimals.
func roundStrike(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func choice(rng *rand.Rand, vals []string) string {
	return vals[rng.Intn(len(vals))]
}

func choiceInt(rng *rand.Rand, vals []int) int {
	return vals[rng.Intn(len(vals))]
}
