package generation

import (
	"time"

	"swaption-lab/internal/dataset"
	"swaption-lab/internal/domain"
)

// BuildTable converts seed records into the column table fed to the
// synthesizer. Integer fields become float columns so they can be modeled as
// numerics; the optional PnL flag column is appended after the level label.
func BuildTable(records []domain.TradeRecord, includePnL bool) (*dataset.Table, error) {
	n := len(records)

	tradeIDs := make([]string, n)
	idTypes := make([]string, n)
	versions := make([]float64, n)
	products := make([]string, n)
	currencies := make([]string, n)
	optionTypes := make([]string, n)
	notionals := make([]float64, n)
	tradeDates := make([]time.Time, n)
	strikes := make([]float64, n)
	expiryDates := make([]time.Time, n)
	maturityDates := make([]time.Time, n)
	counterparties := make([]string, n)
	expiryTenors := make([]float64, n)
	maturityTenors := make([]float64, n)
	levels := make([]string, n)
	pnlFlags := make([]string, n)

	for i, rec := range records {
		tradeIDs[i] = rec.TradeID
		idTypes[i] = rec.TradeIDType
		versions[i] = float64(rec.TradeVersion)
		products[i] = rec.ProductType
		currencies[i] = rec.Currency
		optionTypes[i] = rec.OptionType
		notionals[i] = float64(rec.Notional)
		tradeDates[i] = rec.TradeDate
		strikes[i] = rec.Strike
		expiryDates[i] = rec.ExpiryDate
		maturityDates[i] = rec.MaturityDate
		counterparties[i] = rec.CounterpartyID
		expiryTenors[i] = float64(rec.ExpiryTenor)
		maturityTenors[i] = float64(rec.MaturityTenor)
		levels[i] = rec.IFRS13Level
		pnlFlags[i] = rec.Day2PnLAboveThreshold
	}

	tbl := dataset.NewTable()
	steps := []func() error{
		func() error { return tbl.AddStrings(domain.ColTradeID, tradeIDs) },
		func() error { return tbl.AddStrings(domain.ColTradeIDType, idTypes) },
		func() error { return tbl.AddFloats(domain.ColTradeVersion, versions) },
		func() error { return tbl.AddStrings(domain.ColProductType, products) },
		func() error { return tbl.AddStrings(domain.ColCurrency, currencies) },
		func() error { return tbl.AddStrings(domain.ColOptionType, optionTypes) },
		func() error { return tbl.AddFloats(domain.ColNotional, notionals) },
		func() error { return tbl.AddTimes(domain.ColTradeDate, tradeDates) },
		func() error { return tbl.AddFloats(domain.ColStrike, strikes) },
		func() error { return tbl.AddTimes(domain.ColExpiryDate, expiryDates) },
		func() error { return tbl.AddTimes(domain.ColMaturityDate, maturityDates) },
		func() error { return tbl.AddStrings(domain.ColCounterpartyID, counterparties) },
		func() error { return tbl.AddFloats(domain.ColExpiryTenor, expiryTenors) },
		func() error { return tbl.AddFloats(domain.ColMaturityTenor, maturityTenors) },
		func() error { return tbl.AddStrings(domain.ColIFRS13Level, levels) },
	}
	if includePnL {
		steps = append(steps, func() error { return tbl.AddStrings(domain.ColDay2PnLFlag, pnlFlags) })
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
