package domain

import "time"

// TradeRecord represents a synthetic interest-rate swaption trade.
// Field order matches the column layout of the generated dataset.
type TradeRecord struct {
	// Identity
	TradeID      string // sequential, zero-padded (HACKTRD0001)
	TradeIDType  string // constant trade id scheme
	TradeVersion int    // amendment counter, 1..4

	// Economics
	ProductType string  // constant "IR Swaption"
	Currency    string  // USD | EUR | GBP | JPY
	OptionType  string  // Payer | Receiver
	Notional    int64   // multiple of 100,000
	Strike      float64 // percent rate, 2 decimals

	// Dates (flat 365-day year, no calendar adjustment)
	TradeDate    time.Time // 30-730 days before generation time
	ExpiryDate   time.Time // trade_date + expiry_tenor*365 days
	MaturityDate time.Time // trade_date + maturity_tenor*365 days

	// Counterparty
	CounterpartyID string // CPTY + 4-digit suffix

	// Tenors (years)
	ExpiryTenor   int
	MaturityTenor int

	// Labels
	IFRS13Level           string // "Level 2" | "Level 3", derived
	Day2PnLAboveThreshold string // "Yes" | "No", flag variant only
}

// Identifier scheme constants
const (
	TradeIDPrefix         = "HACKTRD"
	TradeIDTypeHackTrade  = "HackTradeID"
	CounterpartyPrefix    = "CPTY"
	ProductTypeIRSwaption = "IR Swaption"
)

// Currency codes
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyJPY = "JPY"
)

// Option side constants
const (
	OptionTypePayer    = "Payer"
	OptionTypeReceiver = "Receiver"
)

// Generation value sets. Forcing a class narrows currencies and tenors to
// combinations the fair-value rule classifies as exactly that level:
// Level-2 sets stay inside the rule's predicate, Level-3 sets can never
// satisfy it.
var (
	Currencies       = []string{CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyJPY}
	Level3Currencies = []string{CurrencyEUR, CurrencyGBP, CurrencyJPY}
	OptionTypes      = []string{OptionTypePayer, OptionTypeReceiver}

	ExpiryTenors         = []int{2, 3, 5}
	MaturityTenors       = []int{5, 10, 15, 20, 30}
	Level2ExpiryTenors   = []int{2, 3}
	Level2MaturityTenors = []int{5, 10}
	Level3ExpiryTenors   = []int{1, 5}
	Level3MaturityTenors = []int{15, 20, 30}
)

// Notional bounds: (multiplier in [10, 1000)) * 100,000.
const (
	NotionalStep = 100_000
	NotionalMin  = 1_000_000
	NotionalMax  = 99_900_000

	notionalMinMult = 10
	notionalMaxMult = 1000
)

// NotionalMultiplierRange returns the half-open [lo, hi) multiplier range.
func NotionalMultiplierRange() (lo, hi int) {
	return notionalMinMult, notionalMaxMult
}
