package domain

// IFRS 13 fair-value hierarchy levels
const (
	LevelTwo   = "Level 2"
	LevelThree = "Level 3"
)

// Day-2 PnL flag values
const (
	PnLFlagYes = "Yes"
	PnLFlagNo  = "No"
)

// Training class weights for the rebalanced dataset
const (
	ClassWeightLevelTwo   = 1.0
	ClassWeightLevelThree = 4.0
)

// Strike band bounds (percent) per forced class.
const (
	StrikeMin       = 0.5
	StrikeMax       = 5.0
	Level2StrikeMax = 2.9
	Level3StrikeMin = 3.1

	// Level 2 classification threshold.
	levelStrikeBound = 3.0
)

// DetermineLevel classifies a trade into the IFRS 13 fair-value hierarchy.
// Level 2 requires a USD trade with a 2y or 3y expiry tenor, a maturity
// tenor under 15y, and a strike under 3.0%; everything else is Level 3.
func DetermineLevel(currency string, expiryTenor, maturityTenor int, strike float64) string {
	if currency == CurrencyUSD &&
		(expiryTenor == 2 || expiryTenor == 3) &&
		maturityTenor < 15 &&
		strike < levelStrikeBound {
		return LevelTwo
	}
	return LevelThree
}

// ClassWeightFor returns the training weight for a hierarchy level.
func ClassWeightFor(level string) float64 {
	if level == LevelTwo {
		return ClassWeightLevelTwo
	}
	return ClassWeightLevelThree
}
