package domain

// Dataset column names, in output order.
const (
	ColTradeID        = "trade_id"
	ColTradeIDType    = "trade_id_type"
	ColTradeVersion   = "trade_version"
	ColProductType    = "product_type"
	ColCurrency       = "currency"
	ColOptionType     = "option_type"
	ColNotional       = "notional"
	ColTradeDate      = "trade_date"
	ColStrike         = "strike"
	ColExpiryDate     = "expiry_date"
	ColMaturityDate   = "maturity_date"
	ColCounterpartyID = "counterparty_id"
	ColExpiryTenor    = "expiry_tenor"
	ColMaturityTenor  = "maturity_tenor"
	ColIFRS13Level    = "ifrs13_level"
	ColDay2PnLFlag    = "Day2_Pnl_Above_Threshold"
	ColClassWeight    = "class_weight"
)

// DateColumns lists the columns holding calendar dates.
var DateColumns = []string{ColTradeDate, ColExpiryDate, ColMaturityDate}
