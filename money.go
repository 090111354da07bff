package finagent

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// reportingCurrency is the single currency assumed by narratives and
// reports. Multi-currency handling is out of scope.
const reportingCurrency = money.USD

// FormatAmount renders a decimal amount with the reporting currency's
// symbol and grouping, e.g. "$1,234.50".
func FormatAmount(v decimal.Decimal) string {
	cur := money.GetCurrency(reportingCurrency)
	minor := v.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}
