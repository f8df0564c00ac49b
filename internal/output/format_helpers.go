package output

import "github.com/shopspring/decimal"

// FormatCurrency renders a dollar amount with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

// FormatPercent renders a 0..1 fraction as a percentage with 1 decimal.
func FormatPercent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
