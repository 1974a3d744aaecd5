package billing

import "github.com/shopspring/decimal"

// Margin returns profit / revenue, or zero when there is no revenue.
func Margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Div(revenue)
}

// FormatMoney renders an amount as dollars with two decimals, e.g. "$1000.00".
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// FormatPercent renders a ratio as a percentage with one decimal, e.g. "37.5%".
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
