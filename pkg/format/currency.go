// Package format renders monetary amounts and ratios for human-readable output.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return CurrencyDecimal(decimal.NewFromFloat(amount))
}

// CurrencyDecimal formats a decimal amount the same way as Currency.
func CurrencyDecimal(amount decimal.Decimal) string {
	formatted := formatPositiveCurrency(amount.Abs())
	if amount.Round(2).IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Percent renders a ratio as a percentage with one decimal place (0.253 -> "25.3%").
func Percent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Shift(2).StringFixed(1) + "%"
}

// Rate renders an annual percentage rate with two decimal places (4.5 -> "4.50%").
func Rate(annualPercent float64) string {
	return decimal.NewFromFloat(annualPercent).StringFixed(2) + "%"
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
