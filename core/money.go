package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with its currency symbol, thousand separators and 2 decimals: $1,234.50
func FormatMoney(symbol string, amount decimal.Decimal) string {
	str := amount.Abs().StringFixed(2)
	parts := strings.SplitN(str, ".", 2)

	intPart := parts[0]
	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(parts[1])
	return b.String()
}

// SumMoney adds up amounts, rounded to cents.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total.Round(2)
}
