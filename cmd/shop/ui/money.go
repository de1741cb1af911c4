package ui

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol follows every rendered amount.
const CurrencySymbol = "₽"

// FormatPrice renders an amount with space-grouped thousands, dropping the
// fraction for whole amounts: 1 234 ₽, 19.90 ₽.
func FormatPrice(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs()

	var whole, frac string
	if d.Equal(d.Truncate(0)) {
		whole = d.Truncate(0).String()
	} else {
		s := d.StringFixed(2)
		whole, frac = s[:len(s)-3], s[len(s)-2:]
	}

	var b strings.Builder
	if neg {
		b.WriteString("-")
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(" ")
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(".")
		b.WriteString(frac)
	}
	b.WriteString(" ")
	b.WriteString(CurrencySymbol)
	return b.String()
}
