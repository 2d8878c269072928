// Package money formats rupee amounts the way the portal displays them.
package money

import (
	"strings"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

const suffix = "-IN"

var lakh = decimal.NewFromInt(100000)

// FormatINR groups digits in the Indian system: 1,00,000.
func FormatINR(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := decimal.NewFromInt(amount).String()

	sign := ""
	if neg {
		sign = "-"
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	// Last three digits, then pairs.
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	first := len(head) % 2
	if first > 0 {
		groups = append(groups, head[:first])
	}
	for i := first; i < len(head); i += 2 {
		groups = append(groups, head[i:i+2])
	}
	groups = append(groups, tail)
	return sign + strings.Join(groups, ",")
}

// FormatINRDecimal rounds to whole rupees (half away from zero) before grouping.
func FormatINRDecimal(d decimal.Decimal) string {
	return FormatINR(d.Round(0).IntPart())
}

// Label is the amount as shown on cards and tables, e.g. 1,00,000-IN.
func Label(amount int64) string {
	return FormatINR(amount) + suffix
}

// LabelDecimal is Label for a computed amount.
func LabelDecimal(d decimal.Decimal) string {
	return FormatINRDecimal(d) + suffix
}

// Lakhs is the compact dashboard form, e.g. 45.6L-IN.
func Lakhs(amount int64) string {
	return decimal.NewFromInt(amount).Div(lakh).Round(1).String() + "L" + suffix
}

// Words spells the amount out in English.
func Words(amount int64) string {
	if amount < 0 {
		return "minus " + num2words.Convert(int(-amount))
	}
	return num2words.Convert(int(amount))
}
