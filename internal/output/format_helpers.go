package output

import (
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/talentdesk/ctc-calculator/pkg/decimal"
)

// NotAvailable is rendered in place of an amount that is missing
const NotAvailable = "N/A"

// RupeeSymbol prefixes amounts rendered by FormatCurrency
const RupeeSymbol = "₹"

// FormatCurrency formats a decimal as rupees with zero decimals and Indian digit
// grouping, e.g. ₹12,34,567. Kept separate from the engine, which never formats.
func FormatCurrency(amount decimal.Decimal) string { return formatWithSymbol(amount, RupeeSymbol) }

// FormatNullCurrency is FormatCurrency for values that may be absent.
func FormatNullCurrency(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return NotAvailable
	}
	return FormatCurrency(amount.Decimal)
}

// FormatAmount formats like FormatCurrency without the symbol, for fonts that lack ₹.
func FormatAmount(amount decimal.Decimal) string { return formatWithSymbol(amount, "") }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.05) as a whole percentage ("5%").
func FormatRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

func formatWithSymbol(amount decimal.Decimal, symbol string) string {
	rounded := money.NewMoneyFromDecimal(amount).RoundWhole().Decimal
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + symbol + groupIndian(rounded.StringFixed(0))
}

// groupIndian inserts separators after the last three digits and then every two.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
