package cli

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money formats an amount with thousands separators and two decimals,
// prefixed by the currency code when one is given.
func Money(currency string, amount decimal.Decimal) string {
	s := printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// SignedMoney prefixes the amount with + or -, for transaction lists.
func SignedMoney(currency string, amount decimal.Decimal) string {
	sign := "+"
	if amount.IsNegative() {
		sign = "-"
	}
	return strings.TrimSpace(currency + " " + sign + Money("", amount.Abs()))
}

// Percent formats a percentage with no decimals.
func Percent(value float64) string {
	return printer.Sprintf("%.0f%%", value)
}
