package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultLocale = "en"

// Format renders an amount as a locale currency string, e.g. "$ 1,000.00".
// Unknown currency codes fall back to "<CODE> <amount>".
func Format(amount decimal.Decimal, currencyCode, locale string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return fmt.Sprintf("%s %s", currencyCode, amount.StringFixed(2))
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(defaultLocale)
	}

	printer := message.NewPrinter(tag)
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(amount.InexactFloat64())))
}

// FormatDefault renders an amount with the default storefront locale.
func FormatDefault(amount decimal.Decimal, currencyCode string) string {
	return Format(amount, currencyCode, defaultLocale)
}
