package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dbTimeout = 5 * time.Second

var printer = message.NewPrinter(language.English)

// FormatMoney renders amount in the profile currency, e.g. "IDR 1,250,000.00". Unknown
// currency codes fall back to the plain code.
func FormatMoney(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + amount.StringFixed(2)
	}

	return printer.Sprint(currency.ISO(unit.Amount(amount.InexactFloat64())))
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
