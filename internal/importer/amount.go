package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount reads "1.234,56" when decimalComma is set and "1,234.56" otherwise. Currency
// markers and spaces are ignored.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '-', r == '.', r == ',':
			return r
		}

		return -1
	}, s)

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
