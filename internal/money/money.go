// Package money is the normalization boundary for monetary values read from the database
// or from client payloads. The gateway may hand back NULLs, numerics rendered as text,
// or plain floats; every one of them becomes a decimal.Decimal here, and nowhere else.
package money

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Coerce converts v to a decimal. NULL, empty strings, non-numeric text, NaN and
// infinities all become zero so they cannot poison a sum.
func Coerce(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}

		return *x
	case decimal.NullDecimal:
		if !x.Valid {
			return decimal.Zero
		}

		return x.Decimal
	case string:
		return parse(x)
	case []byte:
		return parse(string(x))
	case json.Number:
		return parse(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}

		return decimal.NewFromFloat(x)
	case float32:
		return Coerce(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case bool:
		return decimal.Zero
	}

	return decimal.Zero
}

func parse(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// Scanner is a sql.Scanner target for nullable numeric columns.
type Scanner struct {
	Value decimal.Decimal
}

func (s *Scanner) Scan(src any) error {
	s.Value = Coerce(src)
	return nil
}

// Sum adds up amount(it) over items.
func Sum[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(amount(it))
	}

	return total
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}

	return part.Div(whole).Mul(hundred)
}
