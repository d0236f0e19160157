package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financeflow/internal/money"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "Nil", in: nil, want: "0"},
		{name: "NumericText", in: "1250.50", want: "1250.5"},
		{name: "PaddedText", in: "  42 ", want: "42"},
		{name: "Garbage", in: "abc", want: "0"},
		{name: "EmptyText", in: "", want: "0"},
		{name: "Bytes", in: []byte("99.99"), want: "99.99"},
		{name: "Float", in: 12.5, want: "12.5"},
		{name: "NaN", in: math.NaN(), want: "0"},
		{name: "Inf", in: math.Inf(1), want: "0"},
		{name: "Int", in: 7, want: "7"},
		{name: "Int64", in: int64(300), want: "300"},
		{name: "JSONNumber", in: json.Number("3.25"), want: "3.25"},
		{name: "Bool", in: true, want: "0"},
		{name: "NullDecimal", in: decimal.NullDecimal{}, want: "0"},
		{name: "Decimal", in: decimal.RequireFromString("5.1"), want: "5.1"},
		{name: "Unsupported", in: struct{}{}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.Coerce(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestScanner(t *testing.T) {
	var s money.Scanner

	require.NoError(t, s.Scan(nil))
	assert.True(t, s.Value.IsZero())

	require.NoError(t, s.Scan([]byte("400.00")))
	assert.Equal(t, "400", s.Value.String())
}

func TestSumAndPercent(t *testing.T) {
	rows := []string{"100", "oops", "50.5"}

	total := money.Sum(rows, func(s string) decimal.Decimal { return money.Coerce(s) })
	assert.Equal(t, "150.5", total.String())

	assert.Equal(t, "50", money.Percent(decimal.NewFromInt(200), decimal.NewFromInt(400)).String())
	assert.True(t, money.Percent(decimal.NewFromInt(1), decimal.Zero).IsZero())
}
