package validation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

var errInvalid = errors.New("invalid")

type params struct {
	Title  string          `validate:"notblank"`
	Amount decimal.Decimal `validate:"gt=0"`
	Month  string          `validate:"month"`
	Kind   string          `validate:"oneof=income expense"`
}

func TestStruct(t *testing.T) {
	valid := params{Title: "Rent", Amount: decimal.NewFromInt(10), Month: "2024-06", Kind: "expense"}

	tests := []struct {
		name    string
		mutate  func(p *params)
		wantErr string
	}{
		{name: "Valid", mutate: func(*params) {}},
		{name: "BlankTitle", mutate: func(p *params) { p.Title = "   " }, wantErr: "title is required"},
		{name: "ZeroAmount", mutate: func(p *params) { p.Amount = decimal.Zero }, wantErr: "amount must be greater than 0"},
		{name: "NegativeAmount", mutate: func(p *params) { p.Amount = decimal.NewFromInt(-5) }, wantErr: "amount must be greater than 0"},
		{name: "BadMonth", mutate: func(p *params) { p.Month = "June" }, wantErr: "month must be formatted as YYYY-MM"},
		{name: "BadKind", mutate: func(p *params) { p.Kind = "transfer" }, wantErr: "kind must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := validation.Struct(errInvalid, p)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, errInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
