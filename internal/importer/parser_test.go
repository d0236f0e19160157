package importer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse_FinanceflowExport(t *testing.T) {
	csv := `Date,Type,Category,Amount,Note,Payment Method
2024-06-05,expense,Food,45000.00,Nasi goreng,cash
2024-06-01,income,Salary,8500000.00,"June salary, net",bank
2024-06-02,expense,,12000,,e-wallet
`

	st, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, importer.FormatFinanceflow, st.Format)
	require.Len(t, st.Rows, 3)

	first := st.Rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, date(2024, 6, 5), first.Date)
	assert.Equal(t, transaction.TypeExpense, first.Type)
	assert.Equal(t, "Food", first.Category)
	assert.True(t, dec("45000").Equal(first.Amount))
	assert.Equal(t, "Nasi goreng", first.Note)
	assert.Equal(t, transaction.PaymentCash, first.PaymentMethod)

	assert.Equal(t, "June salary, net", st.Rows[1].Note)
	assert.Equal(t, transaction.TypeIncome, st.Rows[1].Type)

	assert.Empty(t, st.Rows[2].Category)
	assert.Equal(t, transaction.PaymentEWallet, st.Rows[2].PaymentMethod)
}

func TestParse_HeaderCaseInsensitive(t *testing.T) {
	csv := "date,TYPE,category,amount,note,payment method\n2024-06-05,Expense,Food,10,Tea,CASH\n"

	st, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, st.Rows, 1)
	assert.Equal(t, transaction.TypeExpense, st.Rows[0].Type)
	assert.Equal(t, transaction.PaymentCash, st.Rows[0].PaymentMethod)
}

func TestParse_SignedWithPreamble(t *testing.T) {
	csv := `Account statement;01/06/2024 - 30/06/2024
Account;1234567890

Date;Description;Amount;Balance
30/06/2024;Electricity;-588,74;48.825,46
09/06/2024;Transfer in;8.608,52;52.532,78
10/06/2024;Fee waived;0,00;52.532,78
Total;;;
`

	st, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, importer.FormatSigned, st.Format)
	require.Len(t, st.Rows, 2)
	assert.Equal(t, 2, st.Skipped)

	assert.Equal(t, 5, st.Rows[0].Line)
	assert.Equal(t, date(2024, 6, 30), st.Rows[0].Date)
	assert.True(t, dec("588.74").Equal(st.Rows[0].Amount))
	assert.Equal(t, transaction.TypeExpense, st.Rows[0].Type)

	assert.True(t, dec("8608.52").Equal(st.Rows[1].Amount))
	assert.Equal(t, transaction.TypeIncome, st.Rows[1].Type)
}

func TestParse_Mutasi(t *testing.T) {
	csv := `Tanggal,Keterangan,Debet,Kredit,Saldo
02-06-2024,TARIK TUNAI ATM,"500,000.00",,"1,500,000.00"
03-06-2024,TRSF GAJI,,"8,000,000.00","9,500,000.00"
`

	st, err := importer.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, importer.FormatMutasi, st.Format)
	require.Len(t, st.Rows, 2)

	assert.Equal(t, date(2024, 6, 2), st.Rows[0].Date)
	assert.Equal(t, "TARIK TUNAI ATM", st.Rows[0].Note)
	assert.True(t, dec("500000").Equal(st.Rows[0].Amount))
	assert.Equal(t, transaction.TypeExpense, st.Rows[0].Type)

	assert.True(t, dec("8000000").Equal(st.Rows[1].Amount))
	assert.Equal(t, transaction.TypeIncome, st.Rows[1].Type)
}

func TestParse_DebitCreditLatin1(t *testing.T) {
	utf8 := "Date;Description;Debit;Credit\n2024/06/04;Café Schönbrunn;12,50;\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8))
	require.NoError(t, err)

	st, err := importer.Parse(bytes.NewReader(latin1))
	require.NoError(t, err)

	assert.Equal(t, importer.FormatDebitCredit, st.Format)
	assert.NotEqual(t, "UTF-8", st.Charset)
	require.Len(t, st.Rows, 1)
	assert.Equal(t, "Café Schönbrunn", st.Rows[0].Note)
	assert.True(t, dec("12.5").Equal(st.Rows[0].Amount))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "unknown header",
			input: "When,What,How much\n2024-06-01,Tea,5\n",
		},
		{
			name:  "bad amount",
			input: "Date,Type,Category,Amount,Note,Payment Method\n2024-06-01,expense,Food,abc,Tea,cash\n",
		},
		{
			name:  "bad type",
			input: "Date,Type,Category,Amount,Note,Payment Method\n2024-06-01,transfer,Food,5,Tea,cash\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, importer.ErrInvalid)
			assert.ErrorIs(t, err, apperr.ErrInvalid)
		})
	}
}
