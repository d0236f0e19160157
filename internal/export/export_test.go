package export_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/export"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var userID = uuid.MustParse("5b1f7c1e-3c1d-4d7e-9a55-1f0d2e3c4b5a")

func day(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

var (
	food = &category.Category{ID: uuid.New(), Name: "Food", Icon: "🍜", Color: "#ff8800", Type: category.TypeExpense}

	txs = []*transaction.Transaction{
		{
			ID:            uuid.New(),
			Date:          day("2024-06-05"),
			Type:          transaction.TypeExpense,
			CategoryID:    food.ID,
			Amount:        decimal.RequireFromString("45000"),
			PaymentMethod: transaction.PaymentCash,
			Note:          "Nasi goreng, extra egg",
			Tags:          []string{"lunch"},
		},
		{
			ID:            uuid.New(),
			Date:          day("2024-06-01"),
			Type:          transaction.TypeIncome,
			CategoryID:    uuid.New(), // deleted category
			Amount:        decimal.RequireFromString("8500000.5"),
			PaymentMethod: transaction.PaymentBank,
			Note:          "Salary",
		},
	}
)

func TestFileNames(t *testing.T) {
	now := time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "financeflow-export-2024-06-30.json", export.JSONFileName(now))
	assert.Equal(t, "transactions-2024-06-30.csv", export.CSVFileName(now))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteCSV(&buf, txs, []*category.Category{food}))

	want := "Date,Type,Category,Amount,Note,Payment Method\n" +
		"2024-06-05,expense,Food,45000.00,\"Nasi goreng, extra egg\",cash\n" +
		"2024-06-01,income,,8500000.50,Salary,bank\n"

	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_ImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteCSV(&buf, txs, []*category.Category{food}))

	st, err := importer.Parse(&buf)
	require.NoError(t, err)

	assert.Equal(t, importer.FormatFinanceflow, st.Format)
	require.Len(t, st.Rows, len(txs))

	for i, row := range st.Rows {
		tx := txs[i]
		assert.Equal(t, tx.Date, row.Date)
		assert.Equal(t, tx.Type, row.Type)
		assert.True(t, tx.Amount.Equal(row.Amount), "row %d amount", i)
		assert.Equal(t, tx.Note, row.Note)
		assert.Equal(t, tx.PaymentMethod, row.PaymentMethod)
	}

	assert.Equal(t, "Food", st.Rows[0].Category)
	assert.Empty(t, st.Rows[1].Category)
}

func TestWriteJSON(t *testing.T) {
	due := day("2024-06-10")
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	snap := &export.Snapshot{
		Profile:      &profile.Profile{Currency: "IDR", InitialBalance: decimal.NewFromInt(1000000)},
		Transactions: txs,
		Budgets:      []*budget.Budget{{ID: uuid.New(), CategoryID: food.ID, Amount: decimal.NewFromInt(500000), Month: "2024-06"}},
		Todos:        []*todo.Todo{{ID: uuid.New(), Title: "Pay rent", Priority: todo.PriorityHigh, Status: todo.StatusActive, DueDate: &due}},
		Categories:   []*category.Category{food},
	}

	var buf bytes.Buffer

	require.NoError(t, export.WriteJSON(&buf, snap, now))

	var doc struct {
		Transactions []map[string]any `json:"transactions"`
		Budgets      []map[string]any `json:"budgets"`
		Todos        []map[string]any `json:"todos"`
		Categories   []map[string]any `json:"categories"`
		Settings     map[string]any   `json:"settings"`
		ExportedAt   time.Time        `json:"exportedAt"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Transactions, 2)
	assert.Equal(t, "2024-06-05", doc.Transactions[0]["date"])
	assert.Equal(t, "Food", doc.Transactions[0]["category"])
	assert.Equal(t, "45000", doc.Transactions[0]["amount"])
	assert.Equal(t, []any{"lunch"}, doc.Transactions[0]["tags"])
	assert.Equal(t, []any{}, doc.Transactions[1]["tags"])

	require.Len(t, doc.Budgets, 1)
	assert.Equal(t, "2024-06", doc.Budgets[0]["month"])

	require.Len(t, doc.Todos, 1)
	assert.Equal(t, "2024-06-10", doc.Todos[0]["dueDate"])

	require.Len(t, doc.Categories, 1)
	assert.Equal(t, "IDR", doc.Settings["currency"])
	assert.Equal(t, "1000000", doc.Settings["initialBalance"])
	assert.True(t, now.Equal(doc.ExportedAt))
}

func TestWriteJSON_EmptySnapshot(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteJSON(&buf, &export.Snapshot{}, time.Now()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, []any{}, doc["transactions"])
	assert.Equal(t, []any{}, doc["todos"])
	assert.Equal(t, profile.DefaultCurrency, doc["settings"].(map[string]any)["currency"])
}

type mocks struct {
	txs        *export.MockTransactions
	budgets    *export.MockBudgets
	todos      *export.MockTodos
	categories *export.MockCategories
	profiles   *export.MockProfiles
}

func newService(t *testing.T) (*export.Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		txs:        export.NewMockTransactions(ctrl),
		budgets:    export.NewMockBudgets(ctrl),
		todos:      export.NewMockTodos(ctrl),
		categories: export.NewMockCategories(ctrl),
		profiles:   export.NewMockProfiles(ctrl),
	}

	return export.NewService(m.txs, m.budgets, m.todos, m.categories, m.profiles), m
}

func TestService_Snapshot(t *testing.T) {
	t.Run("loads every collection", func(t *testing.T) {
		svc, m := newService(t)

		p := &profile.Profile{ID: userID, Currency: "USD"}

		m.txs.EXPECT().List(gomock.Any(), userID, transaction.ListFilter{}).Return(txs, nil)
		m.budgets.EXPECT().List(gomock.Any(), userID, nil).Return(nil, nil)
		m.todos.EXPECT().List(gomock.Any(), userID).Return(nil, nil)
		m.categories.EXPECT().List(gomock.Any(), userID).Return([]*category.Category{food}, nil)
		m.profiles.EXPECT().Get(gomock.Any(), userID).Return(p, nil)

		snap, err := svc.Snapshot(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, txs, snap.Transactions)
		assert.Equal(t, []*category.Category{food}, snap.Categories)
		assert.Equal(t, p, snap.Profile)
	})

	t.Run("missing profile is not an error", func(t *testing.T) {
		svc, m := newService(t)

		m.txs.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, nil)
		m.budgets.EXPECT().List(gomock.Any(), userID, nil).Return(nil, nil)
		m.todos.EXPECT().List(gomock.Any(), userID).Return(nil, nil)
		m.categories.EXPECT().List(gomock.Any(), userID).Return(nil, nil)
		m.profiles.EXPECT().Get(gomock.Any(), userID).Return(nil, profile.ErrNotFound)

		snap, err := svc.Snapshot(context.Background(), userID)
		require.NoError(t, err)
		assert.Nil(t, snap.Profile)
	})

	t.Run("any failure fails the export", func(t *testing.T) {
		svc, m := newService(t)
		boom := errors.New("db down")

		m.txs.EXPECT().List(gomock.Any(), userID, gomock.Any()).Return(nil, nil).AnyTimes()
		m.budgets.EXPECT().List(gomock.Any(), userID, nil).Return(nil, boom)
		m.todos.EXPECT().List(gomock.Any(), userID).Return(nil, nil).AnyTimes()
		m.categories.EXPECT().List(gomock.Any(), userID).Return(nil, nil).AnyTimes()
		m.profiles.EXPECT().Get(gomock.Any(), userID).Return(nil, nil).AnyTimes()

		_, err := svc.Snapshot(context.Background(), userID)
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_Transactions(t *testing.T) {
	svc, m := newService(t)

	m.txs.EXPECT().List(gomock.Any(), userID, transaction.ListFilter{}).Return(txs, nil)
	m.categories.EXPECT().List(gomock.Any(), userID).Return([]*category.Category{food}, nil)

	gotTxs, gotCats, err := svc.Transactions(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, txs, gotTxs)
	assert.Equal(t, []*category.Category{food}, gotCats)
}
