package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var userID = uuid.MustParse("5b1f7c1e-3c1d-4d7e-9a55-1f0d2e3c4b5a")

type mocks struct {
	txs        *importer.MockTransactions
	categories *importer.MockCategories
	suggester  *importer.MockSuggester
}

func newService(t *testing.T) (*importer.Service, mocks) {
	ctrl := gomock.NewController(t)

	m := mocks{
		txs:        importer.NewMockTransactions(ctrl),
		categories: importer.NewMockCategories(ctrl),
		suggester:  importer.NewMockSuggester(ctrl),
	}

	return importer.NewService(m.txs, m.categories, m.suggester), m
}

const exportCSV = `Date,Type,Category,Amount,Note,Payment Method
2024-06-05,expense,food,45000.00,Nasi goreng,cash
2024-06-06,expense,Gadgets,120000.00,Grab ride,e-wallet
2024-06-07,expense,,15000.00,Kopi,cash
`

func TestService_Import(t *testing.T) {
	food := &category.Category{ID: uuid.New(), Name: "Food"}
	transport := uuid.New()

	svc, m := newService(t)

	m.categories.EXPECT().List(gomock.Any(), userID).Return([]*category.Category{food}, nil)
	m.suggester.EXPECT().Suggest(gomock.Any(), userID, "Grab ride").Return(transport, nil)
	m.suggester.EXPECT().Suggest(gomock.Any(), userID, "Kopi").Return(uuid.Nil, errors.New("timeout"))

	m.txs.EXPECT().ImportBatch(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			require.Len(t, params, 3)
			assert.Equal(t, food.ID, params[0].CategoryID, "names resolve case-insensitively")
			assert.Equal(t, transport, params[1].CategoryID, "unknown names fall back to a suggestion")
			assert.Equal(t, uuid.Nil, params[2].CategoryID, "failed suggestions leave the row uncategorized")
			assert.Equal(t, transaction.PaymentEWallet, params[1].PaymentMethod)

			return &transaction.ImportResult{Imported: make([]*transaction.Transaction, len(params))}, nil
		})

	res, err := svc.Import(context.Background(), userID, strings.NewReader(exportCSV))
	require.NoError(t, err)

	assert.Equal(t, importer.FormatFinanceflow, res.Format)
	assert.Len(t, res.Imported, 3)
	assert.Empty(t, res.Conflicts)
}

func TestService_Import_Conflicts(t *testing.T) {
	svc, m := newService(t)

	conflict := transaction.Conflict{Existing: &transaction.Transaction{ID: uuid.New()}}

	m.categories.EXPECT().List(gomock.Any(), userID).Return(nil, nil)
	m.suggester.EXPECT().Suggest(gomock.Any(), userID, gomock.Any()).Return(uuid.Nil, nil).Times(3)
	m.txs.EXPECT().ImportBatch(gomock.Any(), userID, gomock.Any()).
		Return(&transaction.ImportResult{Conflicts: []transaction.Conflict{conflict}}, nil)

	res, err := svc.Import(context.Background(), userID, strings.NewReader(exportCSV))
	require.NoError(t, err)
	assert.Empty(t, res.Imported)
	assert.Len(t, res.Conflicts, 1)
}

func TestService_Import_Errors(t *testing.T) {
	t.Run("unreadable file never reaches the store", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Import(context.Background(), userID, strings.NewReader("nothing,useful\n"))
		assert.ErrorIs(t, err, importer.ErrInvalid)
	})

	t.Run("category lookup failure", func(t *testing.T) {
		svc, m := newService(t)
		boom := errors.New("db down")

		m.categories.EXPECT().List(gomock.Any(), userID).Return(nil, boom)

		_, err := svc.Import(context.Background(), userID, strings.NewReader(exportCSV))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid rows are reported", func(t *testing.T) {
		svc, m := newService(t)

		m.categories.EXPECT().List(gomock.Any(), userID).Return(nil, nil)
		m.suggester.EXPECT().Suggest(gomock.Any(), userID, gomock.Any()).Return(uuid.Nil, nil).AnyTimes()
		m.txs.EXPECT().ImportBatch(gomock.Any(), userID, gomock.Any()).Return(nil, transaction.ErrInvalid)

		_, err := svc.Import(context.Background(), userID, strings.NewReader(exportCSV))
		assert.ErrorIs(t, err, transaction.ErrInvalid)
	})
}

func TestService_Confirm(t *testing.T) {
	svc, m := newService(t)

	params := []transaction.CreateParams{{Note: "Kopi"}}
	stored := []*transaction.Transaction{{ID: uuid.New(), Note: "Kopi"}}

	m.txs.EXPECT().CreateBatch(gomock.Any(), userID, params).Return(stored, nil)

	got, err := svc.Confirm(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}
