package analytics_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	analyticsHandler "github.com/MrJamesThe3rd/financeflow/internal/http/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var (
	userID = uuid.MustParse("5b1f7c1e-3c1d-4d7e-9a55-1f0d2e3c4b5a")
	foodID = uuid.MustParse("9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d")
)

type mocks struct {
	txs        *transaction.MockRepository
	budgets    *budget.MockRepository
	categories *category.MockRepository
	profiles   *profile.MockRepository
	goals      *goal.MockRepository
	recurring  *recurring.MockRepository
}

func setup(t *testing.T) (http.Handler, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		txs:        transaction.NewMockRepository(ctrl),
		budgets:    budget.NewMockRepository(ctrl),
		categories: category.NewMockRepository(ctrl),
		profiles:   profile.NewMockRepository(ctrl),
		goals:      goal.NewMockRepository(ctrl),
		recurring:  recurring.NewMockRepository(ctrl),
	}

	h := analyticsHandler.NewHandler(analyticsHandler.Services{
		Transactions: transaction.NewService(m.txs),
		Budgets:      budget.NewService(m.budgets),
		Categories:   category.NewService(m.categories),
		Profiles:     profile.NewService(m.profiles),
		Goals:        goal.NewService(m.goals),
		Recurring:    recurring.NewService(m.recurring),
	}, time.UTC)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), &auth.Session{UserID: userID})))
		})
	})
	r.Route("/analytics", h.Routes)

	return r, m
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func TestHandler_Summary(t *testing.T) {
	h, m := setup(t)
	june := period.Month("2024-06")

	m.txs.EXPECT().ListTransactions(gomock.Any(), userID, gomock.Any()).Return([]*transaction.Transaction{
		{ID: uuid.New(), Date: day(2024, 6, 20), Type: transaction.TypeExpense, CategoryID: foodID, Amount: decimal.NewFromInt(150000)},
		{ID: uuid.New(), Date: day(2024, 6, 1), Type: transaction.TypeIncome, Amount: decimal.NewFromInt(5000000)},
		{ID: uuid.New(), Date: day(2024, 5, 28), Type: transaction.TypeExpense, CategoryID: foodID, Amount: decimal.NewFromInt(50000)},
	}, nil)
	m.budgets.EXPECT().ListBudgets(gomock.Any(), userID, &june).Return([]*budget.Budget{
		{ID: uuid.New(), CategoryID: foodID, Amount: decimal.NewFromInt(100000), Month: june},
	}, nil)
	m.categories.EXPECT().ListCategories(gomock.Any(), userID).Return([]*category.Category{
		{ID: foodID, Name: "Food", Type: category.TypeExpense},
	}, nil)
	m.profiles.EXPECT().GetProfile(gomock.Any(), userID).Return(&profile.Profile{
		ID: userID, InitialBalance: decimal.NewFromInt(1000000),
	}, nil)
	m.goals.EXPECT().ListGoals(gomock.Any(), userID).Return(nil, nil)
	m.recurring.EXPECT().ListItems(gomock.Any(), userID).Return(nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/summary?month=2024-06", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Month     string `json:"month"`
		Dashboard struct {
			TotalBalance   decimal.Decimal `json:"totalBalance"`
			MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
			MonthlyExpense decimal.Decimal `json:"monthlyExpense"`
		} `json:"dashboard"`
		Breakdown []struct {
			Name   string          `json:"name"`
			Amount decimal.Decimal `json:"amount"`
		} `json:"breakdown"`
		BudgetSummary struct {
			OverBudget int `json:"overBudget"`
		} `json:"budgetSummary"`
		Trend []struct {
			Month string `json:"month"`
		} `json:"trend"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "2024-06", got.Month)
	assert.True(t, decimal.NewFromInt(5800000).Equal(got.Dashboard.TotalBalance), got.Dashboard.TotalBalance.String())
	assert.True(t, decimal.NewFromInt(5000000).Equal(got.Dashboard.MonthlyIncome))
	assert.True(t, decimal.NewFromInt(150000).Equal(got.Dashboard.MonthlyExpense))

	require.Len(t, got.Breakdown, 1)
	assert.Equal(t, "Food", got.Breakdown[0].Name)
	assert.Equal(t, 1, got.BudgetSummary.OverBudget)

	require.Len(t, got.Trend, 2)
	assert.Equal(t, "2024-05", got.Trend[0].Month)
	assert.Equal(t, "2024-06", got.Trend[1].Month)
}

func TestHandler_SummaryMissingProfile(t *testing.T) {
	h, m := setup(t)

	m.txs.EXPECT().ListTransactions(gomock.Any(), userID, gomock.Any()).Return(nil, nil)
	m.budgets.EXPECT().ListBudgets(gomock.Any(), userID, gomock.Any()).Return(nil, nil)
	m.categories.EXPECT().ListCategories(gomock.Any(), userID).Return(nil, nil)
	m.profiles.EXPECT().GetProfile(gomock.Any(), userID).Return(nil, profile.ErrNotFound)
	m.goals.EXPECT().ListGoals(gomock.Any(), userID).Return(nil, nil)
	m.recurring.EXPECT().ListItems(gomock.Any(), userID).Return(nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/summary?month=2024-06", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_SummaryErrors(t *testing.T) {
	t.Run("invalid month", func(t *testing.T) {
		h, _ := setup(t)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/summary?month=June", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("failed load", func(t *testing.T) {
		h, m := setup(t)

		m.txs.EXPECT().ListTransactions(gomock.Any(), userID, gomock.Any()).Return(nil, errors.New("connection reset"))
		m.budgets.EXPECT().ListBudgets(gomock.Any(), userID, gomock.Any()).Return(nil, nil).AnyTimes()
		m.categories.EXPECT().ListCategories(gomock.Any(), userID).Return(nil, nil).AnyTimes()
		m.profiles.EXPECT().GetProfile(gomock.Any(), userID).Return(&profile.Profile{ID: userID}, nil).AnyTimes()
		m.goals.EXPECT().ListGoals(gomock.Any(), userID).Return(nil, nil).AnyTimes()
		m.recurring.EXPECT().ListItems(gomock.Any(), userID).Return(nil, nil).AnyTimes()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/summary?month=2024-06", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
