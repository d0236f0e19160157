package analytics_test

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financeflow/internal/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

const june = period.Month("2024-06")

var (
	food      = uuid.MustParse("00000000-0000-0000-0000-00000000f00d")
	transport = uuid.MustParse("00000000-0000-0000-0000-0000000000b5")
	deleted   = uuid.MustParse("00000000-0000-0000-0000-0000000000de")
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func income(date, amount string) *transaction.Transaction {
	return &transaction.Transaction{Date: day(date), Type: transaction.TypeIncome, Amount: dec(amount)}
}

func expense(date string, cat uuid.UUID, amount string) *transaction.Transaction {
	return &transaction.Transaction{Date: day(date), Type: transaction.TypeExpense, CategoryID: cat, Amount: dec(amount)}
}

func categories() []*category.Category {
	return []*category.Category{
		{ID: food, Name: "Food", Icon: "utensils"},
		{ID: transport, Name: "Transport", Icon: "car"},
	}
}

func scenario() ([]*transaction.Transaction, []*budget.Budget) {
	txs := []*transaction.Transaction{
		income("2024-06-01", "1000"),
		expense("2024-06-05", food, "300"),
		expense("2024-06-10", food, "250"),
	}

	budgets := []*budget.Budget{{CategoryID: food, Amount: dec("400"), Month: june}}

	return txs, budgets
}

func TestScenario_FoodOverBudget(t *testing.T) {
	txs, budgets := scenario()

	totals := analytics.MonthlyTotals(txs, june)
	assert.True(t, dec("1000").Equal(totals.Income))
	assert.True(t, dec("550").Equal(totals.Expense))

	bva := analytics.BudgetVsActual(budgets, txs, categories(), june)
	require.Len(t, bva, 1)
	assert.Equal(t, food, bva[0].CategoryID)
	assert.True(t, dec("400").Equal(bva[0].BudgetAmount))
	assert.True(t, dec("550").Equal(bva[0].ActualAmount))

	over := analytics.OverBudgetCategories(bva)
	assert.Equal(t, bva, over)
}

func TestScenario_EmptyMonth(t *testing.T) {
	var txs []*transaction.Transaction

	breakdown := analytics.CategoryBreakdown(txs, categories(), june)
	assert.Empty(t, breakdown)
	assert.NotNil(t, breakdown)

	_, ok := analytics.TopSpendingCategory(breakdown)
	assert.False(t, ok)

	totals := analytics.MonthlyTotals(txs, june)
	assert.True(t, analytics.SavingsRate(totals.Income, totals.Expense).IsZero())
}

func TestScenario_DeletedCategory(t *testing.T) {
	txs := []*transaction.Transaction{
		expense("2024-06-03", deleted, "80"),
		expense("2024-06-04", uuid.Nil, "20"),
	}

	breakdown := analytics.CategoryBreakdown(txs, categories(), june)
	require.Len(t, breakdown, 2)
	assert.Equal(t, analytics.OtherCategory, breakdown[0].Name)
	assert.True(t, dec("80").Equal(breakdown[0].Amount))
	assert.Equal(t, analytics.OtherCategory, breakdown[1].Name)

	budgets := []*budget.Budget{{CategoryID: deleted, Amount: dec("50"), Month: june}}
	bva := analytics.BudgetVsActual(budgets, txs, categories(), june)
	require.Len(t, bva, 1)
	assert.Equal(t, analytics.UnknownCategory, bva[0].Name)
	assert.True(t, dec("80").Equal(bva[0].ActualAmount))
}

func TestMonthlyTotals_NetMatchesSavingsRateInput(t *testing.T) {
	txs := []*transaction.Transaction{
		income("2024-06-01", "2500"),
		income("2024-05-30", "999"),
		expense("2024-06-02", food, "700"),
		expense("2024-06-30", transport, "300"),
		expense("2024-07-01", food, "5000"),
		nil,
	}

	totals := analytics.MonthlyTotals(txs, june)
	assert.True(t, dec("1500").Equal(totals.Net()))

	rate := analytics.SavingsRate(totals.Income, totals.Expense)
	assert.True(t, totals.Net().Div(totals.Income).Mul(decimal.NewFromInt(100)).Equal(rate))
	assert.True(t, dec("60").Equal(rate))
}

func TestMonthlyTotals_NoMatches(t *testing.T) {
	txs := []*transaction.Transaction{income("2023-01-01", "10")}

	totals := analytics.MonthlyTotals(txs, "2099-12")
	assert.True(t, totals.Income.IsZero())
	assert.True(t, totals.Expense.IsZero())
}

func TestCategoryBreakdown_SortedDescendingStable(t *testing.T) {
	c := uuid.New()
	cats := append(categories(), &category.Category{ID: c, Name: "Fun"})

	txs := []*transaction.Transaction{
		expense("2024-06-01", transport, "100"),
		expense("2024-06-02", food, "40"),
		expense("2024-06-03", c, "100"),
		expense("2024-06-04", food, "60"),
		expense("2024-06-05", food, "0.5"),
		income("2024-06-06", "5000"),
	}

	got := analytics.CategoryBreakdown(txs, cats, june)
	require.Len(t, got, 3)

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Amount.GreaterThanOrEqual(got[i].Amount))
	}

	assert.Equal(t, "Food", got[0].Name)
	assert.True(t, dec("100.5").Equal(got[0].Amount))
	// Transport and Fun tie at 100; Transport was seen first.
	assert.Equal(t, "Transport", got[1].Name)
	assert.Equal(t, "Fun", got[2].Name)
	assert.Equal(t, "utensils", got[0].Icon)

	top, ok := analytics.TopSpendingCategory(got)
	require.True(t, ok)
	assert.Equal(t, got[0], top)
}

func TestBudgetVsActual(t *testing.T) {
	txs := []*transaction.Transaction{
		expense("2024-06-01", food, "120"),
		expense("2024-06-02", transport, "75"),
		expense("2024-05-20", food, "999"),
	}

	t.Run("DuplicateBudgetsAreSummed", func(t *testing.T) {
		budgets := []*budget.Budget{
			{CategoryID: food, Amount: dec("100"), Month: june},
			{CategoryID: food, Amount: dec("50"), Month: june},
		}

		got := analytics.BudgetVsActual(budgets, txs, categories(), june)
		require.Len(t, got, 1)
		assert.True(t, dec("150").Equal(got[0].BudgetAmount))
		assert.True(t, dec("120").Equal(got[0].ActualAmount))
		assert.False(t, got[0].Over())
	})

	t.Run("UnbudgetedSpendingExcluded", func(t *testing.T) {
		budgets := []*budget.Budget{{CategoryID: food, Amount: dec("100"), Month: june}}

		got := analytics.BudgetVsActual(budgets, txs, categories(), june)
		require.Len(t, got, 1)
		assert.Equal(t, food, got[0].CategoryID)
	})

	t.Run("OtherMonthsIgnored", func(t *testing.T) {
		budgets := []*budget.Budget{{CategoryID: food, Amount: dec("100"), Month: "2024-05"}, nil}

		assert.Empty(t, analytics.BudgetVsActual(budgets, txs, categories(), june))
	})

	t.Run("BudgetWithoutSpending", func(t *testing.T) {
		budgets := []*budget.Budget{{CategoryID: uuid.New(), Amount: dec("10"), Month: june}}

		got := analytics.BudgetVsActual(budgets, txs, categories(), june)
		require.Len(t, got, 1)
		assert.True(t, got[0].ActualAmount.IsZero())
	})
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name            string
		income, expense string
		want            string
	}{
		{name: "ZeroIncomePositiveExpense", income: "0", expense: "500", want: "0"},
		{name: "ZeroIncomeNegativeExpense", income: "0", expense: "-500", want: "0"},
		{name: "ZeroBoth", income: "0", expense: "0", want: "0"},
		{name: "NegativeIncome", income: "-10", expense: "0", want: "0"},
		{name: "Quarter", income: "400", expense: "300", want: "25"},
		{name: "Overspent", income: "100", expense: "150", want: "-50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analytics.SavingsRate(dec(tt.income), dec(tt.expense))
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestOverBudgetCategories_EqualIsOnTrack(t *testing.T) {
	bva := []analytics.BudgetActual{
		{Name: "exact", BudgetAmount: dec("100"), ActualAmount: dec("100.00")},
		{Name: "over", BudgetAmount: dec("100"), ActualAmount: dec("100.01")},
		{Name: "under", BudgetAmount: dec("100"), ActualAmount: dec("99")},
	}

	over := analytics.OverBudgetCategories(bva)
	require.Len(t, over, 1)
	assert.Equal(t, "over", over[0].Name)

	for _, b := range over {
		assert.False(t, b.ActualAmount.Equal(b.BudgetAmount))
	}

	assert.Empty(t, analytics.OverBudgetCategories(nil))
}

func TestAggregations_DoNotMutateInputs(t *testing.T) {
	txs, budgets := scenario()
	txs = append(txs, expense("2024-06-11", transport, "900"))
	cats := categories()

	txsBefore := slices.Clone(txs)
	firstTx := *txs[0]
	budgetsBefore := *budgets[0]
	catsBefore := slices.Clone(cats)

	breakdown1 := analytics.CategoryBreakdown(txs, cats, june)
	bva1 := analytics.BudgetVsActual(budgets, txs, cats, june)
	totals1 := analytics.MonthlyTotals(txs, june)
	trend1 := analytics.MonthlyTrend(txs, 6)

	breakdown2 := analytics.CategoryBreakdown(txs, cats, june)
	bva2 := analytics.BudgetVsActual(budgets, txs, cats, june)
	totals2 := analytics.MonthlyTotals(txs, june)
	trend2 := analytics.MonthlyTrend(txs, 6)

	assert.Equal(t, breakdown1, breakdown2)
	assert.Equal(t, bva1, bva2)
	assert.Equal(t, totals1, totals2)
	assert.Equal(t, trend1, trend2)
	assert.Equal(t, analytics.OverBudgetCategories(bva1), analytics.OverBudgetCategories(bva2))

	assert.Equal(t, txsBefore, txs)
	assert.Equal(t, firstTx, *txs[0])
	assert.Equal(t, budgetsBefore, *budgets[0])
	assert.Equal(t, catsBefore, cats)
}

func TestCoercedAmountsFeedAggregation(t *testing.T) {
	// Rows straight from the gateway: numeric text, NULL and garbage.
	raw := []any{"300.00", nil, "n/a", 250}

	var txs []*transaction.Transaction
	for _, v := range raw {
		txs = append(txs, &transaction.Transaction{
			Date:       day("2024-06-15"),
			Type:       transaction.TypeExpense,
			CategoryID: food,
			Amount:     money.Coerce(v),
		})
	}

	totals := analytics.MonthlyTotals(txs, june)
	assert.True(t, dec("550").Equal(totals.Expense))
}
