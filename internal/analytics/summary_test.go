package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/financeflow/internal/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

func TestMonthlyTrend(t *testing.T) {
	var txs []*transaction.Transaction

	for m := 1; m <= 8; m++ {
		date := time.Date(2024, time.Month(m), 10, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
		txs = append(txs, income(date, "1000"), expense(date, food, "400"))
	}

	got := analytics.MonthlyTrend(txs, 6)
	require.Len(t, got, 6)
	assert.Equal(t, period.Month("2024-03"), got[0].Month)
	assert.Equal(t, period.Month("2024-08"), got[5].Month)

	for _, p := range got {
		assert.True(t, dec("600").Equal(p.Savings))
	}

	assert.Empty(t, analytics.MonthlyTrend(nil, 6))
}

func TestSummarizeBudgets(t *testing.T) {
	bva := []analytics.BudgetActual{
		{BudgetAmount: dec("400"), ActualAmount: dec("550")},
		{BudgetAmount: dec("100"), ActualAmount: dec("100")},
		{BudgetAmount: dec("500"), ActualAmount: dec("150")},
	}

	s := analytics.SummarizeBudgets(bva)
	assert.True(t, dec("1000").Equal(s.TotalBudget))
	assert.True(t, dec("800").Equal(s.TotalSpent))
	assert.True(t, dec("200").Equal(s.Remaining))
	assert.True(t, dec("80").Equal(s.UsedPercent))
	assert.Equal(t, 2, s.OnTrack)
	assert.Equal(t, 1, s.OverBudget)

	empty := analytics.SummarizeBudgets(nil)
	assert.True(t, empty.UsedPercent.IsZero())
	assert.True(t, empty.TotalBudget.IsZero())
	assert.True(t, empty.Remaining.IsZero())
}

func TestDashboard(t *testing.T) {
	txs, budgets := scenario()
	txs = append(txs, income("2024-05-01", "200"), expense("2024-05-02", transport, "50"))

	bva := analytics.BudgetVsActual(budgets, txs, categories(), june)
	d := analytics.Dashboard(txs, bva, dec("100"), june)

	// 100 + (1000 + 200) - (550 + 50)
	assert.True(t, dec("700").Equal(d.TotalBalance))
	assert.True(t, dec("1000").Equal(d.MonthlyIncome))
	assert.True(t, dec("550").Equal(d.MonthlyExpense))
	assert.True(t, dec("400").Equal(d.TotalBudget))
	assert.True(t, dec("-150").Equal(d.BudgetRemaining))
}

func TestInsights(t *testing.T) {
	txs, budgets := scenario()
	bva := analytics.BudgetVsActual(budgets, txs, categories(), june)
	breakdown := analytics.CategoryBreakdown(txs, categories(), june)

	in := analytics.Insights(txs, bva, breakdown, june)
	assert.True(t, dec("45").Equal(in.SavingsRate))
	assert.True(t, in.Healthy)
	assert.True(t, dec("450").Equal(in.NetFlow))
	assert.Len(t, in.OverBudget, 1)
	require.NotNil(t, in.TopSpending)
	assert.Equal(t, "Food", in.TopSpending.Name)

	empty := analytics.Insights(nil, nil, nil, june)
	assert.Nil(t, empty.TopSpending)
	assert.True(t, empty.SavingsRate.IsZero())
	assert.False(t, empty.Healthy)
}

func TestGoalStats(t *testing.T) {
	done := time.Now()

	goals := []*goal.Goal{
		{TargetAmount: dec("1000"), CurrentAmount: dec("250")},
		{TargetAmount: dec("500"), CurrentAmount: dec("500"), CompletedAt: &done},
		nil,
	}

	s := analytics.GoalStats(goals)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Completed)
	assert.True(t, dec("750").Equal(s.TotalSaved))
	assert.True(t, dec("1500").Equal(s.TotalTarget))
	assert.True(t, dec("50").Equal(s.Progress))
}

func TestRecurringStats(t *testing.T) {
	items := []*recurring.Item{
		{Type: transaction.TypeIncome, Amount: dec("3000"), Interval: recurring.IntervalMonthly, IsActive: true},
		{Type: transaction.TypeExpense, Amount: dec("30"), Interval: recurring.IntervalMonthly, IsActive: true},
		{Type: transaction.TypeExpense, Amount: dec("5"), Interval: recurring.IntervalWeekly, IsActive: true},
		{Type: transaction.TypeExpense, Amount: dec("99"), Interval: recurring.IntervalMonthly, IsActive: false},
	}

	s := analytics.RecurringStats(items)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Active)
	assert.True(t, dec("3000").Equal(s.MonthlyIncome))
	assert.True(t, dec("30").Equal(s.MonthlyExpense))
}

func TestMemo(t *testing.T) {
	txs, _ := scenario()
	calls := 0

	var memo analytics.Memo[analytics.Totals]

	compute := func() analytics.Totals {
		calls++
		return analytics.MonthlyTotals(txs, june)
	}

	first := memo.Get(compute, txs, june)
	second := memo.Get(compute, txs, june)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	memo.Get(compute, txs, period.Month("2024-07"))
	assert.Equal(t, 2, calls)

	txs = append([]*transaction.Transaction{}, txs...)
	memo.Get(compute, txs, period.Month("2024-07"))
	assert.Equal(t, 3, calls, "a new backing array is a new input")

	memo.Reset()
	memo.Get(compute, txs, period.Month("2024-07"))
	assert.Equal(t, 4, calls)
}
