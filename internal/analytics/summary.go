package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

// HealthySavingsRate is the savings rate, in percent, from which saving is considered good.
var HealthySavingsRate = decimal.NewFromInt(20)

type MonthPoint struct {
	Month   period.Month    `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
}

// MonthlyTrend returns income, expense and savings for the last n months that have any
// transactions, oldest first.
func MonthlyTrend(txs []*transaction.Transaction, n int) []MonthPoint {
	byMonth := make(map[period.Month]*MonthPoint)

	for _, tx := range txs {
		if tx == nil {
			continue
		}

		m := tx.Month()

		p, ok := byMonth[m]
		if !ok {
			p = &MonthPoint{Month: m, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[m] = p
		}

		switch tx.Type {
		case transaction.TypeIncome:
			p.Income = p.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			p.Expense = p.Expense.Add(tx.Amount)
		}
	}

	out := make([]MonthPoint, 0, len(byMonth))
	for _, p := range byMonth {
		p.Savings = p.Income.Sub(p.Expense)
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}

	return out
}

type BudgetSummary struct {
	TotalBudget decimal.Decimal `json:"totalBudget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	Remaining   decimal.Decimal `json:"remaining"`
	UsedPercent decimal.Decimal `json:"usedPercent"`
	OnTrack     int             `json:"onTrack"`
	OverBudget  int             `json:"overBudget"`
}

func SummarizeBudgets(bva []BudgetActual) BudgetSummary {
	s := BudgetSummary{
		TotalBudget: money.Sum(bva, func(b BudgetActual) decimal.Decimal { return b.BudgetAmount }),
		TotalSpent:  money.Sum(bva, func(b BudgetActual) decimal.Decimal { return b.ActualAmount }),
	}

	for _, b := range bva {
		if b.Over() {
			s.OverBudget++
		} else {
			s.OnTrack++
		}
	}

	s.Remaining = s.TotalBudget.Sub(s.TotalSpent)
	s.UsedPercent = money.Percent(s.TotalSpent, s.TotalBudget)

	return s
}

type DashboardSummary struct {
	TotalBalance      decimal.Decimal `json:"totalBalance"`
	MonthlyIncome     decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpense    decimal.Decimal `json:"monthlyExpense"`
	TotalBudget       decimal.Decimal `json:"totalBudget"`
	BudgetRemaining   decimal.Decimal `json:"budgetRemaining"`
	BudgetUsedPercent decimal.Decimal `json:"budgetUsedPercent"`
}

// Dashboard combines the all-time balance with the month's flow and budget usage.
func Dashboard(txs []*transaction.Transaction, bva []BudgetActual, initialBalance decimal.Decimal, month period.Month) DashboardSummary {
	balance := initialBalance

	for _, tx := range txs {
		if tx == nil {
			continue
		}

		switch tx.Type {
		case transaction.TypeIncome:
			balance = balance.Add(tx.Amount)
		case transaction.TypeExpense:
			balance = balance.Sub(tx.Amount)
		}
	}

	totals := MonthlyTotals(txs, month)
	budgets := SummarizeBudgets(bva)

	return DashboardSummary{
		TotalBalance:      balance,
		MonthlyIncome:     totals.Income,
		MonthlyExpense:    totals.Expense,
		TotalBudget:       budgets.TotalBudget,
		BudgetRemaining:   budgets.Remaining,
		BudgetUsedPercent: budgets.UsedPercent,
	}
}

type InsightSummary struct {
	SavingsRate  decimal.Decimal `json:"savingsRate"`
	Healthy      bool            `json:"healthy"`
	NetFlow      decimal.Decimal `json:"netFlow"`
	OverBudget   []BudgetActual  `json:"overBudget"`
	TopSpending  *CategoryAmount `json:"topSpending"`
	MonthlyFlows Totals          `json:"monthlyFlows"`
}

func Insights(txs []*transaction.Transaction, bva []BudgetActual, breakdown []CategoryAmount, month period.Month) InsightSummary {
	totals := MonthlyTotals(txs, month)
	rate := SavingsRate(totals.Income, totals.Expense)

	out := InsightSummary{
		SavingsRate:  rate,
		Healthy:      rate.GreaterThanOrEqual(HealthySavingsRate),
		NetFlow:      totals.Net(),
		OverBudget:   OverBudgetCategories(bva),
		MonthlyFlows: totals,
	}

	if top, ok := TopSpendingCategory(breakdown); ok {
		out.TopSpending = &top
	}

	return out
}

type GoalSummary struct {
	Total       int             `json:"total"`
	Active      int             `json:"active"`
	Completed   int             `json:"completed"`
	TotalSaved  decimal.Decimal `json:"totalSaved"`
	TotalTarget decimal.Decimal `json:"totalTarget"`
	Progress    decimal.Decimal `json:"progress"`
}

func GoalStats(goals []*goal.Goal) GoalSummary {
	s := GoalSummary{
		TotalSaved:  money.Sum(goals, goalAmount(func(g *goal.Goal) decimal.Decimal { return g.CurrentAmount })),
		TotalTarget: money.Sum(goals, goalAmount(func(g *goal.Goal) decimal.Decimal { return g.TargetAmount })),
	}

	for _, g := range goals {
		if g == nil {
			continue
		}

		s.Total++

		if g.Completed() {
			s.Completed++
		} else {
			s.Active++
		}
	}

	s.Progress = money.Percent(s.TotalSaved, s.TotalTarget)

	return s
}

// goalAmount skips nil goals.
func goalAmount(amount func(*goal.Goal) decimal.Decimal) func(*goal.Goal) decimal.Decimal {
	return func(g *goal.Goal) decimal.Decimal {
		if g == nil {
			return decimal.Zero
		}

		return amount(g)
	}
}

type RecurringSummary struct {
	Total          int             `json:"total"`
	Active         int             `json:"active"`
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
	MonthlyExpense decimal.Decimal `json:"monthlyExpense"`
}

// RecurringStats counts items and sums the active monthly ones per direction.
func RecurringStats(items []*recurring.Item) RecurringSummary {
	s := RecurringSummary{MonthlyIncome: decimal.Zero, MonthlyExpense: decimal.Zero}

	for _, it := range items {
		if it == nil {
			continue
		}

		s.Total++

		if !it.IsActive {
			continue
		}

		s.Active++

		if it.Interval != recurring.IntervalMonthly {
			continue
		}

		switch it.Type {
		case transaction.TypeIncome:
			s.MonthlyIncome = s.MonthlyIncome.Add(it.Amount)
		case transaction.TypeExpense:
			s.MonthlyExpense = s.MonthlyExpense.Add(it.Amount)
		}
	}

	return s
}
