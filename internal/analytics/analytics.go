// Package analytics derives display-ready aggregates from already loaded entity rows.
//
// Every function is pure: inputs are never mutated, nil rows are skipped, and empty or
// partially loaded inputs yield zero values instead of errors.
package analytics

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

const (
	// OtherCategory names spending whose category does not resolve.
	OtherCategory = "Other"
	// UnknownCategory names a budget whose category does not resolve.
	UnknownCategory = "Unknown"
)

type Totals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

func (t Totals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

type CategoryAmount struct {
	CategoryID uuid.UUID       `json:"categoryId"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Amount     decimal.Decimal `json:"amount"`
}

type BudgetActual struct {
	CategoryID   uuid.UUID       `json:"categoryId"`
	Name         string          `json:"name"`
	Icon         string          `json:"icon"`
	BudgetAmount decimal.Decimal `json:"budgetAmount"`
	ActualAmount decimal.Decimal `json:"actualAmount"`
}

// Over reports spending strictly above the budget; spending exactly the budget is on track.
func (b BudgetActual) Over() bool {
	return b.ActualAmount.GreaterThan(b.BudgetAmount)
}

func (b BudgetActual) Remaining() decimal.Decimal {
	return b.BudgetAmount.Sub(b.ActualAmount)
}

func (b BudgetActual) UsedPercent() decimal.Decimal {
	return money.Percent(b.ActualAmount, b.BudgetAmount)
}

// MonthlyTotals sums income and expense over the transactions dated in month.
func MonthlyTotals(txs []*transaction.Transaction, month period.Month) Totals {
	totals := Totals{Income: decimal.Zero, Expense: decimal.Zero}

	for _, tx := range txs {
		if tx == nil || !month.Contains(tx.Date) {
			continue
		}

		switch tx.Type {
		case transaction.TypeIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case transaction.TypeExpense:
			totals.Expense = totals.Expense.Add(tx.Amount)
		}
	}

	return totals
}

// monthlyExpenses sums expenses in month per category, remembering the order in which
// categories were first seen.
func monthlyExpenses(txs []*transaction.Transaction, month period.Month) (map[uuid.UUID]decimal.Decimal, []uuid.UUID) {
	sums := make(map[uuid.UUID]decimal.Decimal)

	var order []uuid.UUID

	for _, tx := range txs {
		if tx == nil || !tx.IsExpense() || !month.Contains(tx.Date) {
			continue
		}

		sum, seen := sums[tx.CategoryID]
		if !seen {
			order = append(order, tx.CategoryID)
		}

		sums[tx.CategoryID] = sum.Add(tx.Amount)
	}

	return sums, order
}

// CategoryBreakdown groups the month's expenses by category, largest first. Ties keep the
// order in which the categories first appear in txs. Unresolved categories are named Other.
func CategoryBreakdown(txs []*transaction.Transaction, categories []*category.Category, month period.Month) []CategoryAmount {
	sums, order := monthlyExpenses(txs, month)
	if len(order) == 0 {
		return []CategoryAmount{}
	}

	lookup := category.NewLookup(categories)

	out := make([]CategoryAmount, 0, len(order))
	for _, id := range order {
		out = append(out, CategoryAmount{
			CategoryID: id,
			Name:       lookup.Name(id, OtherCategory),
			Icon:       lookup.Icon(id),
			Amount:     sums[id],
		})
	}

	slices.SortStableFunc(out, func(a, b CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})

	return out
}

// BudgetVsActual pairs each budgeted category of month with the expenses recorded against
// it. Several budget rows for the same category are summed into one entry. Spending in
// categories without a budget is not reported.
func BudgetVsActual(budgets []*budget.Budget, txs []*transaction.Transaction, categories []*category.Category, month period.Month) []BudgetActual {
	lookup := category.NewLookup(categories)
	spent, _ := monthlyExpenses(txs, month)

	index := make(map[uuid.UUID]int)
	out := []BudgetActual{}

	for _, b := range budgets {
		if b == nil || b.Month != month {
			continue
		}

		if i, ok := index[b.CategoryID]; ok {
			out[i].BudgetAmount = out[i].BudgetAmount.Add(b.Amount)
			continue
		}

		actual, ok := spent[b.CategoryID]
		if !ok {
			actual = decimal.Zero
		}

		index[b.CategoryID] = len(out)
		out = append(out, BudgetActual{
			CategoryID:   b.CategoryID,
			Name:         lookup.Name(b.CategoryID, UnknownCategory),
			Icon:         lookup.Icon(b.CategoryID),
			BudgetAmount: b.Amount,
			ActualAmount: actual,
		})
	}

	return out
}

// SavingsRate is the share of income left after expenses, in percent. It is zero whenever
// income is not positive.
func SavingsRate(income, expense decimal.Decimal) decimal.Decimal {
	return money.Percent(income.Sub(expense), income)
}

// TopSpendingCategory returns the first entry of a sorted breakdown.
func TopSpendingCategory(breakdown []CategoryAmount) (CategoryAmount, bool) {
	if len(breakdown) == 0 {
		return CategoryAmount{}, false
	}

	return breakdown[0], true
}

func OverBudgetCategories(bva []BudgetActual) []BudgetActual {
	out := []BudgetActual{}

	for _, b := range bva {
		if b.Over() {
			out = append(out, b)
		}
	}

	return out
}
