package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

const (
	// BudgetWarningPercent is the share of a budget, in percent, that triggers a warning.
	BudgetWarningPercent = 80
	// BillReminderDays is how far ahead recurring items are announced.
	BillReminderDays = 3
)

// SweepInput is the user's current state the reminders are derived from.
type SweepInput struct {
	Now          time.Time
	Month        period.Month
	Transactions []*transaction.Transaction
	Budgets      []*budget.Budget
	Categories   []*category.Category
	Todos        []*todo.Todo
	Recurring    []*recurring.Item
	Goals        []*goal.Goal
}

type candidate struct {
	typ     Type
	ref     uuid.UUID
	title   string
	message string
	once    bool
}

// Sweep derives reminders from in and stores the ones not already sent. Budget, todo and
// bill reminders are sent at most once per reference per day; goal milestones once ever.
func (s *Service) Sweep(ctx context.Context, userID uuid.UUID, in SweepInput) ([]*Notification, error) {
	y, m, d := in.Now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, in.Now.Location())

	var created []*Notification

	for _, c := range candidates(in) {
		since := startOfDay
		if c.once {
			since = time.Time{}
		}

		exists, err := s.repo.Exists(ctx, userID, c.typ, c.ref, since)
		if err != nil {
			return created, fmt.Errorf("checking %s for %s: %w", c.typ, c.ref, err)
		}

		if exists {
			continue
		}

		ref := c.ref
		n := &Notification{
			UserID:      userID,
			Type:        c.typ,
			Title:       c.title,
			Message:     c.message,
			ReferenceID: &ref,
		}

		if err := s.repo.CreateNotification(ctx, n); err != nil {
			return created, fmt.Errorf("creating %s notification: %w", c.typ, err)
		}

		created = append(created, n)
	}

	if len(created) > 0 {
		slog.Info("notifications created", "user_id", userID, "count", len(created))
	}

	return created, nil
}

func candidates(in SweepInput) []candidate {
	var out []candidate

	warnAt := decimal.NewFromInt(BudgetWarningPercent)

	for _, b := range analytics.BudgetVsActual(in.Budgets, in.Transactions, in.Categories, in.Month) {
		used := b.UsedPercent()
		if used.LessThan(warnAt) {
			continue
		}

		msg := fmt.Sprintf("You have used %s%% of your %s budget.", used.Round(0).String(), b.Name)
		if b.Over() {
			msg = fmt.Sprintf("You are over your %s budget by %s.", b.Name, b.ActualAmount.Sub(b.BudgetAmount).StringFixed(2))
		}

		out = append(out, candidate{
			typ:     TypeBudgetWarning,
			ref:     b.CategoryID,
			title:   "Budget warning: " + b.Name,
			message: msg,
		})
	}

	for _, t := range in.Todos {
		if t == nil || !t.Overdue(in.Now) {
			continue
		}

		out = append(out, candidate{
			typ:     TypeTodoOverdue,
			ref:     t.ID,
			title:   "Overdue: " + t.Title,
			message: fmt.Sprintf("%q was due on %s.", t.Title, t.DueDate.Format(time.DateOnly)),
		})
	}

	for _, it := range in.Recurring {
		if it == nil || !it.DueWithin(in.Now, BillReminderDays) {
			continue
		}

		out = append(out, candidate{
			typ:     TypeBillReminder,
			ref:     it.ID,
			title:   "Upcoming: " + it.Name,
			message: fmt.Sprintf("%s of %s is due on %s.", it.Name, it.Amount.StringFixed(2), it.NextDate.Format(time.DateOnly)),
		})
	}

	for _, g := range in.Goals {
		if g == nil || !g.Completed() {
			continue
		}

		out = append(out, candidate{
			typ:     TypeGoalMilestone,
			ref:     g.ID,
			title:   "Goal reached: " + g.Name,
			message: fmt.Sprintf("You saved %s for %s.", g.CurrentAmount.StringFixed(2), g.Name),
			once:    true,
		})
	}

	return out
}
