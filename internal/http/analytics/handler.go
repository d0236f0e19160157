package analytics

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/financeflow/internal/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/http/respond"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

// TrendMonths is how many months of history the summary trend covers.
const TrendMonths = 6

type Services struct {
	Transactions *transaction.Service
	Budgets      *budget.Service
	Categories   *category.Service
	Profiles     *profile.Service
	Goals        *goal.Service
	Recurring    *recurring.Service
}

type Handler struct {
	svc Services
	loc *time.Location
	now func() time.Time
}

func NewHandler(svc Services, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
}

type summaryResponse struct {
	Month          period.Month               `json:"month"`
	Dashboard      analytics.DashboardSummary `json:"dashboard"`
	Breakdown      []analytics.CategoryAmount `json:"breakdown"`
	BudgetVsActual []analytics.BudgetActual   `json:"budgetVsActual"`
	BudgetSummary  analytics.BudgetSummary    `json:"budgetSummary"`
	Trend          []analytics.MonthPoint     `json:"trend"`
	Insights       analytics.InsightSummary   `json:"insights"`
	Goals          analytics.GoalSummary      `json:"goals"`
	Recurring      analytics.RecurringSummary `json:"recurring"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	month := period.Current(h.now(), h.loc)

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := period.Parse(s)
		if err != nil {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}

		month = m
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)

	var (
		txs            []*transaction.Transaction
		budgets        []*budget.Budget
		categories     []*category.Category
		goals          []*goal.Goal
		items          []*recurring.Item
		initialBalance = decimal.Zero
	)

	// Aggregates are only computed once every collection has loaded.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		txs, err = h.svc.Transactions.List(gctx, userID, transaction.ListFilter{})
		return err
	})

	g.Go(func() (err error) {
		budgets, err = h.svc.Budgets.List(gctx, userID, &month)
		return err
	})

	g.Go(func() (err error) {
		categories, err = h.svc.Categories.List(gctx, userID)
		return err
	})

	g.Go(func() (err error) {
		goals, err = h.svc.Goals.List(gctx, userID)
		return err
	})

	g.Go(func() (err error) {
		items, err = h.svc.Recurring.List(gctx, userID)
		return err
	})

	g.Go(func() error {
		p, err := h.svc.Profiles.Get(gctx, userID)
		if errors.Is(err, profile.ErrNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		initialBalance = p.InitialBalance

		return nil
	})

	if err := g.Wait(); err != nil {
		respond.Error(w, r, err)
		return
	}

	bva := analytics.BudgetVsActual(budgets, txs, categories, month)
	breakdown := analytics.CategoryBreakdown(txs, categories, month)

	respond.JSON(w, http.StatusOK, summaryResponse{
		Month:          month,
		Dashboard:      analytics.Dashboard(txs, bva, initialBalance, month),
		Breakdown:      breakdown,
		BudgetVsActual: bva,
		BudgetSummary:  analytics.SummarizeBudgets(bva),
		Trend:          analytics.MonthlyTrend(txs, TrendMonths),
		Insights:       analytics.Insights(txs, bva, breakdown, month),
		Goals:          analytics.GoalStats(goals),
		Recurring:      analytics.RecurringStats(items),
	})
}
