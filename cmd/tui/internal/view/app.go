package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/categorize"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/export"
	"github.com/MrJamesThe3rd/financeflow/internal/gate"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/resource"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var errNoUser = errors.New("not signed in")

type Services struct {
	Transactions *transaction.Service
	Categories   *category.Service
	Budgets      *budget.Service
	Goals        *goal.Service
	Todos        *todo.Service
	Recurring    *recurring.Service
	Profiles     *profile.Service
	Categorize   *categorize.Service
	Import       *importer.Service
	Export       *export.Service
}

// App is the context every screen shares: the gate, the services and one cached collection
// per entity. It is built once in main and disposed with Close.
type App struct {
	Gate *gate.Gate
	Svc  Services
	Loc  *time.Location

	Transactions *resource.Collection[*transaction.Transaction]
	Categories   *resource.Collection[*category.Category]
	Budgets      *resource.Collection[*budget.Budget]
	Goals        *resource.Collection[*goal.Goal]
	Todos        *resource.Collection[*todo.Todo]
	Recurring    *resource.Collection[*recurring.Item]

	toasts *Toasts

	mu      sync.Mutex
	profile *profile.Profile
}

func NewApp(g *gate.Gate, svc Services, loc *time.Location) *App {
	a := &App{Gate: g, Svc: svc, Loc: loc, toasts: &Toasts{}}

	a.Transactions = resource.NewCollection("transactions", userLoader(a, func(ctx context.Context, id uuid.UUID) ([]*transaction.Transaction, error) {
		return svc.Transactions.List(ctx, id, transaction.ListFilter{})
	}), func(t *transaction.Transaction) uuid.UUID { return t.ID }, a.toasts)

	a.Categories = resource.NewCollection("categories", userLoader(a, svc.Categories.List),
		func(c *category.Category) uuid.UUID { return c.ID }, a.toasts)

	a.Budgets = resource.NewCollection("budgets", userLoader(a, func(ctx context.Context, id uuid.UUID) ([]*budget.Budget, error) {
		return svc.Budgets.List(ctx, id, nil)
	}), func(b *budget.Budget) uuid.UUID { return b.ID }, a.toasts)

	a.Goals = resource.NewCollection("goals", userLoader(a, svc.Goals.List),
		func(g *goal.Goal) uuid.UUID { return g.ID }, a.toasts)

	a.Todos = resource.NewCollection("todos", userLoader(a, svc.Todos.List),
		func(t *todo.Todo) uuid.UUID { return t.ID }, a.toasts)

	a.Recurring = resource.NewCollection("recurring items", userLoader(a, svc.Recurring.List),
		func(i *recurring.Item) uuid.UUID { return i.ID }, a.toasts)

	return a
}

func userLoader[T any](a *App, list func(ctx context.Context, userID uuid.UUID) ([]T, error)) resource.Loader[T] {
	return func(ctx context.Context) ([]T, error) {
		id, ok := a.UserID()
		if !ok {
			return nil, errNoUser
		}

		return list(ctx, id)
	}
}

// UserID is the signed-in user, if any.
func (a *App) UserID() (uuid.UUID, bool) {
	s := a.Gate.Session()
	if s == nil {
		return uuid.Nil, false
	}

	return s.UserID, true
}

// Month is the current month in the configured zone.
func (a *App) Month() period.Month {
	return period.Current(time.Now(), a.Loc)
}

// Toast is the latest failure reported by a collection, or empty.
func (a *App) Toast() string {
	return a.toasts.Last()
}

// ProfileMsg reports that the signed-in profile was loaded.
type ProfileMsg struct {
	Err error
}

// ProfileCmd loads the profile of the signed-in user into the app.
func (a *App) ProfileCmd() tea.Cmd {
	return func() tea.Msg {
		id, ok := a.UserID()
		if !ok {
			return ProfileMsg{Err: errNoUser}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		p, err := a.Svc.Profiles.Get(ctx, id)
		if err != nil {
			return ProfileMsg{Err: err}
		}

		a.mu.Lock()
		a.profile = p
		a.mu.Unlock()

		return ProfileMsg{}
	}
}

// Currency is the profile currency, IDR until the profile is loaded.
func (a *App) Currency() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profile == nil || a.profile.Currency == "" {
		return profile.DefaultCurrency
	}

	return a.profile.Currency
}

func (a *App) InitialBalance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.profile == nil {
		return decimal.Zero
	}

	return a.profile.InitialBalance
}

// Money formats amount in the profile currency.
func (a *App) Money(amount decimal.Decimal) string {
	return FormatMoney(amount, a.Currency())
}

// Close disposes the collections and the gate. Late results are dropped.
func (a *App) Close() {
	a.Transactions.Close()
	a.Categories.Close()
	a.Budgets.Close()
	a.Goals.Close()
	a.Todos.Close()
	a.Recurring.Close()
	a.Gate.Close()
}

type fetcher interface {
	Fetch(ctx context.Context) error
}

// LoadedMsg reports that a batch of collection fetches finished.
type LoadedMsg struct {
	Err error
}

// FetchCmd reloads the given collections concurrently.
func FetchCmd(cs ...fetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		// A failed fetch must not cancel the others; each keeps its own last good rows.
		var g errgroup.Group
		for _, c := range cs {
			g.Go(func() error { return c.Fetch(ctx) })
		}

		return LoadedMsg{Err: g.Wait()}
	}
}

// Toasts keeps the last collection failure for the status line.
type Toasts struct {
	mu   sync.Mutex
	last string
	at   time.Time
}

const toastTTL = 8 * time.Second

func (t *Toasts) Notify(action string, err error) {
	slog.Warn("collection request failed", "action", action, "error", err)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = err.Error()
	t.at = time.Now()
}

func (t *Toasts) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if time.Since(t.at) > toastTTL {
		return ""
	}

	return t.last
}
