package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export
type Transactions interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Budgets interface {
	List(ctx context.Context, userID uuid.UUID, month *period.Month) ([]*budget.Budget, error)
}

type Todos interface {
	List(ctx context.Context, userID uuid.UUID) ([]*todo.Todo, error)
}

type Categories interface {
	List(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

type Profiles interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.Profile, error)
}

type Service struct {
	transactions Transactions
	budgets      Budgets
	todos        Todos
	categories   Categories
	profiles     Profiles
}

func NewService(transactions Transactions, budgets Budgets, todos Todos, categories Categories, profiles Profiles) *Service {
	return &Service{
		transactions: transactions,
		budgets:      budgets,
		todos:        todos,
		categories:   categories,
		profiles:     profiles,
	}
}

// Snapshot loads every exported collection concurrently. A missing profile exports the
// default settings.
func (s *Service) Snapshot(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	snap := &Snapshot{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		snap.Transactions, err = s.transactions.List(gctx, userID, transaction.ListFilter{})
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		snap.Budgets, err = s.budgets.List(gctx, userID, nil)
		if err != nil {
			return fmt.Errorf("listing budgets: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		snap.Todos, err = s.todos.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("listing todos: %w", err)
		}

		return nil
	})

	g.Go(func() (err error) {
		snap.Categories, err = s.categories.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		p, err := s.profiles.Get(gctx, userID)
		if errors.Is(err, profile.ErrNotFound) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}

		snap.Profile = p

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}

// Transactions returns the rows for the CSV export together with the categories that name them.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, []*category.Category, error) {
	var (
		txs        []*transaction.Transaction
		categories []*category.Category
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		txs, err = s.transactions.List(gctx, userID, transaction.ListFilter{})
		return err
	})

	g.Go(func() (err error) {
		categories, err = s.categories.List(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("loading transactions for export: %w", err)
	}

	return txs, categories, nil
}
