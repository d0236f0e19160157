package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/database"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectBudgetColumns = `id, user_id, category_id, amount, month, created_at`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var amount money.Scanner

	var month string

	if err := s.Scan(&b.ID, &b.UserID, &b.CategoryID, &amount, &month, &b.CreatedAt); err != nil {
		return nil, err
	}

	b.Amount = amount.Value
	b.Month = period.Month(month)

	return &b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID uuid.UUID, month *period.Month) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE user_id = $1`
	args := []any{userID}

	if month != nil {
		query += " AND month = $2"

		args = append(args, month.String())
	}

	query += " ORDER BY month DESC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var out []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budgets: %w", err)
	}

	return out, nil
}

func (s *Store) GetBudget(ctx context.Context, userID, id uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	return b, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		INSERT INTO budgets (user_id, category_id, amount, month)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, b.UserID, b.CategoryID, b.Amount, b.Month.String()).
		Scan(&b.ID, &b.CreatedAt); err != nil {
		if database.IsForeignKeyViolation(err) {
			return budget.ErrUnknownCategory
		}

		return fmt.Errorf("creating budget: %w", err)
	}

	return nil
}

func (s *Store) UpdateBudget(ctx context.Context, b *budget.Budget) error {
	query := `
		UPDATE budgets
		SET category_id = $1, amount = $2, month = $3
		WHERE id = $4 AND user_id = $5
	`

	res, err := s.db.ExecContext(ctx, query, b.CategoryID, b.Amount, b.Month.String(), b.ID, b.UserID)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return budget.ErrUnknownCategory
		}

		return fmt.Errorf("updating budget: %w", err)
	}

	return affected(res)
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return budget.ErrNotFound
	}

	return nil
}
