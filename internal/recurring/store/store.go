package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/database"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
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

const selectItemColumns = `
	id, user_id, name, type, category_id, amount, payment_method, "interval",
	next_date, COALESCE(note, ''), is_active, created_at
`

func scanItem(s scanner) (*recurring.Item, error) {
	var it recurring.Item

	var typ, method, interval string

	var category uuid.NullUUID

	var amount money.Scanner

	if err := s.Scan(
		&it.ID, &it.UserID, &it.Name, &typ, &category, &amount, &method, &interval,
		&it.NextDate, &it.Note, &it.IsActive, &it.CreatedAt,
	); err != nil {
		return nil, err
	}

	it.Type = transaction.Type(typ)
	it.PaymentMethod = transaction.PaymentMethod(method)
	it.Interval = recurring.Interval(interval)
	it.Amount = amount.Value

	if category.Valid {
		it.CategoryID = category.UUID
	}

	return &it, nil
}

func (s *Store) ListItems(ctx context.Context, userID uuid.UUID) ([]*recurring.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM recurring_items WHERE user_id = $1 ORDER BY next_date ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recurring items: %w", err)
	}
	defer rows.Close()

	var out []*recurring.Item

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recurring item: %w", err)
		}

		out = append(out, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recurring items: %w", err)
	}

	return out, nil
}

func (s *Store) GetItem(ctx context.Context, userID, id uuid.UUID) (*recurring.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM recurring_items WHERE id = $1 AND user_id = $2`

	it, err := scanItem(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recurring.ErrNotFound
		}

		return nil, fmt.Errorf("getting recurring item: %w", err)
	}

	return it, nil
}

func (s *Store) CreateItem(ctx context.Context, it *recurring.Item) error {
	query := `
		INSERT INTO recurring_items (user_id, name, type, category_id, amount, payment_method, "interval", next_date, note, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	category := uuid.NullUUID{UUID: it.CategoryID, Valid: it.CategoryID != uuid.Nil}

	if err := s.db.QueryRowContext(ctx, query,
		it.UserID, it.Name, it.Type, category, it.Amount, it.PaymentMethod, it.Interval, it.NextDate, it.Note, it.IsActive,
	).Scan(&it.ID, &it.CreatedAt); err != nil {
		if database.IsForeignKeyViolation(err) {
			return recurring.ErrUnknownCategory
		}

		return fmt.Errorf("creating recurring item: %w", err)
	}

	return nil
}

func (s *Store) SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_items SET is_active = $1 WHERE id = $2 AND user_id = $3`, active, id, userID)
	if err != nil {
		return fmt.Errorf("toggling recurring item: %w", err)
	}

	return affected(res)
}

func (s *Store) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting recurring item: %w", err)
	}

	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return recurring.ErrNotFound
	}

	return nil
}
