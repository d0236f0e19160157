package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT id, email, COALESCE(name, ''), COALESCE(currency, ''), initial_balance,
			is_active, activated_at, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var p profile.Profile

	var balance money.Scanner

	var active sql.NullBool

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.Email, &p.Name, &p.Currency, &balance,
		&active, &p.ActivatedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	p.InitialBalance = balance.Value

	if active.Valid {
		p.IsActive = &active.Bool
	}

	return &p, nil
}

func (s *Store) UpdateProfile(ctx context.Context, p *profile.Profile) error {
	query := `
		UPDATE profiles
		SET name = NULLIF($2, ''), currency = $3, initial_balance = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, p.ID, p.Name, p.Currency, p.InitialBalance).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	return nil
}

// resetStatements run in order; transactions go first since they reference recurring items.
var resetStatements = []string{
	`DELETE FROM transactions WHERE user_id = $1`,
	`DELETE FROM recurring_items WHERE user_id = $1`,
	`DELETE FROM budgets WHERE user_id = $1`,
	`DELETE FROM goals WHERE user_id = $1`,
	`DELETE FROM todos WHERE user_id = $1`,
	`DELETE FROM notifications WHERE user_id = $1`,
	`DELETE FROM category_rules WHERE user_id = $1`,
	`DELETE FROM categories WHERE user_id = $1 AND NOT is_default`,
}

func (s *Store) ResetData(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reset tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range resetStatements {
		if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
			return fmt.Errorf("resetting user data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE profiles SET currency = $2, initial_balance = 0, updated_at = NOW() WHERE id = $1`,
		userID, profile.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("resetting profile settings: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return profile.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}

	return nil
}
