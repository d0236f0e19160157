package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/categorize"
	"github.com/MrJamesThe3rd/financeflow/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, userID uuid.UUID, note string) (uuid.UUID, error) {
	query := `
		SELECT category_id
		FROM category_rules
		WHERE user_id = $1 AND $2 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var categoryID uuid.UUID

	err := s.db.QueryRowContext(ctx, query, userID, note).Scan(&categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, nil
		}

		return uuid.Nil, fmt.Errorf("finding category rule: %w", err)
	}

	return categoryID, nil
}

func (s *Store) CreateRule(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error {
	query := `
		INSERT INTO category_rules (user_id, pattern, category_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, pattern) DO UPDATE SET category_id = EXCLUDED.category_id, created_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, userID, pattern, categoryID); err != nil {
		if database.IsForeignKeyViolation(err) {
			return categorize.ErrInvalid
		}

		return fmt.Errorf("creating category rule: %w", err)
	}

	return nil
}
