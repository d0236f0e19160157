package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/category"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListCategories(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	query := `
		SELECT id, user_id, name, COALESCE(icon, ''), COALESCE(color, ''), type, is_default, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var out []*category.Category

	for rows.Next() {
		var c category.Category

		var typ string

		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Color, &typ, &c.IsDefault, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c.Type = category.Type(typ)
		out = append(out, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (user_id, name, icon, color, type, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, c.UserID, c.Name, c.Icon, c.Color, c.Type, c.IsDefault).
		Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

// DeleteCategory removes the row; transactions keep their dangling category_id.
func (s *Store) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return category.ErrNotFound
	}

	return nil
}
