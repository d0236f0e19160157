package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
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

const selectGoalColumns = `
	id, user_id, name, target_amount, current_amount, deadline,
	COALESCE(icon, ''), COALESCE(color, ''), created_at, completed_at
`

func scanGoal(s scanner) (*goal.Goal, error) {
	var g goal.Goal

	var target, current money.Scanner

	if err := s.Scan(
		&g.ID, &g.UserID, &g.Name, &target, &current, &g.Deadline,
		&g.Icon, &g.Color, &g.CreatedAt, &g.CompletedAt,
	); err != nil {
		return nil, err
	}

	g.TargetAmount = target.Value
	g.CurrentAmount = current.Value

	return &g, nil
}

func (s *Store) ListGoals(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var out []*goal.Goal

	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}

		out = append(out, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating goals: %w", err)
	}

	return out, nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id uuid.UUID) (*goal.Goal, error) {
	query := `SELECT ` + selectGoalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	g, err := scanGoal(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrNotFound
		}

		return nil, fmt.Errorf("getting goal: %w", err)
	}

	return g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, icon, color)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query,
		g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Icon, g.Color,
	).Scan(&g.ID, &g.CreatedAt); err != nil {
		return fmt.Errorf("creating goal: %w", err)
	}

	return nil
}

// UpdateGoal writes the row. completed_at is only ever filled, never cleared, by the database.
func (s *Store) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, icon = $5, color = $6,
			completed_at = COALESCE(completed_at, $7)
		WHERE id = $8 AND user_id = $9
	`

	res, err := s.db.ExecContext(ctx, query,
		g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Icon, g.Color, g.CompletedAt, g.ID, g.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return goal.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return goal.ErrNotFound
	}

	return nil
}
