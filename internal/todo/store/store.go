package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/todo"
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

const selectTodoColumns = `id, user_id, title, COALESCE(description, ''), priority, status, due_date, created_at, completed_at`

func scanTodo(s scanner) (*todo.Todo, error) {
	var t todo.Todo

	var priority, status string

	if err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &priority, &status, &t.DueDate, &t.CreatedAt, &t.CompletedAt,
	); err != nil {
		return nil, err
	}

	t.Priority = todo.Priority(priority)
	t.Status = todo.Status(status)

	return &t, nil
}

func (s *Store) ListTodos(ctx context.Context, userID uuid.UUID) ([]*todo.Todo, error) {
	query := `SELECT ` + selectTodoColumns + ` FROM todos WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close()

	var out []*todo.Todo

	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}

	return out, nil
}

func (s *Store) GetTodo(ctx context.Context, userID, id uuid.UUID) (*todo.Todo, error) {
	query := `SELECT ` + selectTodoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	t, err := scanTodo(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, todo.ErrNotFound
		}

		return nil, fmt.Errorf("getting todo: %w", err)
	}

	return t, nil
}

func (s *Store) CreateTodo(ctx context.Context, t *todo.Todo) error {
	query := `
		INSERT INTO todos (user_id, title, description, priority, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query,
		t.UserID, t.Title, t.Description, t.Priority, t.Status, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("creating todo: %w", err)
	}

	return nil
}

func (s *Store) UpdateTodo(ctx context.Context, t *todo.Todo) error {
	query := `
		UPDATE todos
		SET title = $1, description = $2, priority = $3, status = $4, due_date = $5, completed_at = $6
		WHERE id = $7 AND user_id = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		t.Title, t.Description, t.Priority, t.Status, t.DueDate, t.CompletedAt, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating todo: %w", err)
	}

	return affected(res)
}

func (s *Store) DeleteTodo(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting todo: %w", err)
	}

	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return todo.ErrNotFound
	}

	return nil
}
