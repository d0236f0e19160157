package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/notification"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, is_read, reference_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*notification.Notification

	for rows.Next() {
		var n notification.Notification

		var typ string

		var ref uuid.NullUUID

		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.IsRead, &ref, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}

		n.Type = notification.Type(typ)

		if ref.Valid {
			n.ReferenceID = &ref.UUID
		}

		out = append(out, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}

	return out, nil
}

func (s *Store) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}

	return n, nil
}

func (s *Store) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return notification.ErrNotFound
	}

	return nil
}

func (s *Store) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}

	return nil
}

func (s *Store) CreateNotification(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message, is_read, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, n.UserID, n.Type, n.Title, n.Message, n.IsRead, n.ReferenceID).
		Scan(&n.ID, &n.CreatedAt); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

func (s *Store) Exists(ctx context.Context, userID uuid.UUID, typ notification.Type, referenceID uuid.UUID, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND reference_id = $3 AND created_at >= $4
		)
	`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, typ, referenceID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking notification: %w", err)
	}

	return exists, nil
}
