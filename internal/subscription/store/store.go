package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/subscription"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetSubscription(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	query := `
		SELECT user_id, status, start_date, expiry_date
		FROM user_subscriptions
		WHERE user_id = $1
	`

	var sub subscription.Subscription

	var status string

	err := s.db.QueryRowContext(ctx, query, userID).Scan(&sub.UserID, &status, &sub.StartDate, &sub.ExpiryDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, subscription.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}

	sub.Status = subscription.Status(status)

	return &sub, nil
}
