package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=subscription
type Repository interface {
	GetSubscription(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Status returns the effective status. No subscription row, or one past its expiry, is inactive.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (Status, error) {
	sub, err := s.repo.GetSubscription(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return StatusInactive, nil
	}

	if err != nil {
		return StatusInactive, err
	}

	if !sub.ActiveAt(s.now()) {
		return StatusInactive, nil
	}

	return StatusActive, nil
}

func (s *Service) Active(ctx context.Context, userID uuid.UUID) (bool, error) {
	st, err := s.Status(ctx, userID)
	return st == StatusActive, err
}
