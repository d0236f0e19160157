package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=notification
type Repository interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CreateNotification(ctx context.Context, n *Notification) error
	Exists(ctx context.Context, userID uuid.UUID, typ Type, referenceID uuid.UUID, since time.Time) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the latest notifications for the user.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	return s.repo.ListNotifications(ctx, userID, ListLimit)
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
