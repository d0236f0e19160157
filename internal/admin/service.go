package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=admin
type Repository interface {
	HasRole(ctx context.Context, userID uuid.UUID, role Role) (bool, error)
	Stats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context) ([]*User, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
	GrantRole(ctx context.Context, userID uuid.UUID, role Role) error
	RevokeRole(ctx context.Context, userID uuid.UUID, role Role) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	UserTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*transaction.Transaction, error)
	LogActivity(ctx context.Context, a *Activity) error
	ListActivity(ctx context.Context, limit int) ([]*Activity, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.repo.HasRole(ctx, userID, RoleAdmin)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// ListUsers returns every profile, newest first, flagged with its admin role.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) UserTransactions(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error) {
	return s.repo.UserTransactions(ctx, userID, TransactionLimit)
}

func (s *Service) Activity(ctx context.Context, limit int) ([]*Activity, error) {
	return s.repo.ListActivity(ctx, limit)
}

func (s *Service) SetActive(ctx context.Context, adminID, userID uuid.UUID, active bool) error {
	if !active && adminID == userID {
		return ErrSelf
	}

	if err := s.repo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	action := ActionDeactivate
	if active {
		action = ActionActivate
	}

	s.record(ctx, adminID, userID, action, map[string]any{"isActive": active})

	return nil
}

func (s *Service) SetAdmin(ctx context.Context, adminID, userID uuid.UUID, makeAdmin bool) error {
	if !makeAdmin && adminID == userID {
		return ErrSelf
	}

	if makeAdmin {
		if err := s.repo.GrantRole(ctx, userID, RoleAdmin); err != nil {
			return err
		}

		s.record(ctx, adminID, userID, ActionPromote, map[string]any{"role": RoleAdmin})

		return nil
	}

	if err := s.repo.RevokeRole(ctx, userID, RoleAdmin); err != nil {
		return err
	}

	s.record(ctx, adminID, userID, ActionDemote, map[string]any{"role": RoleAdmin})

	return nil
}

// DeleteUser removes the user's profile; owned rows go with it through the schema's cascades.
func (s *Service) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return ErrSelf
	}

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("deleting user %s: %w", userID, err)
	}

	s.record(ctx, adminID, userID, ActionDelete, nil)

	return nil
}

// record writes the audit entry. The admin change already happened, so a failed write is
// logged rather than returned.
func (s *Service) record(ctx context.Context, adminID, userID uuid.UUID, action Action, details map[string]any) {
	a := &Activity{AdminID: adminID, Action: action, TargetUserID: userID}

	if details != nil {
		raw, err := json.Marshal(details)
		if err == nil {
			a.Details = raw
		}
	}

	if err := s.repo.LogActivity(ctx, a); err != nil {
		slog.Error("failed to record admin activity", "action", action, "target", userID, "error", err)
	}
}
