package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=profile
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
	ResetData(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type UpdateParams struct {
	Name           *string
	Currency       *string
	InitialBalance *decimal.Decimal
}

type updateRules struct {
	Name     string `validate:"max=100"`
	Currency string `validate:"required,iso4217"`
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}

	return p, nil
}

// Update changes the user-editable settings. Activation fields are never touched here.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, params UpdateParams) (*Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		p.Name = strings.TrimSpace(*params.Name)
	}

	if params.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*params.Currency))
	}

	if params.InitialBalance != nil {
		p.InitialBalance = *params.InitialBalance
	}

	if err := validation.Struct(ErrInvalid, updateRules{Name: p.Name, Currency: p.Currency}); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Activation reports the user's activation status. A missing profile is pending.
func (s *Service) Activation(ctx context.Context, userID uuid.UUID) (Activation, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		slog.Debug("no profile yet", "user_id", userID)
		return ActivationPending, nil
	}

	if err != nil {
		return ActivationPending, err
	}

	return p.Activation(), nil
}

// ResetData wipes the user's records and settings in one database transaction. Default
// categories and the account itself survive.
func (s *Service) ResetData(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ResetData(ctx, userID); err != nil {
		return err
	}

	slog.Warn("user data reset", "user_id", userID)

	return nil
}
