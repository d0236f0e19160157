package budget

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	ListBudgets(ctx context.Context, userID uuid.UUID, month *period.Month) ([]*Budget, error)
	GetBudget(ctx context.Context, userID, id uuid.UUID) (*Budget, error)
	CreateBudget(ctx context.Context, b *Budget) error
	UpdateBudget(ctx context.Context, b *Budget) error
	DeleteBudget(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID     uuid.UUID       `validate:"required"`
	CategoryID uuid.UUID       `validate:"required"`
	Amount     decimal.Decimal `validate:"gt=0"`
	Month      string          `validate:"month"`
}

type UpdateParams struct {
	CategoryID *uuid.UUID
	Amount     *decimal.Decimal
	Month      *string
}

// List returns the user's budgets, optionally restricted to one month.
func (s *Service) List(ctx context.Context, userID uuid.UUID, month *period.Month) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, userID, month)
}

// Create stores a budget. Duplicates for the same category and month are accepted;
// reports sum them.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	if err := validation.Struct(ErrInvalid, params); err != nil {
		return nil, err
	}

	b := &Budget{
		UserID:     params.UserID,
		CategoryID: params.CategoryID,
		Amount:     params.Amount,
		Month:      period.Month(params.Month),
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Budget, error) {
	b, err := s.repo.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	merged := CreateParams{
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Amount:     b.Amount,
		Month:      b.Month.String(),
	}

	if params.CategoryID != nil {
		merged.CategoryID = *params.CategoryID
	}

	if params.Amount != nil {
		merged.Amount = *params.Amount
	}

	if params.Month != nil {
		merged.Month = *params.Month
	}

	if err := validation.Struct(ErrInvalid, merged); err != nil {
		return nil, err
	}

	b.CategoryID = merged.CategoryID
	b.Amount = merged.Amount
	b.Month = period.Month(merged.Month)

	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteBudget(ctx, userID, id)
}
