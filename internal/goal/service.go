package goal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*Goal, error)
	GetGoal(ctx context.Context, userID, id uuid.UUID) (*Goal, error)
	CreateGoal(ctx context.Context, g *Goal) error
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	UserID       uuid.UUID       `validate:"required"`
	Name         string          `validate:"notblank,max=100"`
	TargetAmount decimal.Decimal `validate:"gt=0"`
	Deadline     *time.Time
	Icon         string
	Color        string
}

type UpdateParams struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *time.Time
	Icon          *string
	Color         *string
}

type updateRules struct {
	Name          string          `validate:"notblank,max=100"`
	TargetAmount  decimal.Decimal `validate:"gt=0"`
	CurrentAmount decimal.Decimal `validate:"gte=0"`
}

// List returns the user's goals, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Goal, error) {
	return s.repo.ListGoals(ctx, userID)
}

// Create stores a new goal with nothing saved towards it yet.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	params.Name = strings.TrimSpace(params.Name)

	if err := validation.Struct(ErrInvalid, params); err != nil {
		return nil, err
	}

	g := &Goal{
		UserID:        params.UserID,
		Name:          params.Name,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      params.Deadline,
		Icon:          params.Icon,
		Color:         params.Color,
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// AddFunds increases the saved amount. The first time the target is reached the goal is
// stamped as completed.
func (s *Service) AddFunds(ctx context.Context, userID, id uuid.UUID, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() {
		return nil, validation.Struct(ErrInvalid, struct {
			Amount decimal.Decimal `validate:"gt=0"`
		}{amount})
	}

	g, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	g.CurrentAmount = g.CurrentAmount.Add(amount)
	g.markCompletion(s.now())

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Goal, error) {
	g, err := s.repo.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		g.Name = strings.TrimSpace(*params.Name)
	}

	if params.TargetAmount != nil {
		g.TargetAmount = *params.TargetAmount
	}

	if params.CurrentAmount != nil {
		g.CurrentAmount = *params.CurrentAmount
	}

	if params.Deadline != nil {
		g.Deadline = params.Deadline
	}

	if params.Icon != nil {
		g.Icon = *params.Icon
	}

	if params.Color != nil {
		g.Color = *params.Color
	}

	rules := updateRules{Name: g.Name, TargetAmount: g.TargetAmount, CurrentAmount: g.CurrentAmount}
	if err := validation.Struct(ErrInvalid, rules); err != nil {
		return nil, err
	}

	g.markCompletion(s.now())

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteGoal(ctx, userID, id)
}
