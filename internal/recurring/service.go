package recurring

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=recurring
type Repository interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]*Item, error)
	GetItem(ctx context.Context, userID, id uuid.UUID) (*Item, error)
	CreateItem(ctx context.Context, item *Item) error
	SetActive(ctx context.Context, userID, id uuid.UUID, active bool) error
	DeleteItem(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID        uuid.UUID                 `validate:"required"`
	Name          string                    `validate:"notblank,max=100"`
	Type          transaction.Type          `validate:"oneof=income expense"`
	CategoryID    uuid.UUID
	Amount        decimal.Decimal           `validate:"gt=0"`
	PaymentMethod transaction.PaymentMethod `validate:"oneof=cash bank e-wallet"`
	Interval      Interval                  `validate:"oneof=daily weekly monthly yearly"`
	NextDate      time.Time                 `validate:"required"`
	Note          string                    `validate:"max=500"`
}

// List returns the user's recurring items by next date.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Item, error) {
	return s.repo.ListItems(ctx, userID)
}

// Create stores a new item; new items start active.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	params.Name = strings.TrimSpace(params.Name)

	if params.PaymentMethod == "" {
		params.PaymentMethod = transaction.PaymentCash
	}

	if err := validation.Struct(ErrInvalid, params); err != nil {
		return nil, err
	}

	y, m, d := params.NextDate.Date()

	item := &Item{
		UserID:        params.UserID,
		Name:          params.Name,
		Type:          params.Type,
		CategoryID:    params.CategoryID,
		Amount:        params.Amount,
		PaymentMethod: params.PaymentMethod,
		Interval:      params.Interval,
		NextDate:      time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Note:          params.Note,
		IsActive:      true,
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Toggle pauses an active item or resumes a paused one.
func (s *Service) Toggle(ctx context.Context, userID, id uuid.UUID) (*Item, error) {
	item, err := s.repo.GetItem(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, userID, id, !item.IsActive); err != nil {
		return nil, err
	}

	item.IsActive = !item.IsActive

	return item, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteItem(ctx, userID, id)
}
