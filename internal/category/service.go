package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	ListCategories(ctx context.Context, userID uuid.UUID) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID uuid.UUID `validate:"required"`
	Name   string    `validate:"notblank,max=60"`
	Icon   string    `validate:"max=40"`
	Color  string    `validate:"max=20"`
	Type   Type      `validate:"oneof=income expense both"`
}

// List returns the user's categories ordered by name.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	return s.repo.ListCategories(ctx, userID)
}

// Create stores a user-defined category; only seeded categories are marked default.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	params.Name = strings.TrimSpace(params.Name)

	if params.Icon == "" {
		params.Icon = "tag"
	}

	if err := validation.Struct(ErrInvalid, params); err != nil {
		return nil, err
	}

	c := &Category{
		UserID:    params.UserID,
		Name:      params.Name,
		Icon:      params.Icon,
		Color:     params.Color,
		Type:      params.Type,
		IsDefault: false,
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, userID, id)
}

// FindByName resolves a category by case-insensitive name among the user's categories.
func FindByName(categories []*Category, name string) (*Category, bool) {
	name = strings.TrimSpace(name)

	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}

	return nil, false
}
