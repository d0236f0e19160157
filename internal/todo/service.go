package todo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=todo
type Repository interface {
	ListTodos(ctx context.Context, userID uuid.UUID) ([]*Todo, error)
	GetTodo(ctx context.Context, userID, id uuid.UUID) (*Todo, error)
	CreateTodo(ctx context.Context, t *Todo) error
	UpdateTodo(ctx context.Context, t *Todo) error
	DeleteTodo(ctx context.Context, userID, id uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	UserID      uuid.UUID `validate:"required"`
	Title       string    `validate:"notblank,max=200"`
	Description string    `validate:"max=2000"`
	Priority    Priority  `validate:"oneof=low medium high"`
	DueDate     *time.Time
}

// List returns the user's todos, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Todo, error) {
	return s.repo.ListTodos(ctx, userID)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Todo, error) {
	params.Title = strings.TrimSpace(params.Title)

	if params.Priority == "" {
		params.Priority = PriorityMedium
	}

	if err := validation.Struct(ErrInvalid, params); err != nil {
		return nil, err
	}

	t := &Todo{
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Status:      StatusActive,
		DueDate:     params.DueDate,
	}

	if err := s.repo.CreateTodo(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Toggle flips a todo between active and done, stamping or clearing CompletedAt.
func (s *Service) Toggle(ctx context.Context, userID, id uuid.UUID) (*Todo, error) {
	t, err := s.repo.GetTodo(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if t.Status == StatusDone {
		t.Status = StatusActive
		t.CompletedAt = nil
	} else {
		now := s.now()
		t.Status = StatusDone
		t.CompletedAt = &now
	}

	if err := s.repo.UpdateTodo(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteTodo(ctx, userID, id)
}
