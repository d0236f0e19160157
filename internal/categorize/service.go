// Package categorize learns which category a transaction note belongs to.
package categorize

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var ErrInvalid = apperr.Invalid("category rule")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=categorize
type Repository interface {
	FindMatch(ctx context.Context, userID uuid.UUID, note string) (uuid.UUID, error)
	CreateRule(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the longest learned pattern contained in note,
// or uuid.Nil when nothing matches.
func (s *Service) Suggest(ctx context.Context, userID uuid.UUID, note string) (uuid.UUID, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return uuid.Nil, nil
	}

	return s.repo.FindMatch(ctx, userID, note)
}

// Learn remembers that notes containing pattern belong to categoryID.
func (s *Service) Learn(ctx context.Context, userID uuid.UUID, pattern string, categoryID uuid.UUID) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || categoryID == uuid.Nil {
		return ErrInvalid
	}

	return s.repo.CreateRule(ctx, userID, pattern, categoryID)
}
