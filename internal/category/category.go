package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("category")
	ErrInvalid  = apperr.Invalid("category")
)

// Type restricts which transactions a category applies to.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
	TypeBoth    Type = "both"
)

type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Icon      string
	Color     string
	Type      Type
	IsDefault bool
	CreatedAt time.Time
}

// Lookup indexes categories by id.
type Lookup map[uuid.UUID]*Category

func NewLookup(categories []*Category) Lookup {
	l := make(Lookup, len(categories))
	for _, c := range categories {
		if c != nil {
			l[c.ID] = c
		}
	}

	return l
}

// Name returns the category name, or fallback when id does not resolve.
func (l Lookup) Name(id uuid.UUID, fallback string) string {
	if c, ok := l[id]; ok && c.Name != "" {
		return c.Name
	}

	return fallback
}

// Icon returns the category icon, or empty when id does not resolve.
func (l Lookup) Icon(id uuid.UUID) string {
	if c, ok := l[id]; ok {
		return c.Icon
	}

	return ""
}
