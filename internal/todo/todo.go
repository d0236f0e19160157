package todo

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("todo")
	ErrInvalid  = apperr.Invalid("todo")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusActive Status = "active"
	StatusDone   Status = "done"
)

type Todo struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Overdue reports whether an active todo's due date is before today.
func (t *Todo) Overdue(today time.Time) bool {
	if t.Status != StatusActive || t.DueDate == nil {
		return false
	}

	y, m, d := today.Date()

	return t.DueDate.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
