package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var ErrNotFound = apperr.NotFound("notification")

type Type string

const (
	TypeBillReminder  Type = "bill_reminder"
	TypeTodoOverdue   Type = "todo_overdue"
	TypeBudgetWarning Type = "budget_warning"
	TypeGoalMilestone Type = "goal_milestone"
)

// ListLimit caps how many notifications are returned, newest first.
const ListLimit = 50

type Notification struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Type        Type
	Title       string
	Message     string
	IsRead      bool
	ReferenceID *uuid.UUID
	CreatedAt   time.Time
}
