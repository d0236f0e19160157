package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("goal")
	ErrInvalid  = apperr.Invalid("goal")
)

type Goal struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      *time.Time
	Icon          string
	Color         string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

func (g *Goal) Reached() bool {
	return g.TargetAmount.IsPositive() && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

func (g *Goal) Completed() bool { return g.CompletedAt != nil }

// markCompletion stamps CompletedAt the first time the goal is reached. It never clears it.
func (g *Goal) markCompletion(now time.Time) bool {
	if g.CompletedAt != nil || !g.Reached() {
		return false
	}

	g.CompletedAt = &now

	return true
}
