package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
)

var (
	ErrNotFound = apperr.NotFound("budget")
	ErrInvalid  = apperr.Invalid("budget")

	// ErrUnknownCategory rejects a category that does not exist or belongs to another user.
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrInvalid)
)

// Budget is a monthly spending limit for one category. Spending is never stored here;
// it is recomputed from transactions whenever it is needed.
type Budget struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
	Month      period.Month
	CreatedAt  time.Time
}
