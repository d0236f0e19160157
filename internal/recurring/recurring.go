package recurring

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var (
	ErrNotFound = apperr.NotFound("recurring item")
	ErrInvalid  = apperr.Invalid("recurring item")

	// ErrUnknownCategory rejects a category that does not exist or belongs to another user.
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrInvalid)
)

type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// Item is a scheduled income or expense. NextDate is advisory; nothing materializes
// items into transactions.
type Item struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Type          transaction.Type
	CategoryID    uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod transaction.PaymentMethod
	Interval      Interval
	NextDate      time.Time
	Note          string
	IsActive      bool
	CreatedAt     time.Time
}

// DueWithin reports whether an active item's next date falls between today and today+days.
func (i *Item) DueWithin(today time.Time, days int) bool {
	if !i.IsActive {
		return false
	}

	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	return !i.NextDate.Before(start) && !i.NextDate.After(end)
}
