package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
)

var (
	ErrNotFound = apperr.NotFound("transaction")
	ErrInvalid  = apperr.Invalid("transaction")

	// ErrUnknownCategory rejects a category that does not exist or belongs to another user.
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrInvalid)
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// PaymentMethod is how the money moved.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentBank    PaymentMethod = "bank"
	PaymentEWallet PaymentMethod = "e-wallet"
)

// Transaction represents a single income or expense entry.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Date          time.Time // calendar date, midnight UTC
	Type          Type
	CategoryID    uuid.UUID // uuid.Nil when uncategorized
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	Note          string
	Tags          []string
	RecurringID   *uuid.UUID
	CreatedAt     time.Time
}

func (t *Transaction) Month() period.Month {
	return period.Of(t.Date)
}

func (t *Transaction) IsExpense() bool { return t.Type == TypeExpense }

func (t *Transaction) IsIncome() bool { return t.Type == TypeIncome }
