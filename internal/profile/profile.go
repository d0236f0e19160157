package profile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("profile")
	ErrInvalid  = apperr.Invalid("profile")
)

// DefaultCurrency is used when a profile has no currency set.
const DefaultCurrency = "IDR"

type Profile struct {
	ID             uuid.UUID
	Email          string
	Name           string
	Currency       string
	InitialBalance decimal.Decimal
	IsActive       *bool
	ActivatedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Activation is how far a user has come through manual account approval.
type Activation int

const (
	ActivationPending Activation = iota
	ActivationActive
	ActivationDeactivated
)

func (a Activation) String() string {
	switch a {
	case ActivationActive:
		return "active"
	case ActivationDeactivated:
		return "deactivated"
	default:
		return "pending"
	}
}

// Activation is active only once activated_at is set and the account was not switched off.
// An explicit is_active = false wins over everything else.
func (p *Profile) Activation() Activation {
	if p.IsActive != nil && !*p.IsActive {
		return ActivationDeactivated
	}

	if p.ActivatedAt == nil {
		return ActivationPending
	}

	return ActivationActive
}
