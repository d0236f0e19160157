package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var ErrNotFound = apperr.NotFound("subscription")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Subscription struct {
	UserID     uuid.UUID
	Status     Status
	StartDate  *time.Time
	ExpiryDate *time.Time
}

// ActiveAt reports whether the subscription is active and not yet expired at now.
func (s *Subscription) ActiveAt(now time.Time) bool {
	if s.Status != StatusActive {
		return false
	}

	return s.ExpiryDate == nil || now.Before(*s.ExpiryDate)
}
