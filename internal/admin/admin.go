// Package admin implements the operator panel: platform stats, user management and the
// audit log of every change an admin makes.
package admin

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/apperr"
)

var (
	ErrNotFound = apperr.NotFound("user")
	ErrSelf     = apperr.Invalid("operation on own account")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// TransactionLimit caps the per-user transaction listing.
const TransactionLimit = 50

type Stats struct {
	TotalUsers        int             `json:"totalUsers"`
	TotalTransactions int             `json:"totalTransactions"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	TotalBudgets      int             `json:"totalBudgets"`
	TotalGoals        int             `json:"totalGoals"`
	ActiveUsers       int             `json:"activeUsers"`
	AdminCount        int             `json:"adminCount"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	IsActive  *bool     `json:"isActive"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type Action string

const (
	ActionActivate   Action = "activate_user"
	ActionDeactivate Action = "deactivate_user"
	ActionPromote    Action = "grant_admin"
	ActionDemote     Action = "revoke_admin"
	ActionDelete     Action = "delete_user"
)

// Activity is one entry of admin_activity_logs.
type Activity struct {
	ID           uuid.UUID       `json:"id"`
	AdminID      uuid.UUID       `json:"adminId"`
	Action       Action          `json:"action"`
	TargetUserID uuid.UUID       `json:"targetUserId"`
	Details      json.RawMessage `json:"details,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
