package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

type Response struct {
	ID            uuid.UUID                 `json:"id"`
	Date          string                    `json:"date"`
	Type          transaction.Type          `json:"type"`
	CategoryID    *uuid.UUID                `json:"categoryId"`
	Amount        decimal.Decimal           `json:"amount"`
	PaymentMethod transaction.PaymentMethod `json:"paymentMethod"`
	Note          string                    `json:"note"`
	Tags          []string                  `json:"tags"`
	RecurringID   *uuid.UUID                `json:"recurringId,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

func ToResponse(tx *transaction.Transaction) Response {
	resp := Response{
		ID:            tx.ID,
		Date:          tx.Date.Format(time.DateOnly),
		Type:          tx.Type,
		Amount:        tx.Amount,
		PaymentMethod: tx.PaymentMethod,
		Note:          tx.Note,
		Tags:          tx.Tags,
		RecurringID:   tx.RecurringID,
		CreatedAt:     tx.CreatedAt,
	}

	if tx.CategoryID != uuid.Nil {
		resp.CategoryID = &tx.CategoryID
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	return resp
}

// ToResponseList renders transactions for the import and admin handlers too.
func ToResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}
