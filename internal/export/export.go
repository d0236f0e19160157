// Package export writes a user's data out as a JSON backup or a CSV of transactions. The CSV
// layout is the one the importer reads back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var csvHeader = []string{"Date", "Type", "Category", "Amount", "Note", "Payment Method"}

// Snapshot is everything a backup contains for one user.
type Snapshot struct {
	Profile      *profile.Profile
	Transactions []*transaction.Transaction
	Budgets      []*budget.Budget
	Todos        []*todo.Todo
	Categories   []*category.Category
}

func JSONFileName(now time.Time) string {
	return fmt.Sprintf("financeflow-export-%s.json", now.Format(time.DateOnly))
}

func CSVFileName(now time.Time) string {
	return fmt.Sprintf("transactions-%s.csv", now.Format(time.DateOnly))
}

type document struct {
	Transactions []transactionJSON `json:"transactions"`
	Budgets      []budgetJSON      `json:"budgets"`
	Todos        []todoJSON        `json:"todos"`
	Categories   []categoryJSON    `json:"categories"`
	Settings     settingsJSON      `json:"settings"`
	ExportedAt   time.Time         `json:"exportedAt"`
}

type transactionJSON struct {
	ID            uuid.UUID                 `json:"id"`
	Date          string                    `json:"date"`
	Type          transaction.Type          `json:"type"`
	CategoryID    *uuid.UUID                `json:"categoryId"`
	Category      string                    `json:"category,omitempty"`
	Amount        decimal.Decimal           `json:"amount"`
	PaymentMethod transaction.PaymentMethod `json:"paymentMethod"`
	Note          string                    `json:"note"`
	Tags          []string                  `json:"tags"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

type budgetJSON struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      period.Month    `json:"month"`
}

type todoJSON struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    todo.Priority `json:"priority"`
	Status      todo.Status   `json:"status"`
	DueDate     *string       `json:"dueDate"`
	CompletedAt *time.Time    `json:"completedAt"`
}

type categoryJSON struct {
	ID    uuid.UUID     `json:"id"`
	Name  string        `json:"name"`
	Icon  string        `json:"icon"`
	Color string        `json:"color"`
	Type  category.Type `json:"type"`
}

type settingsJSON struct {
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// WriteJSON encodes the snapshot as an indented backup document.
func WriteJSON(w io.Writer, snap *Snapshot, now time.Time) error {
	lookup := category.NewLookup(snap.Categories)

	doc := document{
		Transactions: make([]transactionJSON, 0, len(snap.Transactions)),
		Budgets:      make([]budgetJSON, 0, len(snap.Budgets)),
		Todos:        make([]todoJSON, 0, len(snap.Todos)),
		Categories:   make([]categoryJSON, 0, len(snap.Categories)),
		Settings:     settingsJSON{Currency: profile.DefaultCurrency},
		ExportedAt:   now.UTC(),
	}

	if snap.Profile != nil {
		doc.Settings = settingsJSON{Currency: snap.Profile.Currency, InitialBalance: snap.Profile.InitialBalance}
	}

	for _, tx := range snap.Transactions {
		item := transactionJSON{
			ID:            tx.ID,
			Date:          tx.Date.Format(time.DateOnly),
			Type:          tx.Type,
			Category:      lookup.Name(tx.CategoryID, ""),
			Amount:        tx.Amount,
			PaymentMethod: tx.PaymentMethod,
			Note:          tx.Note,
			Tags:          tx.Tags,
			CreatedAt:     tx.CreatedAt,
		}

		if tx.CategoryID != uuid.Nil {
			item.CategoryID = &tx.CategoryID
		}

		if item.Tags == nil {
			item.Tags = []string{}
		}

		doc.Transactions = append(doc.Transactions, item)
	}

	for _, b := range snap.Budgets {
		doc.Budgets = append(doc.Budgets, budgetJSON{ID: b.ID, CategoryID: b.CategoryID, Amount: b.Amount, Month: b.Month})
	}

	for _, t := range snap.Todos {
		item := todoJSON{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			Status:      t.Status,
			CompletedAt: t.CompletedAt,
		}

		if t.DueDate != nil {
			due := t.DueDate.Format(time.DateOnly)
			item.DueDate = &due
		}

		doc.Todos = append(doc.Todos, item)
	}

	for _, c := range snap.Categories {
		doc.Categories = append(doc.Categories, categoryJSON{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color, Type: c.Type})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	return nil
}

// WriteCSV writes one line per transaction. Unresolved categories are left blank.
func WriteCSV(w io.Writer, txs []*transaction.Transaction, categories []*category.Category) error {
	lookup := category.NewLookup(categories)

	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Date.Format(time.DateOnly),
			string(tx.Type),
			lookup.Name(tx.CategoryID, ""),
			tx.Amount.StringFixed(2),
			tx.Note,
			string(tx.PaymentMethod),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}
