package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error

	BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID        uuid.UUID       `validate:"required"`
	Date          time.Time       `validate:"required"`
	Type          Type            `validate:"oneof=income expense"`
	CategoryID    uuid.UUID
	Amount        decimal.Decimal `validate:"gt=0"`
	PaymentMethod PaymentMethod   `validate:"oneof=cash bank e-wallet"`
	Note          string          `validate:"max=500"`
	Tags          []string
	RecurringID   *uuid.UUID
}

// UpdateParams carries a partial update; nil fields are left untouched.
type UpdateParams struct {
	Date          *time.Time
	Type          *Type
	CategoryID    *uuid.UUID
	Amount        *decimal.Decimal
	PaymentMethod *PaymentMethod
	Note          *string
	Tags          []string
}

type ListFilter struct {
	Type       *Type
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
}

func (p *CreateParams) normalize() {
	p.Date = dateOnly(p.Date)
	p.Note = strings.TrimSpace(p.Note)

	if p.PaymentMethod == "" {
		p.PaymentMethod = PaymentCash
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	params.normalize()

	if err := validation.Struct(ErrInvalid, params); err != nil {
		return nil, err
	}

	tx := fromParams(params)
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

// Update applies a partial update and re-validates the merged row before writing it.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	merged := CreateParams{
		UserID:        tx.UserID,
		Date:          tx.Date,
		Type:          tx.Type,
		CategoryID:    tx.CategoryID,
		Amount:        tx.Amount,
		PaymentMethod: tx.PaymentMethod,
		Note:          tx.Note,
		Tags:          tx.Tags,
		RecurringID:   tx.RecurringID,
	}

	if params.Date != nil {
		merged.Date = *params.Date
	}

	if params.Type != nil {
		merged.Type = *params.Type
	}

	if params.CategoryID != nil {
		merged.CategoryID = *params.CategoryID
	}

	if params.Amount != nil {
		merged.Amount = *params.Amount
	}

	if params.PaymentMethod != nil {
		merged.PaymentMethod = *params.PaymentMethod
	}

	if params.Note != nil {
		merged.Note = *params.Note
	}

	if params.Tags != nil {
		merged.Tags = params.Tags
	}

	merged.normalize()

	if err := validation.Struct(ErrInvalid, merged); err != nil {
		return nil, err
	}

	updated := fromParams(merged)
	updated.ID = tx.ID
	updated.CreatedAt = tx.CreatedAt

	if err := s.repo.UpdateTransaction(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, userID, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

// ImportBatch inserts the rows unless any of them already exists for the user. When
// duplicates are found nothing is written and the caller gets the split back to decide.
func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i := range params {
		params[i].UserID = userID
		params[i].normalize()

		if err := validation.Struct(ErrInvalid, params[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[string]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[DuplicateKey(d)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[ParamsKey(p)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch inserts every row in one database transaction, skipping duplicate detection.
func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i := range params {
		params[i].UserID = userID
		params[i].normalize()

		if err := validation.Struct(ErrInvalid, params[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

// DuplicateKey is the identity used to detect a re-imported row.
func DuplicateKey(tx *Transaction) string {
	return duplicateKey(tx.Date, tx.Amount, tx.Type, tx.Note)
}

// ParamsKey mirrors DuplicateKey for rows not yet stored.
func ParamsKey(p CreateParams) string {
	return duplicateKey(dateOnly(p.Date), p.Amount, p.Type, strings.TrimSpace(p.Note))
}

func duplicateKey(date time.Time, amount decimal.Decimal, typ Type, note string) string {
	return strings.Join([]string{date.Format(time.DateOnly), amount.StringFixed(2), string(typ), note}, "|")
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func fromParams(p CreateParams) *Transaction {
	return &Transaction{
		UserID:        p.UserID,
		Date:          p.Date,
		Type:          p.Type,
		CategoryID:    p.CategoryID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Note:          p.Note,
		Tags:          p.Tags,
		RecurringID:   p.RecurringID,
	}
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = fromParams(p)
	}

	return txs
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
