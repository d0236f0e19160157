package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Transactions interface {
	ImportBatch(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) (*transaction.ImportResult, error)
	CreateBatch(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error)
}

type Categories interface {
	List(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

type Suggester interface {
	Suggest(ctx context.Context, userID uuid.UUID, note string) (uuid.UUID, error)
}

type Service struct {
	txs        Transactions
	categories Categories
	suggester  Suggester
}

func NewService(txs Transactions, categories Categories, suggester Suggester) *Service {
	return &Service{txs: txs, categories: categories, suggester: suggester}
}

type Result struct {
	Format  string
	Charset string
	Skipped int
	*transaction.ImportResult
}

// Import parses r and stores its rows unless some already exist, in which case nothing is
// written and the conflicts are returned for the user to resolve with Confirm.
func (s *Service) Import(ctx context.Context, userID uuid.UUID, r io.Reader) (*Result, error) {
	st, err := Parse(r)
	if err != nil {
		return nil, err
	}

	params, err := s.resolve(ctx, userID, st.Rows)
	if err != nil {
		return nil, err
	}

	res, err := s.txs.ImportBatch(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("importing %s statement: %w", st.Format, err)
	}

	slog.Info("statement imported",
		"format", st.Format,
		"charset", st.Charset,
		"rows", len(st.Rows),
		"imported", len(res.Imported),
		"conflicts", len(res.Conflicts),
	)

	return &Result{Format: st.Format, Charset: st.Charset, Skipped: st.Skipped, ImportResult: res}, nil
}

// Confirm stores rows the user kept after reviewing conflicts, without duplicate checks.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	return s.txs.CreateBatch(ctx, userID, params)
}

// resolve maps category names to the user's categories. Unknown or missing names fall back
// to a suggestion learned from the note.
func (s *Service) resolve(ctx context.Context, userID uuid.UUID, rows []Row) ([]transaction.CreateParams, error) {
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	params := make([]transaction.CreateParams, 0, len(rows))

	for _, row := range rows {
		p := transaction.CreateParams{
			Date:          row.Date,
			Type:          row.Type,
			Amount:        row.Amount,
			PaymentMethod: row.PaymentMethod,
			Note:          row.Note,
		}

		if c, ok := category.FindByName(categories, row.Category); ok && row.Category != "" {
			p.CategoryID = c.ID
		} else {
			p.CategoryID = s.suggest(ctx, userID, row)
		}

		params = append(params, p)
	}

	return params, nil
}

func (s *Service) suggest(ctx context.Context, userID uuid.UUID, row Row) uuid.UUID {
	id, err := s.suggester.Suggest(ctx, userID, row.Note)
	if err != nil {
		slog.Warn("category suggestion failed", "line", row.Line, "error", err)
		return uuid.Nil
	}

	return id
}
