package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/MrJamesThe3rd/financeflow/internal/database"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

type Store struct {
	db    *sql.DB
	types *pgtype.Map
}

func New(db *sql.DB) *Store {
	return &Store{db: db, types: pgtype.NewMap()}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row in selectTransactionColumns order.
func scanTransaction(types *pgtype.Map, s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, methodStr string

	var category, recurring uuid.NullUUID

	var amount money.Scanner

	var note sql.NullString

	var tags []string

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.Date, &typeStr, &category, &amount, &methodStr,
		&note, types.SQLScanner(&tags), &recurring, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.PaymentMethod = transaction.PaymentMethod(methodStr)
	tx.Amount = amount.Value
	tx.Note = note.String
	tx.Tags = tags
	tx.Date = time.Date(tx.Date.Year(), tx.Date.Month(), tx.Date.Day(), 0, 0, 0, 0, time.UTC)

	if category.Valid {
		tx.CategoryID = category.UUID
	}

	if recurring.Valid {
		tx.RecurringID = &recurring.UUID
	}

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.date, t.type, t.category_id, t.amount, t.payment_method,
	t.note, t.tags, t.recurring_id, t.created_at
`

const insertTransaction = `
	INSERT INTO transactions (user_id, date, type, category_id, amount, payment_method, note, tags, recurring_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at
`

func nullableCategory(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}

	return tags
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	err := s.db.QueryRowContext(ctx, insertTransaction,
		tx.UserID,
		tx.Date,
		tx.Type,
		nullableCategory(tx.CategoryID),
		tx.Amount,
		tx.PaymentMethod,
		tx.Note,
		tagsOrEmpty(tx.Tags),
		tx.RecurringID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return insertError(err)
	}

	return nil
}

func insertError(err error) error {
	if database.IsForeignKeyViolation(err) {
		return transaction.ErrUnknownCategory
	}

	return fmt.Errorf("creating transaction: %w", err)
}

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.user_id = $2`

	tx, err := scanTransaction(s.types, s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1`

	args := []any{userID}

	argIdx := 2

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND t.category_id = $%d", argIdx)

		args = append(args, *filter.CategoryID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(s.types, rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $1, type = $2, category_id = $3, amount = $4, payment_method = $5, note = $6, tags = $7
		WHERE id = $8 AND user_id = $9
	`

	res, err := s.db.ExecContext(ctx, query,
		tx.Date,
		tx.Type,
		nullableCategory(tx.CategoryID),
		tx.Amount,
		tx.PaymentMethod,
		tx.Note,
		tagsOrEmpty(tx.Tags),
		tx.ID,
		tx.UserID,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return transaction.ErrUnknownCategory
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return expectOne(res, transaction.ErrNotFound)
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectOne(res, transaction.ErrNotFound)
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}

func importLockKey(userID uuid.UUID, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write(userID[:])
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx     *sql.Tx
	types  *pgtype.Map
	userID uuid.UUID
	from   time.Time
	to     time.Time
}

// BeginImport opens a database transaction holding an advisory lock on the user's date range,
// so two concurrent imports of the same file cannot both pass duplicate detection.
func (s *Store) BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(userID, minDate, maxDate)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx, types: s.types, userID: userID, from: minDate, to: maxDate}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	keySet := make(map[string]struct{}, len(params))
	for _, p := range params {
		keySet[transaction.ParamsKey(p)] = struct{}{}
	}

	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		ORDER BY t.date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, itx.userID, itx.from, itx.to)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(itx.types, rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		if _, found := keySet[transaction.DuplicateKey(tx)]; !found {
			continue
		}

		duplicates = append(duplicates, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		err := itx.tx.QueryRowContext(ctx, insertTransaction,
			tx.UserID,
			tx.Date,
			tx.Type,
			nullableCategory(tx.CategoryID),
			tx.Amount,
			tx.PaymentMethod,
			tx.Note,
			tagsOrEmpty(tx.Tags),
			tx.RecurringID,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return insertError(err)
		}
	}

	return nil
}
