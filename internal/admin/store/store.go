package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/admin"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// HasRole calls the has_role SQL function, the same check row-level policies use.
func (s *Store) HasRole(ctx context.Context, userID uuid.UUID, role admin.Role) (bool, error) {
	var ok bool
	if err := s.db.QueryRowContext(ctx, `SELECT has_role($1, $2)`, userID, role).Scan(&ok); err != nil {
		return false, fmt.Errorf("checking role %s: %w", role, err)
	}

	return ok, nil
}

func (s *Store) Stats(ctx context.Context) (*admin.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM profiles WHERE is_active IS DISTINCT FROM FALSE),
			(SELECT COUNT(*) FROM transactions),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = 'income'),
			(SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = 'expense'),
			(SELECT COUNT(*) FROM budgets),
			(SELECT COUNT(*) FROM goals),
			(SELECT COUNT(*) FROM user_roles WHERE role = 'admin')
	`

	var st admin.Stats

	var income, expense money.Scanner

	if err := s.db.QueryRowContext(ctx, query).Scan(
		&st.TotalUsers, &st.ActiveUsers, &st.TotalTransactions, &income, &expense,
		&st.TotalBudgets, &st.TotalGoals, &st.AdminCount,
	); err != nil {
		return nil, fmt.Errorf("loading admin stats: %w", err)
	}

	st.TotalIncome = income.Value
	st.TotalExpense = expense.Value

	return &st, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*admin.User, error) {
	query := `
		SELECT p.id, p.email, COALESCE(p.name, ''), COALESCE(p.currency, ''), p.is_active, p.created_at,
			EXISTS (SELECT 1 FROM user_roles r WHERE r.user_id = p.id AND r.role = 'admin')
		FROM profiles p
		ORDER BY p.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var out []*admin.User

	for rows.Next() {
		var u admin.User

		var active sql.NullBool

		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Currency, &active, &u.CreatedAt, &u.IsAdmin); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		if active.Valid {
			u.IsActive = &active.Bool
		}

		out = append(out, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return out, nil
}

// SetActive flips is_active. Turning an account on also stamps activated_at the first time,
// which is what releases a pending user.
func (s *Store) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	query := `
		UPDATE profiles
		SET is_active = $2,
			activated_at = CASE WHEN $2 THEN COALESCE(activated_at, NOW()) ELSE activated_at END,
			updated_at = NOW()
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, userID, active)
	if err != nil {
		return fmt.Errorf("updating user status: %w", err)
	}

	return expectOne(res)
}

func (s *Store) GrantRole(ctx context.Context, userID uuid.UUID, role admin.Role) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id, role) DO NOTHING`,
		userID, role); err != nil {
		return fmt.Errorf("granting role %s: %w", role, err)
	}

	return nil
}

func (s *Store) RevokeRole(ctx context.Context, userID uuid.UUID, role admin.Role) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role = $2`, userID, role); err != nil {
		return fmt.Errorf("revoking role %s: %w", role, err)
	}

	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}

	return expectOne(res)
}

func (s *Store) UserTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, date, type, amount, payment_method, COALESCE(note, ''), created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing user transactions: %w", err)
	}
	defer rows.Close()

	var out []*transaction.Transaction

	for rows.Next() {
		var tx transaction.Transaction

		var typ, method string

		var amount money.Scanner

		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Date, &typ, &amount, &method, &tx.Note, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		tx.Type = transaction.Type(typ)
		tx.PaymentMethod = transaction.PaymentMethod(method)
		tx.Amount = amount.Value

		out = append(out, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return out, nil
}

func (s *Store) LogActivity(ctx context.Context, a *admin.Activity) error {
	query := `
		INSERT INTO admin_activity_logs (admin_id, action, target_user_id, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	var details any
	if len(a.Details) > 0 {
		details = []byte(a.Details)
	}

	if err := s.db.QueryRowContext(ctx, query, a.AdminID, a.Action, a.TargetUserID, details).
		Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("logging admin activity: %w", err)
	}

	return nil
}

func (s *Store) ListActivity(ctx context.Context, limit int) ([]*admin.Activity, error) {
	query := `
		SELECT id, admin_id, action, target_user_id, details, created_at
		FROM admin_activity_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing admin activity: %w", err)
	}
	defer rows.Close()

	var out []*admin.Activity

	for rows.Next() {
		var a admin.Activity

		var action string

		var target uuid.NullUUID

		var details []byte

		if err := rows.Scan(&a.ID, &a.AdminID, &action, &target, &details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin activity: %w", err)
		}

		a.Action = admin.Action(action)
		a.TargetUserID = target.UUID
		a.Details = details

		out = append(out, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating admin activity: %w", err)
	}

	return out, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return admin.ErrNotFound
	}

	return nil
}
