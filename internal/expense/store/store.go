package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListExpenses returns a trip's expenses oldest first with their shares
// attached, the share carrying the rounding remainder first.
func (s *Store) ListExpenses(ctx context.Context, tripID uuid.UUID) ([]ledger.Expense, error) {
	query := `
		SELECT id, trip_id, description, amount, currency, paid_by, expense_date, split_type, created_by, created_at
		FROM expenses
		WHERE trip_id = $1
		ORDER BY expense_date, created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var out []ledger.Expense

	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var e ledger.Expense

		var paidBy uuid.NullUUID

		var currency, split string

		if err := rows.Scan(&e.ID, &e.TripID, &e.Description, &e.Amount, &currency, &paidBy, &e.ExpenseDate, &split, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		e.Currency = ledger.Currency(currency)
		e.SplitType = ledger.SplitType(split)

		if paidBy.Valid {
			e.PaidBy = &paidBy.UUID
		}

		index[e.ID] = len(out)
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	if len(out) == 0 {
		return out, nil
	}

	shares, err := s.db.QueryContext(ctx, `
		SELECT es.expense_id, es.participant_id, es.amount
		FROM expense_shares es
		JOIN expenses e ON e.id = es.expense_id
		WHERE e.trip_id = $1
		ORDER BY es.expense_id, es.amount DESC, es.participant_id
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing shares: %w", err)
	}
	defer shares.Close()

	for shares.Next() {
		var expenseID uuid.UUID

		var share ledger.Share

		if err := shares.Scan(&expenseID, &share.ParticipantID, &share.Amount); err != nil {
			return nil, fmt.Errorf("scanning share: %w", err)
		}

		if i, ok := index[expenseID]; ok {
			out[i].Shares = append(out[i].Shares, share)
		}
	}

	if err := shares.Err(); err != nil {
		return nil, fmt.Errorf("iterating shares: %w", err)
	}

	return out, nil
}

func (s *Store) ListPayments(ctx context.Context, tripID uuid.UUID) ([]ledger.Payment, error) {
	query := `
		SELECT id, trip_id, from_id, to_id, amount, currency, paid_at, created_by, created_at
		FROM payments
		WHERE trip_id = $1
		ORDER BY paid_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var out []ledger.Payment

	for rows.Next() {
		var p ledger.Payment

		var currency string

		if err := rows.Scan(&p.ID, &p.TripID, &p.From, &p.To, &p.Amount, &currency, &p.PaidAt, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		p.Currency = ledger.Currency(currency)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payments: %w", err)
	}

	return out, nil
}

// deleteScoped removes one row of a trip-owned table, returning notFound when
// the id does not exist or belongs to another trip.
func (s *Store) deleteScoped(ctx context.Context, query string, tripID, id uuid.UUID, notFound error) error {
	res, err := s.db.ExecContext(ctx, query, id, tripID)
	if err != nil {
		return fmt.Errorf("deleting: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}

	if n == 0 {
		return notFound
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, tripID, id uuid.UUID) error {
	return s.deleteScoped(ctx, `DELETE FROM expenses WHERE id = $1 AND trip_id = $2`, tripID, id, expense.ErrNotFound)
}

func (s *Store) DeletePayment(ctx context.Context, tripID, id uuid.UUID) error {
	return s.deleteScoped(ctx, `DELETE FROM payments WHERE id = $1 AND trip_id = $2`, tripID, id, expense.ErrPaymentNotFound)
}

func (s *Store) CreatePayment(ctx context.Context, p *ledger.Payment) error {
	query := `
		INSERT INTO payments (trip_id, from_id, to_id, amount, currency, paid_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		p.TripID, p.From, p.To, p.Amount, p.Currency, p.PaidAt, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}

	return nil
}

type expenseTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (expense.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning expense tx: %w", err)
	}

	return &expenseTx{tx: dbTx}, nil
}

func (et *expenseTx) Commit() error   { return et.tx.Commit() }
func (et *expenseTx) Rollback() error { return et.tx.Rollback() }

func (et *expenseTx) CreateExpense(ctx context.Context, e *ledger.Expense) error {
	query := `
		INSERT INTO expenses (trip_id, description, amount, currency, paid_by, expense_date, split_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := et.tx.QueryRowContext(ctx, query,
		e.TripID, e.Description, e.Amount, e.Currency, e.PaidBy, e.ExpenseDate, e.SplitType, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	for _, sh := range e.Shares {
		if _, err := et.tx.ExecContext(ctx,
			`INSERT INTO expense_shares (expense_id, participant_id, amount) VALUES ($1, $2, $3)`,
			e.ID, sh.ParticipantID, sh.Amount,
		); err != nil {
			return fmt.Errorf("creating share: %w", err)
		}
	}

	return nil
}
