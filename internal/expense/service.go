package expense

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/metrics"
	"github.com/MrJamesThe3rd/tripsplit/internal/settlement"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	ListExpenses(ctx context.Context, tripID uuid.UUID) ([]ledger.Expense, error)
	ListPayments(ctx context.Context, tripID uuid.UUID) ([]ledger.Payment, error)
	DeleteExpense(ctx context.Context, tripID, id uuid.UUID) error
	DeletePayment(ctx context.Context, tripID, id uuid.UUID) error
	CreatePayment(ctx context.Context, p *ledger.Payment) error

	Begin(ctx context.Context) (Tx, error)
}

// Tx writes an expense together with its shares, or a batch of them.
type Tx interface {
	CreateExpense(ctx context.Context, e *ledger.Expense) error
	Commit() error
	Rollback() error
}

// Trips is the slice of the trip service the ledger depends on.
type Trips interface {
	Get(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
	Membership(ctx context.Context, tripID, userID uuid.UUID) (*trip.Participant, error)
	Participants(ctx context.Context, tripID uuid.UUID) ([]*trip.Participant, error)
}

type Service struct {
	repo  Repository
	trips Trips
	now   func() time.Time
}

func NewService(repo Repository, trips Trips) *Service {
	return &Service{repo: repo, trips: trips, now: time.Now}
}

type CreateExpenseParams struct {
	TripID      uuid.UUID
	Description string
	Amount      decimal.Decimal
	Currency    ledger.Currency
	PaidBy      *uuid.UUID
	ExpenseDate time.Time
	SplitAmong  []uuid.UUID
}

type CreatePaymentParams struct {
	TripID   uuid.UUID
	From     uuid.UUID
	To       uuid.UUID
	Amount   decimal.Decimal
	Currency ledger.Currency
	PaidAt   time.Time
}

func (s *Service) requireMember(ctx context.Context, tripID, actorID uuid.UUID) (*trip.Participant, error) {
	return s.trips.Membership(ctx, tripID, actorID)
}

func (s *Service) requireWriter(ctx context.Context, tripID, actorID uuid.UUID) error {
	m, err := s.requireMember(ctx, tripID, actorID)
	if err != nil {
		return err
	}

	if !m.Role.CanWrite() {
		return ErrReadOnly
	}

	return nil
}

// roster indexes a trip's participants by id and by case-folded name.
type roster struct {
	order  []uuid.UUID
	ids    map[uuid.UUID]*trip.Participant
	byName map[string]uuid.UUID
}

func (s *Service) roster(ctx context.Context, tripID uuid.UUID) (*roster, error) {
	ps, err := s.trips.Participants(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("loading participants: %w", err)
	}

	r := &roster{
		ids:    make(map[uuid.UUID]*trip.Participant, len(ps)),
		byName: make(map[string]uuid.UUID, len(ps)),
	}

	for _, p := range ps {
		r.order = append(r.order, p.ID)
		r.ids[p.ID] = p
		r.byName[strings.ToLower(strings.TrimSpace(p.Name))] = p.ID
	}

	return r, nil
}

func (r *roster) has(id uuid.UUID) bool {
	_, ok := r.ids[id]
	return ok
}

func (r *roster) lookup(name string) (uuid.UUID, bool) {
	id, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func (r *roster) ledgerParticipants() []ledger.Participant {
	out := make([]ledger.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, ledger.Participant{ID: id, Name: r.ids[id].Name})
	}

	return out
}

// build validates params against the trip roster and returns the expense with
// its equal shares. Duplicate ids in SplitAmong collapse to one share.
func (s *Service) build(r *roster, actorID uuid.UUID, params CreateExpenseParams) (*ledger.Expense, error) {
	desc := strings.TrimSpace(params.Description)
	if desc == "" {
		return nil, ErrDescriptionRequired
	}

	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if !params.Currency.Valid() {
		return nil, ledger.ErrUnsupportedCurrency
	}

	if params.PaidBy != nil && !r.has(*params.PaidBy) {
		return nil, ErrIneligibleParticipant
	}

	var among []uuid.UUID

	seen := make(map[uuid.UUID]struct{}, len(params.SplitAmong))
	for _, id := range params.SplitAmong {
		if !r.has(id) {
			return nil, ErrIneligibleParticipant
		}

		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}
		among = append(among, id)
	}

	if len(among) == 0 {
		return nil, ErrNoShares
	}

	date := params.ExpenseDate
	if date.IsZero() {
		date = s.now()
	}

	return &ledger.Expense{
		TripID:      params.TripID,
		Description: desc,
		Amount:      params.Amount.Round(2),
		Currency:    params.Currency,
		PaidBy:      params.PaidBy,
		ExpenseDate: date,
		SplitType:   ledger.SplitEqual,
		CreatedBy:   actorID,
		Shares:      ledger.EqualSplit(params.Amount.Round(2), among),
	}, nil
}

// CreateExpense records an expense split equally among params.SplitAmong.
// Every payer and share participant must belong to the trip.
func (s *Service) CreateExpense(ctx context.Context, actorID uuid.UUID, params CreateExpenseParams) (*ledger.Expense, error) {
	if err := s.requireWriter(ctx, params.TripID, actorID); err != nil {
		return nil, err
	}

	r, err := s.roster(ctx, params.TripID)
	if err != nil {
		return nil, err
	}

	e, err := s.build(r, actorID, params)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create expense: %w", err)
	}
	defer tx.Rollback()

	if err := tx.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create expense: %w", err)
	}

	slog.Info("expense.created", "trip_id", e.TripID, "expense_id", e.ID, "amount", e.Amount.String(), "currency", e.Currency, "shares", len(e.Shares))

	return e, nil
}

func (s *Service) ListExpenses(ctx context.Context, actorID, tripID uuid.UUID) ([]ledger.Expense, error) {
	if _, err := s.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	return s.repo.ListExpenses(ctx, tripID)
}

func (s *Service) DeleteExpense(ctx context.Context, actorID, tripID, id uuid.UUID) error {
	if err := s.requireWriter(ctx, tripID, actorID); err != nil {
		return err
	}

	if err := s.repo.DeleteExpense(ctx, tripID, id); err != nil {
		return err
	}

	slog.Info("expense.deleted", "trip_id", tripID, "expense_id", id, "by", actorID)

	return nil
}

// CreatePayment records a direct transfer between two participants of the trip.
func (s *Service) CreatePayment(ctx context.Context, actorID uuid.UUID, params CreatePaymentParams) (*ledger.Payment, error) {
	if err := s.requireWriter(ctx, params.TripID, actorID); err != nil {
		return nil, err
	}

	if params.From == params.To {
		return nil, ErrSameParticipant
	}

	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if !params.Currency.Valid() {
		return nil, ledger.ErrUnsupportedCurrency
	}

	r, err := s.roster(ctx, params.TripID)
	if err != nil {
		return nil, err
	}

	if !r.has(params.From) || !r.has(params.To) {
		return nil, ErrIneligibleParticipant
	}

	paidAt := params.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	p := &ledger.Payment{
		TripID:    params.TripID,
		From:      params.From,
		To:        params.To,
		Amount:    params.Amount.Round(2),
		Currency:  params.Currency,
		PaidAt:    paidAt,
		CreatedBy: actorID,
	}

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	slog.Info("payment.created", "trip_id", p.TripID, "payment_id", p.ID, "amount", p.Amount.String(), "currency", p.Currency)

	return p, nil
}

func (s *Service) ListPayments(ctx context.Context, actorID, tripID uuid.UUID) ([]ledger.Payment, error) {
	if _, err := s.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	return s.repo.ListPayments(ctx, tripID)
}

func (s *Service) DeletePayment(ctx context.Context, actorID, tripID, id uuid.UUID) error {
	if err := s.requireWriter(ctx, tripID, actorID); err != nil {
		return err
	}

	if err := s.repo.DeletePayment(ctx, tripID, id); err != nil {
		return err
	}

	slog.Info("payment.deleted", "trip_id", tripID, "payment_id", id, "by", actorID)

	return nil
}

// Settle loads the trip ledger and computes balances and suggested transfers.
// Nothing is written back.
func (s *Service) Settle(ctx context.Context, actorID, tripID uuid.UUID) (settlement.Result, error) {
	if _, err := s.requireMember(ctx, tripID, actorID); err != nil {
		return settlement.Result{}, err
	}

	timer := prometheus.NewTimer(metrics.SettlementDuration)
	defer timer.ObserveDuration()

	r, err := s.roster(ctx, tripID)
	if err != nil {
		return settlement.Result{}, err
	}

	expenses, err := s.repo.ListExpenses(ctx, tripID)
	if err != nil {
		return settlement.Result{}, fmt.Errorf("loading expenses: %w", err)
	}

	payments, err := s.repo.ListPayments(ctx, tripID)
	if err != nil {
		return settlement.Result{}, fmt.Errorf("loading payments: %w", err)
	}

	res := settlement.Calculate(expenses, r.ledgerParticipants(), payments)

	slog.Debug("settlement.computed",
		"trip_id", tripID,
		"expenses", len(expenses),
		"payments", len(payments),
		"currencies", len(res.Currencies),
		"transfers", len(res.Transfers),
	)

	return res, nil
}

// Import resolves participant names in rows and creates every expense in one
// transaction. The first invalid row aborts the whole batch with a *RowError.
func (s *Service) Import(ctx context.Context, actorID, tripID uuid.UUID, rows []ImportRow) ([]*ledger.Expense, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	if err := s.requireWriter(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	t, err := s.trips.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	r, err := s.roster(ctx, tripID)
	if err != nil {
		return nil, err
	}

	expenses := make([]*ledger.Expense, 0, len(rows))

	for _, row := range rows {
		params, err := r.resolve(row, t)
		if err != nil {
			return nil, &RowError{Line: row.Line, Err: err}
		}

		e, err := s.build(r, actorID, params)
		if err != nil {
			return nil, &RowError{Line: row.Line, Err: err}
		}

		expenses = append(expenses, e)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for i, e := range expenses {
		if err := tx.CreateExpense(ctx, e); err != nil {
			return nil, fmt.Errorf("create expense %d: %w", rows[i].Line, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	slog.Info("expense.imported", "trip_id", tripID, "count", len(expenses), "by", actorID)

	return expenses, nil
}

func (r *roster) resolve(row ImportRow, t *trip.Trip) (CreateExpenseParams, error) {
	params := CreateExpenseParams{
		TripID:      t.ID,
		Description: row.Description,
		Amount:      row.Amount,
		Currency:    t.DefaultCurrency,
		ExpenseDate: row.Date,
	}

	if row.Currency != "" {
		params.Currency = ledger.Currency(strings.ToUpper(strings.TrimSpace(row.Currency)))
	}

	if row.PaidBy != "" {
		id, ok := r.lookup(row.PaidBy)
		if !ok {
			return params, fmt.Errorf("paid by %q: %w", row.PaidBy, ErrUnknownParticipant)
		}

		params.PaidBy = &id
	}

	if len(row.SplitAmong) == 0 {
		params.SplitAmong = r.order
		return params, nil
	}

	for _, name := range row.SplitAmong {
		id, ok := r.lookup(name)
		if !ok {
			return params, fmt.Errorf("split among %q: %w", name, ErrUnknownParticipant)
		}

		params.SplitAmong = append(params.SplitAmong, id)
	}

	return params, nil
}
