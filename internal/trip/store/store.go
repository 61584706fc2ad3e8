package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	itemStore "github.com/MrJamesThe3rd/tripsplit/internal/item/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
)

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectTripColumns = `
	t.id, t.name, t.description, t.destination, t.start_date, t.end_date,
	t.default_currency, t.created_by, t.created_at, t.updated_at
`

// Expected column order matches selectTripColumns, followed by any extra destinations.
func scanTrip(s scanner, extra ...any) (*trip.Trip, error) {
	var t trip.Trip

	var description, destination sql.NullString

	var start, end sql.NullTime

	var currency string

	dest := []any{
		&t.ID, &t.Name, &description, &destination, &start, &end,
		&currency, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	}

	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Destination = destination.String
	t.DefaultCurrency = ledger.Currency(currency)

	if start.Valid {
		t.StartDate = &start.Time
	}

	if end.Valid {
		t.EndDate = &end.Time
	}

	return &t, nil
}

const selectParticipantColumns = `p.id, p.trip_id, p.user_id, p.name, p.type, p.role, p.joined_at`

func scanParticipant(s scanner) (*trip.Participant, error) {
	var p trip.Participant

	var userID uuid.NullUUID

	var typ, role string

	if err := s.Scan(&p.ID, &p.TripID, &userID, &p.Name, &typ, &role, &p.JoinedAt); err != nil {
		return nil, err
	}

	if userID.Valid {
		p.UserID = &userID.UUID
	}

	p.Type = trip.ParticipantType(typ)
	p.Role = trip.Role(role)

	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) GetTrip(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	query := `SELECT ` + selectTripColumns + ` FROM trips t WHERE t.id = $1`

	t, err := scanTrip(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrNotFound
		}

		return nil, fmt.Errorf("getting trip: %w", err)
	}

	return t, nil
}

func (s *Store) ListForUser(ctx context.Context, userID uuid.UUID) ([]*trip.Summary, error) {
	query := `SELECT ` + selectTripColumns + `, me.role,
			(SELECT COUNT(*) FROM trip_participants tp WHERE tp.trip_id = t.id),
			(SELECT COUNT(*) FROM items i WHERE i.trip_id = t.id)
		FROM trips t
		JOIN trip_participants me ON me.trip_id = t.id AND me.user_id = $1
		ORDER BY t.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	var out []*trip.Summary

	for rows.Next() {
		var sum trip.Summary

		var role string

		t, err := scanTrip(rows, &role, &sum.Participants, &sum.Items)
		if err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}

		sum.Trip = *t
		sum.MyRole = trip.Role(role)

		out = append(out, &sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip rows: %w", err)
	}

	return out, nil
}

func (s *Store) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]*trip.Participant, error) {
	query := `SELECT ` + selectParticipantColumns + ` FROM trip_participants p WHERE p.trip_id = $1 ORDER BY p.joined_at, p.id`

	rows, err := s.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	var out []*trip.Participant

	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating participants: %w", err)
	}

	return out, nil
}

func (s *Store) FindMembership(ctx context.Context, tripID, userID uuid.UUID) (*trip.Participant, error) {
	query := `SELECT ` + selectParticipantColumns + ` FROM trip_participants p WHERE p.trip_id = $1 AND p.user_id = $2`

	p, err := scanParticipant(s.db.QueryRowContext(ctx, query, tripID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrNotMember
		}

		return nil, fmt.Errorf("finding membership: %w", err)
	}

	return p, nil
}

type tripTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (trip.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning trip tx: %w", err)
	}

	return &tripTx{tx: dbTx}, nil
}

func (tt *tripTx) Commit() error   { return tt.tx.Commit() }
func (tt *tripTx) Rollback() error { return tt.tx.Rollback() }

func (tt *tripTx) Electorate() item.RecalcTx {
	return itemStore.WithTx(tt.tx)
}

func (tt *tripTx) CreateTrip(ctx context.Context, t *trip.Trip) error {
	query := `
		INSERT INTO trips (name, description, destination, start_date, end_date, default_currency, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := tt.tx.QueryRowContext(ctx, query,
		t.Name,
		nullString(t.Description),
		nullString(t.Destination),
		t.StartDate,
		t.EndDate,
		t.DefaultCurrency,
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating trip: %w", err)
	}

	return nil
}

func (tt *tripTx) AddParticipant(ctx context.Context, p *trip.Participant) error {
	query := `
		INSERT INTO trip_participants (trip_id, user_id, name, type, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, joined_at
	`

	err := tt.tx.QueryRowContext(ctx, query, p.TripID, p.UserID, p.Name, p.Type, p.Role).Scan(&p.ID, &p.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return trip.ErrAlreadyMember
		}

		return fmt.Errorf("adding participant: %w", err)
	}

	return nil
}

func (tt *tripTx) LockParticipant(ctx context.Context, tripID, participantID uuid.UUID) (*trip.Participant, error) {
	query := `SELECT ` + selectParticipantColumns + ` FROM trip_participants p WHERE p.id = $1 AND p.trip_id = $2 FOR UPDATE`

	p, err := scanParticipant(tt.tx.QueryRowContext(ctx, query, participantID, tripID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, trip.ErrParticipantNotFound
		}

		return nil, fmt.Errorf("locking participant: %w", err)
	}

	return p, nil
}

func (tt *tripTx) CountAdmins(ctx context.Context, tripID uuid.UUID) (int, error) {
	var n int

	err := tt.tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM trip_participants WHERE trip_id = $1 AND role = 'ADMIN'`, tripID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}

	return n, nil
}

func (tt *tripTx) UpdateRole(ctx context.Context, participantID uuid.UUID, role trip.Role) error {
	if _, err := tt.tx.ExecContext(ctx, `UPDATE trip_participants SET role = $1 WHERE id = $2`, role, participantID); err != nil {
		return fmt.Errorf("updating role: %w", err)
	}

	return nil
}

func (tt *tripTx) DeleteParticipant(ctx context.Context, participantID uuid.UUID) error {
	if _, err := tt.tx.ExecContext(ctx, `DELETE FROM trip_participants WHERE id = $1`, participantID); err != nil {
		return fmt.Errorf("deleting participant: %w", err)
	}

	return nil
}
