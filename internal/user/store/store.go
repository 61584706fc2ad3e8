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
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
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

const selectUserColumns = `id, email, name, status, created_at, updated_at`

func scanUser(s scanner) (*user.User, error) {
	var u user.User

	var name sql.NullString

	var status string

	if err := s.Scan(&u.ID, &u.Email, &name, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}

	u.Name = name.String
	u.Status = user.Status(status)

	return &u, nil
}

func getUser(row *sql.Row) (*user.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1`

	return getUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE email = $1`

	return getUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, u.Email, sql.NullString{String: u.Name, Valid: u.Name != ""}, u.Status).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

type statusTx struct {
	tx *sql.Tx
}

func (s *Store) BeginStatusChange(ctx context.Context) (user.StatusTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning status tx: %w", err)
	}

	return &statusTx{tx: dbTx}, nil
}

func (st *statusTx) Commit() error   { return st.tx.Commit() }
func (st *statusTx) Rollback() error { return st.tx.Rollback() }

func (st *statusTx) Electorate() item.RecalcTx {
	return itemStore.WithTx(st.tx)
}

func (st *statusTx) LockUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	return getUser(st.tx.QueryRowContext(ctx, query, id))
}

func (st *statusTx) UpdateStatus(ctx context.Context, id uuid.UUID, status user.Status) error {
	query := `UPDATE users SET status = $1, updated_at = NOW() WHERE id = $2`

	if _, err := st.tx.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating user status: %w", err)
	}

	return nil
}
