package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, trip_id, title, category, status, description, location,
// external_url, created_by, created_at, updated_at
func scanItem(s scanner, extra ...any) (*item.Item, error) {
	var it item.Item

	var category, status string

	var description, location, externalURL sql.NullString

	dest := []any{
		&it.ID, &it.TripID, &it.Title, &category, &status,
		&description, &location, &externalURL,
		&it.CreatedBy, &it.CreatedAt, &it.UpdatedAt,
	}

	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	it.Category = item.Category(category)
	it.Status = item.Status(status)
	it.Description = description.String
	it.Location = location.String
	it.ExternalURL = externalURL.String

	return &it, nil
}

const selectItemColumns = `
	i.id, i.trip_id, i.title, i.category, i.status, i.description, i.location,
	i.external_url, i.created_by, i.created_at, i.updated_at
`

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}

func getItem(ctx context.Context, q querier, query string, id uuid.UUID) (*item.Item, error) {
	it, err := scanItem(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, item.ErrNotFound
		}

		return nil, fmt.Errorf("getting item: %w", err)
	}

	return it, nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM items i WHERE i.id = $1`

	return getItem(ctx, s.db, query, id)
}

func (s *Store) ListByTrip(ctx context.Context, tripID, viewerID uuid.UUID) ([]*item.Summary, error) {
	query := `SELECT ` + selectItemColumns + `,
			COUNT(v.user_id) FILTER (WHERE v.value = 'APPROVE') AS approvals,
			COUNT(v.user_id) FILTER (WHERE v.value = 'REJECT') AS rejections,
			MAX(v.value) FILTER (WHERE v.user_id = $2) AS my_vote,
			(SELECT COUNT(*) FROM checks c WHERE c.item_id = i.id) AS checks
		FROM items i
		LEFT JOIN votes v ON v.item_id = i.id
		WHERE i.trip_id = $1
		GROUP BY i.id
		ORDER BY i.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, tripID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var out []*item.Summary

	for rows.Next() {
		var sum item.Summary

		var myVote sql.NullString

		it, err := scanItem(rows, &sum.Approvals, &sum.Rejections, &myVote, &sum.Checks)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		sum.Item = *it

		if myVote.Valid {
			sum.MyVote = new(item.VoteValue(myVote.String))
		}

		out = append(out, &sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return out, nil
}

func (s *Store) HasRecentDuplicate(ctx context.Context, createdBy uuid.UUID, title string, category item.Category, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM items
			WHERE created_by = $1 AND LOWER(title) = LOWER($2) AND category = $3 AND created_at >= $4
		)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, createdBy, title, category, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking recent duplicate: %w", err)
	}

	return exists, nil
}

func (s *Store) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if n == 0 {
		return item.ErrNotFound
	}

	return nil
}

// UpsertCheck reports whether the row was inserted rather than updated.
func (s *Store) UpsertCheck(ctx context.Context, check *item.Check) (bool, error) {
	query := `
		INSERT INTO checks (item_id, user_id, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, item_id) DO UPDATE
			SET photo_url = COALESCE(EXCLUDED.photo_url, checks.photo_url), updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
	`

	var inserted bool

	err := s.db.QueryRowContext(ctx, query, check.ItemID, check.UserID, nullString(check.PhotoURL)).
		Scan(&check.ID, &check.CreatedAt, &check.UpdatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("upserting check: %w", err)
	}

	return inserted, nil
}

func (s *Store) Begin(ctx context.Context) (item.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning item tx: %w", err)
	}

	return &Tx{q: dbTx, tx: dbTx}, nil
}

// Tx runs item queries inside a database transaction.
type Tx struct {
	q  querier
	tx *sql.Tx
}

// WithTx binds item queries to a transaction owned by another store. The caller
// remains responsible for committing it.
func WithTx(tx *sql.Tx) *Tx {
	return &Tx{q: tx, tx: tx}
}

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

func (t *Tx) LockItem(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM items i WHERE i.id = $1 FOR UPDATE`

	return getItem(ctx, t.q, query, id)
}

func (t *Tx) CreateItem(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (trip_id, title, category, status, description, location, external_url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := t.q.QueryRowContext(ctx, query,
		it.TripID,
		it.Title,
		it.Category,
		it.Status,
		nullString(it.Description),
		nullString(it.Location),
		nullString(it.ExternalURL),
		it.CreatedBy,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return nil
}

func (t *Tx) UpsertVote(ctx context.Context, vote item.Vote) error {
	query := `
		INSERT INTO votes (item_id, user_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (item_id, user_id) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := t.q.ExecContext(ctx, query, vote.ItemID, vote.UserID, vote.Value); err != nil {
		return fmt.Errorf("upserting vote: %w", err)
	}

	return nil
}

func (t *Tx) CountVotes(ctx context.Context, itemID uuid.UUID) (item.VoteCount, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE value = 'APPROVE'),
			COUNT(*) FILTER (WHERE value = 'REJECT')
		FROM votes
		WHERE item_id = $1
	`

	var c item.VoteCount
	if err := t.q.QueryRowContext(ctx, query, itemID).Scan(&c.Approvals, &c.Rejections); err != nil {
		return item.VoteCount{}, fmt.Errorf("counting votes: %w", err)
	}

	return c, nil
}

// eligibleFilter selects registered participants whose account is active.
const eligibleFilter = `
	FROM trip_participants tp
	JOIN users u ON u.id = tp.user_id
	WHERE tp.type = 'REGISTERED' AND u.status = 'ACTIVE'
`

func (t *Tx) CountEligible(ctx context.Context, tripID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) ` + eligibleFilter + ` AND tp.trip_id = $1`

	var n int
	if err := t.q.QueryRowContext(ctx, query, tripID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting eligible participants: %w", err)
	}

	return n, nil
}

func (t *Tx) UpdateStatus(ctx context.Context, id uuid.UUID, status item.Status) error {
	query := `UPDATE items SET status = $1, updated_at = NOW() WHERE id = $2`

	if _, err := t.q.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}

	return nil
}

// ListPending locks every pending item so votes cast during a recalculation wait for it.
func (t *Tx) ListPending(ctx context.Context) ([]item.PendingItem, error) {
	query := `SELECT id, trip_id FROM items WHERE status = 'PENDING' ORDER BY created_at, id FOR UPDATE`

	rows, err := t.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pending items: %w", err)
	}
	defer rows.Close()

	var out []item.PendingItem

	for rows.Next() {
		var p item.PendingItem
		if err := rows.Scan(&p.ID, &p.TripID); err != nil {
			return nil, fmt.Errorf("scanning pending item: %w", err)
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending items: %w", err)
	}

	return out, nil
}

func (t *Tx) CountEligibleByTrip(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	query := `SELECT tp.trip_id, COUNT(*) ` + eligibleFilter + ` AND tp.trip_id = ANY($1::uuid[]) GROUP BY tp.trip_id`

	rows, err := t.q.QueryContext(ctx, query, pq.Array(idStrings(tripIDs)))
	if err != nil {
		return nil, fmt.Errorf("counting eligible participants: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int, len(tripIDs))

	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)

		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scanning eligible count: %w", err)
		}

		out[id] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating eligible counts: %w", err)
	}

	return out, nil
}

func (t *Tx) TallyVotes(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]item.VoteCount, error) {
	query := `
		SELECT
			item_id,
			COUNT(*) FILTER (WHERE value = 'APPROVE'),
			COUNT(*) FILTER (WHERE value = 'REJECT')
		FROM votes
		WHERE item_id = ANY($1::uuid[])
		GROUP BY item_id
	`

	rows, err := t.q.QueryContext(ctx, query, pq.Array(idStrings(itemIDs)))
	if err != nil {
		return nil, fmt.Errorf("tallying votes: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]item.VoteCount, len(itemIDs))

	for rows.Next() {
		var (
			id uuid.UUID
			c  item.VoteCount
		)

		if err := rows.Scan(&id, &c.Approvals, &c.Rejections); err != nil {
			return nil, fmt.Errorf("scanning tally: %w", err)
		}

		out[id] = c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tallies: %w", err)
	}

	return out, nil
}

// UpdateStatuses moves the given items to status, skipping any that already left PENDING.
func (t *Tx) UpdateStatuses(ctx context.Context, ids []uuid.UUID, status item.Status) (int, error) {
	query := `
		UPDATE items SET status = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[]) AND status = 'PENDING'
	`

	res, err := t.q.ExecContext(ctx, query, status, pq.Array(idStrings(ids)))
	if err != nil {
		return 0, fmt.Errorf("bulk updating item status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk updating item status: %w", err)
	}

	return int(n), nil
}
