package item

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/metrics"
)

// duplicateWindow is how long an identical proposal from the same creator is refused.
const duplicateWindow = 30 * time.Second

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=item
type Repository interface {
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListByTrip(ctx context.Context, tripID, viewerID uuid.UUID) ([]*Summary, error)
	HasRecentDuplicate(ctx context.Context, createdBy uuid.UUID, title string, category Category, since time.Time) (bool, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	UpsertCheck(ctx context.Context, check *Check) (bool, error)

	Begin(ctx context.Context) (Tx, error)
}

// RecalcTx is the part of a transaction that electorate recalculation runs on.
// Callers that change eligibility pass their own transaction so both commit together.
type RecalcTx interface {
	ListPending(ctx context.Context) ([]PendingItem, error)
	CountEligibleByTrip(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID]int, error)
	TallyVotes(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]VoteCount, error)
	UpdateStatuses(ctx context.Context, ids []uuid.UUID, status Status) (int, error)
}

// Tx is a unit of work on items and votes. LockItem holds the item row
// exclusively until Commit or Rollback.
type Tx interface {
	RecalcTx

	LockItem(ctx context.Context, id uuid.UUID) (*Item, error)
	CreateItem(ctx context.Context, it *Item) error
	UpsertVote(ctx context.Context, vote Vote) error
	CountVotes(ctx context.Context, itemID uuid.UUID) (VoteCount, error)
	CountEligible(ctx context.Context, tripID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	Commit() error
	Rollback() error
}

// PendingItem identifies an item still waiting for a majority.
type PendingItem struct {
	ID     uuid.UUID
	TripID uuid.UUID
}

type VoteCount struct {
	Approvals  int
	Rejections int
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	TripID      uuid.UUID
	CreatedBy   uuid.UUID
	Title       string
	Category    Category
	Description string
	Location    string
	ExternalURL string
}

// Create stores a new proposal together with its creator's approval and
// resolves it immediately when that single vote is already a majority.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	if !params.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	title := strings.TrimSpace(params.Title)

	dup, err := s.repo.HasRecentDuplicate(ctx, params.CreatedBy, title, params.Category, s.now().Add(-duplicateWindow))
	if err != nil {
		return nil, fmt.Errorf("checking duplicates: %w", err)
	}

	if dup {
		slog.Warn("item.duplicate_submission", "user_id", params.CreatedBy, "title", title, "category", params.Category)
		return nil, ErrDuplicateSubmission
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	it := &Item{
		TripID:      params.TripID,
		Title:       title,
		Category:    params.Category,
		Status:      StatusPending,
		Description: strings.TrimSpace(params.Description),
		Location:    strings.TrimSpace(params.Location),
		ExternalURL: strings.TrimSpace(params.ExternalURL),
		CreatedBy:   params.CreatedBy,
	}

	if err := tx.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if err := tx.UpsertVote(ctx, Vote{ItemID: it.ID, UserID: params.CreatedBy, Value: VoteApprove}); err != nil {
		return nil, fmt.Errorf("record creator vote: %w", err)
	}

	eligible, err := tx.CountEligible(ctx, it.TripID)
	if err != nil {
		return nil, fmt.Errorf("count eligible: %w", err)
	}

	tally := NewTally(1, 0, eligible)

	if status := tally.Decide(); status != StatusPending {
		if err := tx.UpdateStatus(ctx, it.ID, status); err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}

		it.Status = status
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	metrics.VotesCast.WithLabelValues(string(VoteApprove)).Inc()

	if it.Status != StatusPending {
		metrics.ItemTransitions.WithLabelValues(string(it.Status), "creation").Inc()
		slog.Info("item.status.changed",
			"item_id", it.ID,
			"status", it.Status,
			"triggered_by", params.CreatedBy,
			"reason", "auto_vote_threshold",
			"required", tally.Required,
			"eligible", tally.EligibleParticipants,
		)
	}

	slog.Info("item.created", "item_id", it.ID, "category", it.Category, "user_id", params.CreatedBy)

	return it, nil
}

// VoteResult is the outcome of a vote as committed.
type VoteResult struct {
	ItemID uuid.UUID
	Status Status
	Value  VoteValue
	Tally  Tally
}

// CastVote records or overwrites userID's vote on an item and moves the item out of
// PENDING when a side reaches the majority. The item row stays locked from the status
// check through the status write, so concurrent votes on one item apply one at a time.
func (s *Service) CastVote(ctx context.Context, itemID, userID uuid.UUID, value VoteValue) (*VoteResult, error) {
	if !value.Valid() {
		return nil, ErrInvalidVoteValue
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin vote: %w", err)
	}
	defer tx.Rollback()

	it, err := tx.LockItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.VoteRejections.WithLabelValues("not_found").Inc()
		}

		return nil, err
	}

	if it.CreatedBy == userID {
		metrics.VoteRejections.WithLabelValues("own_item").Inc()
		return nil, ErrOwnItem
	}

	if it.Status != StatusPending {
		metrics.VoteRejections.WithLabelValues("not_pending").Inc()
		return nil, &NotPendingError{Status: it.Status}
	}

	if err := tx.UpsertVote(ctx, Vote{ItemID: itemID, UserID: userID, Value: value}); err != nil {
		return nil, fmt.Errorf("upsert vote: %w", err)
	}

	// Counts are read under the lock so the threshold and the tally come from the same snapshot.
	counts, err := tx.CountVotes(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	eligible, err := tx.CountEligible(ctx, it.TripID)
	if err != nil {
		return nil, fmt.Errorf("count eligible: %w", err)
	}

	tally := NewTally(counts.Approvals, counts.Rejections, eligible)
	status := tally.Decide()

	if status != StatusPending {
		if err := tx.UpdateStatus(ctx, itemID, status); err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit vote: %w", err)
	}

	metrics.VotesCast.WithLabelValues(string(value)).Inc()

	if status != StatusPending {
		metrics.ItemTransitions.WithLabelValues(string(status), "vote").Inc()
		slog.Info("item.status.changed",
			"item_id", itemID,
			"status", status,
			"triggered_by", userID,
			"value", value,
			"approvals", tally.Approvals,
			"rejections", tally.Rejections,
			"required", tally.Required,
			"eligible", tally.EligibleParticipants,
		)
	}

	slog.Info("vote.cast", "item_id", itemID, "user_id", userID, "value", value, "item_status", status)

	return &VoteResult{ItemID: itemID, Status: status, Value: value, Tally: tally}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

func (s *Service) ListByTrip(ctx context.Context, tripID, viewerID uuid.UUID) ([]*Summary, error) {
	return s.repo.ListByTrip(ctx, tripID, viewerID)
}

// Delete removes an item. Only its creator or an admin of its trip may do so.
func (s *Service) Delete(ctx context.Context, it *Item, actorID uuid.UUID, tripAdmin bool) error {
	if it.CreatedBy != actorID && !tripAdmin {
		return ErrForbidden
	}

	if err := s.repo.DeleteItem(ctx, it.ID); err != nil {
		return err
	}

	slog.Info("item.deleted", "item_id", it.ID, "user_id", actorID)

	return nil
}

// CheckIn records that userID visited an approved item. The returned flag
// reports whether the check-in is new rather than an update of an earlier one.
func (s *Service) CheckIn(ctx context.Context, itemID, userID uuid.UUID, photoURL string) (*Check, bool, error) {
	it, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, false, err
	}

	if it.Status != StatusApproved {
		return nil, false, ErrNotApproved
	}

	check := &Check{ItemID: itemID, UserID: userID, PhotoURL: photoURL}

	created, err := s.repo.UpsertCheck(ctx, check)
	if err != nil {
		return nil, false, fmt.Errorf("upsert check: %w", err)
	}

	return check, created, nil
}
