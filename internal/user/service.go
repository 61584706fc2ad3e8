package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, u *User) error

	BeginStatusChange(ctx context.Context) (StatusTx, error)
}

// StatusTx locks a user row while its status changes. Electorate exposes the same
// transaction to pending item recalculation.
type StatusTx interface {
	LockUser(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	Electorate() item.RecalcTx
	Commit() error
	Rollback() error
}

type Recalculator interface {
	Recalculate(ctx context.Context, rtx item.RecalcTx) (int, error)
}

type Service struct {
	repo   Repository
	recalc Recalculator
}

func NewService(repo Repository, recalc Recalculator) *Service {
	return &Service{repo: repo, recalc: recalc}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// Register creates an active user, or returns the existing one for that email.
func (s *Service) Register(ctx context.Context, email, name string) (*User, error) {
	email = normalizeEmail(email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	u := &User{Email: email, Name: strings.TrimSpace(name), Status: StatusActive}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	slog.Info("user.registered", "user_id", u.ID)

	return u, nil
}

type StatusChange struct {
	User              *User
	ItemsRecalculated int
}

// ChangeStatus deactivates or deletes another user. Losing an active user shrinks
// every electorate they belonged to, so pending items are re-evaluated in the same
// transaction and the whole change is undone if that fails.
func (s *Service) ChangeStatus(ctx context.Context, actorID, targetID uuid.UUID, status Status) (*StatusChange, error) {
	if actorID == targetID {
		slog.Warn("user.status.self_change_attempt", "user_id", actorID)
		return nil, ErrSelfChange
	}

	if status != StatusDisabled && status != StatusDeleted {
		return nil, ErrInvalidStatus
	}

	stx, err := s.repo.BeginStatusChange(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin status change: %w", err)
	}
	defer stx.Rollback()

	u, err := stx.LockUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if u.Status == StatusDeleted || u.Status == status {
		return nil, &UnchangedError{Status: u.Status}
	}

	from := u.Status

	if err := stx.UpdateStatus(ctx, targetID, status); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}

	u.Status = status

	changed, err := s.recalc.Recalculate(ctx, stx.Electorate())
	if err != nil {
		return nil, fmt.Errorf("recalculate pending items: %w", err)
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status change: %w", err)
	}

	slog.Info("user.status.changed",
		"target_user_id", targetID,
		"from", from,
		"to", status,
		"by", actorID,
		"items_recalculated", changed,
	)

	return &StatusChange{User: u, ItemsRecalculated: changed}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
