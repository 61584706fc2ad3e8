package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=trip
type Repository interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Summary, error)
	ListParticipants(ctx context.Context, tripID uuid.UUID) ([]*Participant, error)
	FindMembership(ctx context.Context, tripID, userID uuid.UUID) (*Participant, error)

	Begin(ctx context.Context) (Tx, error)
}

// Tx groups trip and participant writes. LockParticipant holds the row until Commit or Rollback.
type Tx interface {
	CreateTrip(ctx context.Context, t *Trip) error
	AddParticipant(ctx context.Context, p *Participant) error
	LockParticipant(ctx context.Context, tripID, participantID uuid.UUID) (*Participant, error)
	CountAdmins(ctx context.Context, tripID uuid.UUID) (int, error)
	UpdateRole(ctx context.Context, participantID uuid.UUID, role Role) error
	DeleteParticipant(ctx context.Context, participantID uuid.UUID) error
	Electorate() item.RecalcTx
	Commit() error
	Rollback() error
}

type UserLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type Recalculator interface {
	Recalculate(ctx context.Context, rtx item.RecalcTx) (int, error)
}

type Service struct {
	repo   Repository
	users  UserLookup
	recalc Recalculator
}

func NewService(repo Repository, users UserLookup, recalc Recalculator) *Service {
	return &Service{repo: repo, users: users, recalc: recalc}
}

type CreateParams struct {
	Name            string
	Description     string
	Destination     string
	StartDate       *time.Time
	EndDate         *time.Time
	DefaultCurrency ledger.Currency
	CreatedBy       uuid.UUID
}

// Create stores a trip and makes its creator the first admin.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Trip, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}

	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return nil, ErrInvalidDates
	}

	currency := params.DefaultCurrency
	if currency == "" {
		currency = ledger.CurrencyCLP
	}

	if !currency.Valid() {
		return nil, ledger.ErrUnsupportedCurrency
	}

	creator, err := s.users.Get(ctx, params.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("loading creator: %w", err)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create trip: %w", err)
	}
	defer tx.Rollback()

	t := &Trip{
		Name:            strings.TrimSpace(params.Name),
		Description:     strings.TrimSpace(params.Description),
		Destination:     strings.TrimSpace(params.Destination),
		StartDate:       params.StartDate,
		EndDate:         params.EndDate,
		DefaultCurrency: currency,
		CreatedBy:       params.CreatedBy,
	}

	if err := tx.CreateTrip(ctx, t); err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	admin := &Participant{
		TripID: t.ID,
		UserID: &creator.ID,
		Name:   creator.DisplayName(),
		Type:   ParticipantRegistered,
		Role:   RoleAdmin,
	}

	if err := tx.AddParticipant(ctx, admin); err != nil {
		return nil, fmt.Errorf("add creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create trip: %w", err)
	}

	slog.Info("trip.created", "trip_id", t.ID, "user_id", params.CreatedBy)

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Trip, error) {
	return s.repo.GetTrip(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Summary, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) Participants(ctx context.Context, tripID uuid.UUID) ([]*Participant, error) {
	return s.repo.ListParticipants(ctx, tripID)
}

// Membership returns userID's participant record in the trip, or ErrNotMember.
func (s *Service) Membership(ctx context.Context, tripID, userID uuid.UUID) (*Participant, error) {
	return s.repo.FindMembership(ctx, tripID, userID)
}

func (s *Service) requireAdmin(ctx context.Context, tripID, actorID uuid.UUID) error {
	m, err := s.repo.FindMembership(ctx, tripID, actorID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			return ErrForbidden
		}

		return err
	}

	if m.Role != RoleAdmin {
		return ErrForbidden
	}

	return nil
}

type AddParams struct {
	Type  ParticipantType
	Email string
	Name  string
	Role  Role
}

// AddParticipant adds a registered user (by email) or a ghost (by name) to a trip.
func (s *Service) AddParticipant(ctx context.Context, actorID, tripID uuid.UUID, params AddParams) (*Participant, error) {
	if err := s.requireAdmin(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	role := params.Role
	if role == "" {
		role = RoleViewer
	}

	if role != RoleEditor && role != RoleViewer {
		return nil, ErrInvalidRole
	}

	p := &Participant{TripID: tripID, Type: params.Type, Role: role}

	switch params.Type {
	case ParticipantGhost:
		p.Name = strings.TrimSpace(params.Name)
		if p.Name == "" {
			return nil, ErrNameRequired
		}
	case ParticipantRegistered, "":
		u, err := s.users.GetByEmail(ctx, params.Email)
		if err != nil {
			return nil, err
		}

		if u.Status != user.StatusActive {
			return nil, ErrInactiveUser
		}

		if _, err := s.repo.FindMembership(ctx, tripID, u.ID); err == nil {
			return nil, ErrAlreadyMember
		} else if !errors.Is(err, ErrNotMember) {
			return nil, err
		}

		p.Type = ParticipantRegistered
		p.UserID = &u.ID
		p.Name = u.DisplayName()
	default:
		return nil, ErrInvalidType
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add participant: %w", err)
	}
	defer tx.Rollback()

	if err := tx.AddParticipant(ctx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add participant: %w", err)
	}

	slog.Info("trip.participant.added", "trip_id", tripID, "participant_id", p.ID, "type", p.Type, "role", p.Role, "added_by", actorID)

	return p, nil
}

// ChangeRole updates a participant's role. The last admin cannot step down.
func (s *Service) ChangeRole(ctx context.Context, actorID, tripID, participantID uuid.UUID, role Role) (*Participant, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := s.requireAdmin(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin change role: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.LockParticipant(ctx, tripID, participantID)
	if err != nil {
		return nil, err
	}

	if p.Role == RoleAdmin && role != RoleAdmin {
		if err := s.keepsAnAdmin(ctx, tx, tripID); err != nil {
			return nil, err
		}
	}

	if err := tx.UpdateRole(ctx, participantID, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit change role: %w", err)
	}

	p.Role = role

	return p, nil
}

func (s *Service) keepsAnAdmin(ctx context.Context, tx Tx, tripID uuid.UUID) error {
	admins, err := tx.CountAdmins(ctx, tripID)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}

	if admins <= 1 {
		return ErrLastAdmin
	}

	return nil
}

// RemoveParticipant deletes a participant and returns how many pending items
// resolved as a result. Removing a registered member shrinks the electorate, so
// pending items are recalculated before the removal commits.
func (s *Service) RemoveParticipant(ctx context.Context, actorID, tripID, participantID uuid.UUID) (int, error) {
	if err := s.requireAdmin(ctx, tripID, actorID); err != nil {
		return 0, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin remove participant: %w", err)
	}
	defer tx.Rollback()

	p, err := tx.LockParticipant(ctx, tripID, participantID)
	if err != nil {
		return 0, err
	}

	if p.Role == RoleAdmin {
		if err := s.keepsAnAdmin(ctx, tx, tripID); err != nil {
			return 0, err
		}
	}

	if err := tx.DeleteParticipant(ctx, participantID); err != nil {
		return 0, fmt.Errorf("delete participant: %w", err)
	}

	changed := 0

	if p.Type == ParticipantRegistered {
		changed, err = s.recalc.Recalculate(ctx, tx.Electorate())
		if err != nil {
			return 0, fmt.Errorf("recalculate pending items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit remove participant: %w", err)
	}

	slog.Info("trip.participant.removed",
		"trip_id", tripID,
		"participant_id", participantID,
		"type", p.Type,
		"by", actorID,
		"items_recalculated", changed,
	)

	return changed, nil
}
