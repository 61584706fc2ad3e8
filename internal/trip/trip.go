package trip

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
)

type ParticipantType string

const (
	// ParticipantRegistered is linked to a user account and can vote.
	ParticipantRegistered ParticipantType = "REGISTERED"
	// ParticipantGhost is a name-only member that only takes part in expenses.
	ParticipantGhost ParticipantType = "GHOST"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor || r == RoleViewer
}

// CanWrite reports whether the role may record expenses and payments.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleEditor
}

type Trip struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Destination     string
	StartDate       *time.Time
	EndDate         *time.Time
	DefaultCurrency ledger.Currency
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Participant struct {
	ID       uuid.UUID
	TripID   uuid.UUID
	UserID   *uuid.UUID
	Name     string
	Type     ParticipantType
	Role     Role
	JoinedAt time.Time
}

// Summary is a trip as listed for one of its members.
type Summary struct {
	Trip
	MyRole       Role
	Participants int
	Items        int
}

var (
	ErrNotFound            = errors.New("trip not found")
	ErrNotMember           = errors.New("not a member of this trip")
	ErrForbidden           = errors.New("only trip admins can manage participants")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyMember       = errors.New("user is already a participant of this trip")
	ErrLastAdmin           = errors.New("a trip must keep at least one admin")
	ErrInvalidRole         = errors.New("role must be ADMIN, EDITOR or VIEWER")
	ErrInvalidType         = errors.New("participant type must be REGISTERED or GHOST")
	ErrInactiveUser        = errors.New("user does not have an active account")
	ErrInvalidDates        = errors.New("end date must not be before start date")
	ErrNameRequired        = errors.New("name is required")
)
