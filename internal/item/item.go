package item

import (
	"time"

	"github.com/google/uuid"
)

// Category is the kind of proposal.
type Category string

const (
	CategoryPlace Category = "PLACE"
	CategoryFood  Category = "FOOD"
)

func (c Category) Valid() bool {
	return c == CategoryPlace || c == CategoryFood
}

// Status is the voting outcome of an item. An item only ever leaves PENDING once.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// VoteValue is a participant's stance on an item.
type VoteValue string

const (
	VoteApprove VoteValue = "APPROVE"
	VoteReject  VoteValue = "REJECT"
)

func (v VoteValue) Valid() bool {
	return v == VoteApprove || v == VoteReject
}

// Item is a place or food suggestion proposed for a trip.
type Item struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Title       string
	Category    Category
	Status      Status
	Description string
	Location    string
	ExternalURL string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Vote is one user's stance on one item. There is at most one per (user, item).
type Vote struct {
	ItemID uuid.UUID
	UserID uuid.UUID
	Value  VoteValue
}

// Check records that a user visited an approved item.
type Check struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	UserID    uuid.UUID
	PhotoURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is an item together with its vote breakdown as seen by one user.
type Summary struct {
	Item
	Approvals  int
	Rejections int
	MyVote     *VoteValue
	Checks     int
}

// Tally is the vote count of an item measured against its trip's electorate.
type Tally struct {
	Approvals            int
	Rejections           int
	Required             int
	EligibleParticipants int
}

// RequiredVotes is the strict majority of n eligible voters.
func RequiredVotes(eligible int) int {
	return eligible/2 + 1
}

// NewTally builds a tally for the given counts and electorate size.
func NewTally(approvals, rejections, eligible int) Tally {
	return Tally{
		Approvals:            approvals,
		Rejections:           rejections,
		Required:             RequiredVotes(eligible),
		EligibleParticipants: eligible,
	}
}

// Decide returns the status the tally resolves to. Approval wins when both sides
// reach the threshold. With no eligible voters the threshold cannot be reached.
func (t Tally) Decide() Status {
	if t.EligibleParticipants <= 0 {
		return StatusPending
	}

	switch {
	case t.Approvals >= t.Required:
		return StatusApproved
	case t.Rejections >= t.Required:
		return StatusRejected
	default:
		return StatusPending
	}
}
