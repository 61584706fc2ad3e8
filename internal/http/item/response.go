package item

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
)

type itemResponse struct {
	ID          uuid.UUID     `json:"id"`
	TripID      uuid.UUID     `json:"trip_id"`
	Title       string        `json:"title"`
	Category    item.Category `json:"category"`
	Status      item.Status   `json:"status"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location,omitempty"`
	ExternalURL string        `json:"external_url,omitempty"`
	CreatedBy   uuid.UUID     `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type summaryResponse struct {
	itemResponse
	Approvals  int             `json:"approvals"`
	Rejections int             `json:"rejections"`
	MyVote     *item.VoteValue `json:"my_vote"`
	Checks     int             `json:"checks"`
}

type tallyResponse struct {
	Approvals            int `json:"approvals"`
	Rejections           int `json:"rejections"`
	Required             int `json:"required"`
	EligibleParticipants int `json:"eligible_participants"`
}

type voteResponse struct {
	ItemID uuid.UUID      `json:"item_id"`
	Status item.Status    `json:"status"`
	Value  item.VoteValue `json:"value"`
	Tally  tallyResponse  `json:"tally"`
}

type checkResponse struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	UserID    uuid.UUID `json:"user_id"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(it *item.Item) itemResponse {
	return itemResponse{
		ID:          it.ID,
		TripID:      it.TripID,
		Title:       it.Title,
		Category:    it.Category,
		Status:      it.Status,
		Description: it.Description,
		Location:    it.Location,
		ExternalURL: it.ExternalURL,
		CreatedBy:   it.CreatedBy,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func toSummaryList(items []*item.Summary) []summaryResponse {
	resp := make([]summaryResponse, len(items))
	for i, s := range items {
		resp[i] = summaryResponse{
			itemResponse: toResponse(&s.Item),
			Approvals:    s.Approvals,
			Rejections:   s.Rejections,
			MyVote:       s.MyVote,
			Checks:       s.Checks,
		}
	}

	return resp
}

func toVoteResponse(res *item.VoteResult) voteResponse {
	return voteResponse{
		ItemID: res.ItemID,
		Status: res.Status,
		Value:  res.Value,
		Tally: tallyResponse{
			Approvals:            res.Tally.Approvals,
			Rejections:           res.Tally.Rejections,
			Required:             res.Tally.Required,
			EligibleParticipants: res.Tally.EligibleParticipants,
		},
	}
}

func toCheckResponse(c *item.Check) checkResponse {
	return checkResponse{
		ID:        c.ID,
		ItemID:    c.ItemID,
		UserID:    c.UserID,
		PhotoURL:  c.PhotoURL,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
