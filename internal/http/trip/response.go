package trip

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
)

type tripResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Destination     string          `json:"destination,omitempty"`
	StartDate       *string         `json:"start_date,omitempty"`
	EndDate         *string         `json:"end_date,omitempty"`
	DefaultCurrency ledger.Currency `json:"default_currency"`
	CreatedBy       uuid.UUID       `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type summaryResponse struct {
	tripResponse
	MyRole       trip.Role `json:"my_role"`
	Participants int       `json:"participants"`
	Items        int       `json:"items"`
}

type participantResponse struct {
	ID       uuid.UUID            `json:"id"`
	TripID   uuid.UUID            `json:"trip_id"`
	UserID   *uuid.UUID           `json:"user_id,omitempty"`
	Name     string               `json:"name"`
	Type     trip.ParticipantType `json:"type"`
	Role     trip.Role            `json:"role"`
	JoinedAt time.Time            `json:"joined_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	return new(t.Format(time.DateOnly))
}

func toResponse(t *trip.Trip) tripResponse {
	return tripResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		Destination:     t.Destination,
		StartDate:       formatDate(t.StartDate),
		EndDate:         formatDate(t.EndDate),
		DefaultCurrency: t.DefaultCurrency,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func toSummaryList(trips []*trip.Summary) []summaryResponse {
	resp := make([]summaryResponse, len(trips))
	for i, s := range trips {
		resp[i] = summaryResponse{
			tripResponse: toResponse(&s.Trip),
			MyRole:       s.MyRole,
			Participants: s.Participants,
			Items:        s.Items,
		}
	}

	return resp
}

func toParticipant(p *trip.Participant) participantResponse {
	return participantResponse{
		ID:       p.ID,
		TripID:   p.TripID,
		UserID:   p.UserID,
		Name:     p.Name,
		Type:     p.Type,
		Role:     p.Role,
		JoinedAt: p.JoinedAt,
	}
}

func toParticipantList(ps []*trip.Participant) []participantResponse {
	resp := make([]participantResponse, len(ps))
	for i, p := range ps {
		resp[i] = toParticipant(p)
	}

	return resp
}
