package trip

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
)

type Service interface {
	Create(ctx context.Context, params trip.CreateParams) (*trip.Trip, error)
	Get(ctx context.Context, id uuid.UUID) (*trip.Trip, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*trip.Summary, error)
	Participants(ctx context.Context, tripID uuid.UUID) ([]*trip.Participant, error)
	Membership(ctx context.Context, tripID, userID uuid.UUID) (*trip.Participant, error)
	AddParticipant(ctx context.Context, actorID, tripID uuid.UUID, params trip.AddParams) (*trip.Participant, error)
	ChangeRole(ctx context.Context, actorID, tripID, participantID uuid.UUID, role trip.Role) (*trip.Participant, error)
	RemoveParticipant(ctx context.Context, actorID, tripID, participantID uuid.UUID) (int, error)
}

type Handler struct {
	svc      Service
	validate *api.Validator
}

func NewHandler(svc Service, validate *api.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{tripID}", h.get)
	r.Get("/{tripID}/participants", h.participants)
	r.Post("/{tripID}/participants", h.addParticipant)
	r.Patch("/{tripID}/participants/{participantID}", h.changeRole)
	r.Delete("/{tripID}/participants/{participantID}", h.removeParticipant)
}

type createTripRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Description     string          `json:"description" validate:"max=2000"`
	Destination     string          `json:"destination" validate:"max=200"`
	StartDate       string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DefaultCurrency ledger.Currency `json:"default_currency" validate:"omitempty,len=3"`
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return new(t)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	var req createTripRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	t, err := h.svc.Create(r.Context(), trip.CreateParams{
		Name:            req.Name,
		Description:     req.Description,
		Destination:     req.Destination,
		StartDate:       parseDate(req.StartDate),
		EndDate:         parseDate(req.EndDate),
		DefaultCurrency: req.DefaultCurrency,
		CreatedBy:       userID,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	trips, err := h.svc.ListForUser(r.Context(), userID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toSummaryList(trips))
}

// member resolves the trip in the URL and requires the caller to belong to it.
func (h *Handler) member(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	tripID, ok := api.PathID(w, r, chi.URLParam(r, "tripID"), "tripID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	if _, err := h.svc.Membership(r.Context(), tripID, userID); err != nil {
		api.WriteError(w, r, err)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, tripID, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	_, tripID, ok := h.member(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), tripID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) participants(w http.ResponseWriter, r *http.Request) {
	_, tripID, ok := h.member(w, r)
	if !ok {
		return
	}

	ps, err := h.svc.Participants(r.Context(), tripID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toParticipantList(ps))
}

type addParticipantRequest struct {
	Type  trip.ParticipantType `json:"type" validate:"omitempty,oneof=REGISTERED GHOST"`
	Email string               `json:"email" validate:"required_unless=Type GHOST,max=254"`
	Name  string               `json:"name" validate:"required_if=Type GHOST,max=100"`
	Role  trip.Role            `json:"role" validate:"omitempty,oneof=EDITOR VIEWER"`
}

func (h *Handler) addParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	tripID, ok := api.PathID(w, r, chi.URLParam(r, "tripID"), "tripID")
	if !ok {
		return
	}

	var req addParticipantRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	p, err := h.svc.AddParticipant(r.Context(), userID, tripID, trip.AddParams{
		Type:  req.Type,
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, toParticipant(p))
}

type changeRoleRequest struct {
	Role trip.Role `json:"role" validate:"required,oneof=ADMIN EDITOR VIEWER"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	tripID, ok := api.PathID(w, r, chi.URLParam(r, "tripID"), "tripID")
	if !ok {
		return
	}

	participantID, ok := api.PathID(w, r, chi.URLParam(r, "participantID"), "participantID")
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	p, err := h.svc.ChangeRole(r.Context(), userID, tripID, participantID, req.Role)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toParticipant(p))
}

type removeResponse struct {
	ItemsRecalculated int `json:"items_recalculated"`
}

func (h *Handler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	tripID, ok := api.PathID(w, r, chi.URLParam(r, "tripID"), "tripID")
	if !ok {
		return
	}

	participantID, ok := api.PathID(w, r, chi.URLParam(r, "participantID"), "participantID")
	if !ok {
		return
	}

	changed, err := h.svc.RemoveParticipant(r.Context(), userID, tripID, participantID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, removeResponse{ItemsRecalculated: changed})
}
