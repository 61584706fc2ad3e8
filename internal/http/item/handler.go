package item

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
)

type Service interface {
	Create(ctx context.Context, params item.CreateParams) (*item.Item, error)
	CastVote(ctx context.Context, itemID, userID uuid.UUID, value item.VoteValue) (*item.VoteResult, error)
	Get(ctx context.Context, id uuid.UUID) (*item.Item, error)
	ListByTrip(ctx context.Context, tripID, viewerID uuid.UUID) ([]*item.Summary, error)
	Delete(ctx context.Context, it *item.Item, actorID uuid.UUID, tripAdmin bool) error
	CheckIn(ctx context.Context, itemID, userID uuid.UUID, photoURL string) (*item.Check, bool, error)
}

// Memberships resolves the caller's participant row in a trip.
type Memberships interface {
	Membership(ctx context.Context, tripID, userID uuid.UUID) (*trip.Participant, error)
}

type Handler struct {
	svc      Service
	members  Memberships
	validate *api.Validator
}

func NewHandler(svc Service, members Memberships, validate *api.Validator) *Handler {
	return &Handler{svc: svc, members: members, validate: validate}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/vote", h.vote)
	r.Post("/{id}/check", h.check)
}

// TripRoutes is mounted under /trips/{tripID}/items.
func (h *Handler) TripRoutes(r chi.Router) {
	r.Get("/", h.list)
}

type createItemRequest struct {
	TripID      uuid.UUID     `json:"trip_id" validate:"required"`
	Title       string        `json:"title" validate:"required,max=200"`
	Category    item.Category `json:"category" validate:"required,oneof=PLACE FOOD"`
	Description string        `json:"description" validate:"max=2000"`
	Location    string        `json:"location" validate:"max=500"`
	ExternalURL string        `json:"external_url" validate:"omitempty,url"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	var req createItemRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	if _, err := h.members.Membership(r.Context(), req.TripID, userID); err != nil {
		api.WriteError(w, r, err)
		return
	}

	it, err := h.svc.Create(r.Context(), item.CreateParams{
		TripID:      req.TripID,
		CreatedBy:   userID,
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Location:    req.Location,
		ExternalURL: req.ExternalURL,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, toResponse(it))
}

// access is an item together with the caller's standing in its trip.
type access struct {
	item   *item.Item
	userID uuid.UUID
	admin  bool
}

// loadForMember fetches the item in the URL and checks the caller belongs to its trip.
func (h *Handler) loadForMember(w http.ResponseWriter, r *http.Request) (access, bool) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return access{}, false
	}

	id, ok := api.PathID(w, r, chi.URLParam(r, "id"), "id")
	if !ok {
		return access{}, false
	}

	it, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			slog.Warn("item.not_found", "item_id", id, "user_id", userID)
		}

		api.WriteError(w, r, err)

		return access{}, false
	}

	p, err := h.members.Membership(r.Context(), it.TripID, userID)
	if err != nil {
		api.WriteError(w, r, err)
		return access{}, false
	}

	return access{item: it, userID: userID, admin: p.Role == trip.RoleAdmin}, true
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	api.JSON(w, http.StatusOK, toResponse(a.item))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	tripID, ok := api.PathID(w, r, chi.URLParam(r, "tripID"), "tripID")
	if !ok {
		return
	}

	if _, err := h.members.Membership(r.Context(), tripID, userID); err != nil {
		api.WriteError(w, r, err)
		return
	}

	items, err := h.svc.ListByTrip(r.Context(), tripID, userID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toSummaryList(items))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), a.item, a.userID, a.admin); err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type voteRequest struct {
	Value item.VoteValue `json:"value" validate:"required,oneof=APPROVE REJECT"`
}

func (h *Handler) vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	a, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	res, err := h.svc.CastVote(r.Context(), a.item.ID, a.userID, req.Value)
	if err != nil {
		if errors.Is(err, item.ErrNotPending) || errors.Is(err, item.ErrOwnItem) || errors.Is(err, item.ErrNotFound) {
			slog.Warn("vote.rejected", "item_id", a.item.ID, "user_id", a.userID, "reason", err.Error())
		}

		api.WriteError(w, r, err)

		return
	}

	api.JSON(w, http.StatusOK, toVoteResponse(res))
}

type checkRequest struct {
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if r.ContentLength != 0 {
		if err := h.validate.Decode(r, &req); err != nil {
			api.WriteError(w, r, err)
			return
		}
	}

	a, ok := h.loadForMember(w, r)
	if !ok {
		return
	}

	c, created, err := h.svc.CheckIn(r.Context(), a.item.ID, a.userID, req.PhotoURL)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	api.JSON(w, status, toCheckResponse(c))
}
