package user

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	ChangeStatus(ctx context.Context, actorID, targetID uuid.UUID, status user.Status) (*user.StatusChange, error)
}

type Handler struct {
	svc      Service
	validate *api.Validator
}

func NewHandler(svc Service, validate *api.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/me", h.me)
	r.Patch("/{id}", h.changeStatus)
}

type userResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Status    user.Status `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	u, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toResponse(u))
}

type changeStatusRequest struct {
	Status user.Status `json:"status" validate:"required,oneof=DISABLED DELETED"`
}

type statusChangeResponse struct {
	User              userResponse `json:"user"`
	ItemsRecalculated int          `json:"items_recalculated"`
}

// changeStatus deactivates or deletes another account. Pending items in every
// trip the user belonged to are re-evaluated as part of the change.
func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := api.Caller(w, r)
	if !ok {
		return
	}

	targetID, ok := api.PathID(w, r, chi.URLParam(r, "id"), "id")
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	res, err := h.svc.ChangeStatus(r.Context(), actorID, targetID, req.Status)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, statusChangeResponse{
		User:              toResponse(res.User),
		ItemsRecalculated: res.ItemsRecalculated,
	})
}
