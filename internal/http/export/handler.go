package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
)

type Service interface {
	WriteCSV(ctx context.Context, actorID, tripID uuid.UUID, w io.Writer) error
	Summary(ctx context.Context, actorID, tripID uuid.UUID) (string, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes is mounted under /trips/{tripID}/export.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/expenses.csv", h.csv)
	r.Get("/summary", h.summary)
}

func caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := api.Caller(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	tripID, ok := api.PathID(w, r, chi.URLParam(r, "tripID"), "tripID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	return userID, tripID, true
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	// Buffered so a failure halfway through still gets a proper error status.
	var buf bytes.Buffer
	if err := h.svc.WriteCSV(r.Context(), userID, tripID, &buf); err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="trip-%s.csv"`, tripID))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "trip_id", tripID, "error", err)
	}
}

type summaryResponse struct {
	Text string `json:"text"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	text, err := h.svc.Summary(r.Context(), userID, tripID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, summaryResponse{Text: text})
}
