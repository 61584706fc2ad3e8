package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tripsplit/internal/auth"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

type contextKey struct{}

// WithUserID returns a context carrying the authenticated caller.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// UserID returns the authenticated caller. It is only missing when a
// handler is mounted outside Authenticate.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type UserGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Authenticate requires a valid bearer token whose user is still ACTIVE.
func Authenticate(tokens TokenValidator, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")

			claims, err := tokens.Validate(strings.TrimSpace(raw))
			if err != nil {
				WriteError(w, r, err)
				return
			}

			id, err := claims.UserID()
			if err != nil {
				WriteError(w, r, auth.ErrInvalidToken)
				return
			}

			u, err := users.Get(r.Context(), id)
			if errors.Is(err, user.ErrNotFound) {
				WriteError(w, r, auth.ErrInvalidToken)
				return
			}

			if err != nil {
				WriteError(w, r, err)
				return
			}

			if u.Status != user.StatusActive {
				slog.Warn("auth.inactive_user", "user_id", u.ID, "status", u.Status)
				WriteError(w, r, user.ErrInactive)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), u.ID)))
		})
	}
}

// Caller extracts the authenticated user or writes a 401.
func Caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := UserID(r.Context())
	if !ok {
		WriteError(w, r, auth.ErrMissingToken)
	}

	return id, ok
}

// PathID parses a UUID URL parameter or writes a 400.
func PathID(w http.ResponseWriter, r *http.Request, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		WriteError(w, r, &ValidationError{Fields: map[string]string{name: name + " must be a valid UUID"}})
		return uuid.Nil, false
	}

	return id, true
}
