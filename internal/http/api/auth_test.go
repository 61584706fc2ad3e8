package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tripsplit/internal/auth"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

const secret = "0123456789abcdef0123456789abcdef"

type usersFake map[uuid.UUID]*user.User

func (f usersFake) Get(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	return u, nil
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewManager(secret, time.Hour)

	active := &user.User{ID: uuid.New(), Email: "ana@example.com", Status: user.StatusActive}
	disabled := &user.User{ID: uuid.New(), Email: "bo@example.com", Status: user.StatusDisabled}
	users := usersFake{active.ID: active, disabled.ID: disabled}

	sign := func(t *testing.T, id uuid.UUID) string {
		t.Helper()

		token, err := tokens.Generate(id, "x@example.com")
		require.NoError(t, err)

		return "Bearer " + token
	}

	type args struct {
		header func(t *testing.T) string
	}

	type testCase struct {
		name       string
		args       args
		wantStatus int
		wantUser   uuid.UUID
	}

	tests := []testCase{
		{
			name:       "ActiveUser",
			args:       args{header: func(t *testing.T) string { return sign(t, active.ID) }},
			wantStatus: http.StatusOK,
			wantUser:   active.ID,
		},
		{
			name:       "MissingHeader",
			args:       args{header: func(*testing.T) string { return "" }},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "GarbageToken",
			args:       args{header: func(*testing.T) string { return "Bearer not-a-jwt" }},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "UnknownUser",
			args:       args{header: func(t *testing.T) string { return sign(t, uuid.New()) }},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "DisabledUser",
			args:       args{header: func(t *testing.T) string { return sign(t, disabled.ID) }},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen uuid.UUID

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = api.UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
			if h := tt.args.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}

			rec := httptest.NewRecorder()
			api.Authenticate(tokens, users)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestCaller_MissingIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := api.Caller(rec, req)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
