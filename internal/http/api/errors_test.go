package api_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

func TestWriteError(t *testing.T) {
	type args struct {
		err error
	}

	type testCase struct {
		name       string
		args       args
		wantStatus int
		wantBody   api.ErrorResponse
	}

	tests := []testCase{
		{
			name:       "ItemNotFound",
			args:       args{err: item.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantBody:   api.ErrorResponse{Error: "item not found", Code: "ITEM_NOT_FOUND"},
		},
		{
			name:       "OwnItem",
			args:       args{err: item.ErrOwnItem},
			wantStatus: http.StatusForbidden,
			wantBody:   api.ErrorResponse{Error: "you cannot vote on your own item", Code: "OWN_ITEM"},
		},
		{
			name:       "NotPendingCarriesStatus",
			args:       args{err: &item.NotPendingError{Status: item.StatusApproved}},
			wantStatus: http.StatusConflict,
			wantBody:   api.ErrorResponse{Error: "item is already approved", Code: "NOT_PENDING", Status: "APPROVED"},
		},
		{
			name:       "WrappedSentinel",
			args:       args{err: fmt.Errorf("loading trip: %w", trip.ErrNotMember)},
			wantStatus: http.StatusForbidden,
			wantBody:   api.ErrorResponse{Error: "loading trip: not a member of this trip", Code: "NOT_MEMBER"},
		},
		{
			name:       "Unchanged",
			args:       args{err: &user.UnchangedError{Status: user.StatusDisabled}},
			wantStatus: http.StatusConflict,
			wantBody:   api.ErrorResponse{Error: "user is already disabled", Code: "UNCHANGED"},
		},
		{
			name:       "RowErrorReportsLine",
			args:       args{err: &expense.RowError{Line: 7, Err: expense.ErrUnknownParticipant}},
			wantStatus: http.StatusBadRequest,
			wantBody:   api.ErrorResponse{Error: "row 7: no trip participant with that name", Code: "UNKNOWN_PARTICIPANT", Line: 7},
		},
		{
			name:       "Validation",
			args:       args{err: &api.ValidationError{Fields: map[string]string{"title": "title is a required field"}}},
			wantStatus: http.StatusBadRequest,
			wantBody: api.ErrorResponse{
				Error:  "title is a required field",
				Code:   "VALIDATION",
				Fields: map[string]string{"title": "title is a required field"},
			},
		},
		{
			name:       "UnknownIsHidden",
			args:       args{err: errors.New("pq: connection refused")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   api.ErrorResponse{Error: "internal error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/items", nil)

			api.WriteError(rec, req, tt.args.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
