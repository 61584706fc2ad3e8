package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/tripsplit/internal/auth"
	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/importer"
	"github.com/MrJamesThe3rd/tripsplit/internal/importer/sheet"
	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
)

type mapping struct {
	target error
	status int
	code   string
}

// mappings is checked in order with errors.Is.
var mappings = []mapping{
	{item.ErrNotFound, http.StatusNotFound, "ITEM_NOT_FOUND"},
	{item.ErrOwnItem, http.StatusForbidden, "OWN_ITEM"},
	{item.ErrNotPending, http.StatusConflict, "NOT_PENDING"},
	{item.ErrNotApproved, http.StatusConflict, "NOT_APPROVED"},
	{item.ErrDuplicateSubmission, http.StatusConflict, "DUPLICATE_SUBMISSION"},
	{item.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{item.ErrInvalidVoteValue, http.StatusBadRequest, "INVALID_VOTE"},
	{item.ErrInvalidCategory, http.StatusBadRequest, "INVALID_CATEGORY"},

	{trip.ErrNotFound, http.StatusNotFound, "TRIP_NOT_FOUND"},
	{trip.ErrNotMember, http.StatusForbidden, "NOT_MEMBER"},
	{trip.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{trip.ErrParticipantNotFound, http.StatusNotFound, "PARTICIPANT_NOT_FOUND"},
	{trip.ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
	{trip.ErrLastAdmin, http.StatusConflict, "LAST_ADMIN"},
	{trip.ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE"},
	{trip.ErrInvalidType, http.StatusBadRequest, "INVALID_TYPE"},
	{trip.ErrInactiveUser, http.StatusBadRequest, "INACTIVE_USER"},
	{trip.ErrInvalidDates, http.StatusBadRequest, "INVALID_DATES"},
	{trip.ErrNameRequired, http.StatusBadRequest, "NAME_REQUIRED"},

	{user.ErrNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{user.ErrSelfChange, http.StatusForbidden, "SELF_CHANGE"},
	{user.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{user.ErrUnchanged, http.StatusConflict, "UNCHANGED"},
	{user.ErrInactive, http.StatusForbidden, "INACTIVE_USER"},
	{user.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},

	{expense.ErrNotFound, http.StatusNotFound, "EXPENSE_NOT_FOUND"},
	{expense.ErrPaymentNotFound, http.StatusNotFound, "PAYMENT_NOT_FOUND"},
	{expense.ErrIneligibleParticipant, http.StatusBadRequest, "INELIGIBLE_SPLIT_PARTICIPANT"},
	{expense.ErrSameParticipant, http.StatusBadRequest, "SAME_PARTICIPANT"},
	{expense.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{expense.ErrNoShares, http.StatusBadRequest, "NO_SHARES"},
	{expense.ErrDescriptionRequired, http.StatusBadRequest, "DESCRIPTION_REQUIRED"},
	{expense.ErrReadOnly, http.StatusForbidden, "READ_ONLY"},
	{expense.ErrUnknownParticipant, http.StatusBadRequest, "UNKNOWN_PARTICIPANT"},
	{expense.ErrEmptyImport, http.StatusBadRequest, "EMPTY_IMPORT"},
	{importer.ErrUnknownFormat, http.StatusBadRequest, "UNKNOWN_FORMAT"},
	{sheet.ErrNoHeader, http.StatusBadRequest, "NO_HEADER"},
	{ledger.ErrUnsupportedCurrency, http.StatusBadRequest, "UNSUPPORTED_CURRENCY"},

	{auth.ErrMissingToken, http.StatusUnauthorized, "UNAUTHENTICATED"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHENTICATED"},
}

// WriteError maps a service error to its HTTP status. Unknown errors are
// logged and reported as 500 without their message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		JSON(w, http.StatusBadRequest, ErrorResponse{Error: ve.Error(), Code: "VALIDATION", Fields: ve.Fields})
		return
	}

	for _, m := range mappings {
		if !errors.Is(err, m.target) {
			continue
		}

		resp := ErrorResponse{Error: err.Error(), Code: m.code}

		var re *expense.RowError
		if errors.As(err, &re) {
			resp.Line = re.Line
		}

		var np *item.NotPendingError
		if errors.As(err, &np) {
			resp.Status = string(np.Status)
		}

		JSON(w, m.status, resp)

		return
	}

	slog.Error("request.failed", "method", r.Method, "path", r.URL.Path, "error", err)
	Error(w, http.StatusInternalServerError, "internal error")
}
