package expense

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/http/api"
	"github.com/MrJamesThe3rd/tripsplit/internal/importer"
	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/settlement"
)

// maxUpload bounds the size of an imported spreadsheet.
const maxUpload = 10 << 20

type Service interface {
	CreateExpense(ctx context.Context, actorID uuid.UUID, params expense.CreateExpenseParams) (*ledger.Expense, error)
	ListExpenses(ctx context.Context, actorID, tripID uuid.UUID) ([]ledger.Expense, error)
	DeleteExpense(ctx context.Context, actorID, tripID, id uuid.UUID) error
	CreatePayment(ctx context.Context, actorID uuid.UUID, params expense.CreatePaymentParams) (*ledger.Payment, error)
	ListPayments(ctx context.Context, actorID, tripID uuid.UUID) ([]ledger.Payment, error)
	DeletePayment(ctx context.Context, actorID, tripID, id uuid.UUID) error
	Settle(ctx context.Context, actorID, tripID uuid.UUID) (settlement.Result, error)
	Import(ctx context.Context, actorID, tripID uuid.UUID, rows []expense.ImportRow) ([]*ledger.Expense, error)
}

type Parser interface {
	Parse(format importer.Format, r io.Reader) ([]expense.ImportRow, error)
}

type Handler struct {
	svc      Service
	parser   Parser
	validate *api.Validator
}

func NewHandler(svc Service, parser Parser, validate *api.Validator) *Handler {
	return &Handler{svc: svc, parser: parser, validate: validate}
}

// ExpenseRoutes is mounted under /trips/{tripID}/expenses.
func (h *Handler) ExpenseRoutes(r chi.Router) {
	r.Get("/", h.listExpenses)
	r.Post("/", h.createExpense)
	r.Post("/import", h.importExpenses)
	r.Delete("/{expenseID}", h.deleteExpense)
}

// PaymentRoutes is mounted under /trips/{tripID}/payments.
func (h *Handler) PaymentRoutes(r chi.Router) {
	r.Get("/", h.listPayments)
	r.Post("/", h.createPayment)
	r.Delete("/{paymentID}", h.deletePayment)
}

// caller returns the authenticated user and the trip in the URL.
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

type createExpenseRequest struct {
	Description string          `json:"description" validate:"required,max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    ledger.Currency `json:"currency" validate:"required,len=3"`
	PaidBy      *uuid.UUID      `json:"paid_by"`
	ExpenseDate string          `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
	SplitAmong  []uuid.UUID     `json:"split_among" validate:"required,min=1"`
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	var req createExpenseRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	var date time.Time
	if req.ExpenseDate != "" {
		date, _ = time.Parse(time.DateOnly, req.ExpenseDate)
	}

	e, err := h.svc.CreateExpense(r.Context(), userID, expense.CreateExpenseParams{
		TripID:      tripID,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		PaidBy:      req.PaidBy,
		ExpenseDate: date,
		SplitAmong:  req.SplitAmong,
	})
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, toExpense(e))
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	expenses, err := h.svc.ListExpenses(r.Context(), userID, tripID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i := range expenses {
		resp[i] = toExpense(&expenses[i])
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	id, ok := api.PathID(w, r, chi.URLParam(r, "expenseID"), "expenseID")
	if !ok {
		return
	}

	if err := h.svc.DeleteExpense(r.Context(), userID, tripID, id); err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported int               `json:"imported"`
	Expenses []expenseResponse `json:"expenses"`
}

func (h *Handler) importExpenses(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		api.Error(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	rows, err := h.parser.Parse(importer.Format(r.FormValue("format")), file)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	created, err := h.svc.Import(r.Context(), userID, tripID, rows)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	resp := importResponse{Imported: len(created), Expenses: make([]expenseResponse, len(created))}
	for i, e := range created {
		resp.Expenses[i] = toExpense(e)
	}

	api.JSON(w, http.StatusCreated, resp)
}

type createPaymentRequest struct {
	From     uuid.UUID       `json:"from_id" validate:"required"`
	To       uuid.UUID       `json:"to_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Currency ledger.Currency `json:"currency" validate:"required,len=3"`
	PaidAt   *time.Time      `json:"paid_at"`
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	var req createPaymentRequest
	if err := h.validate.Decode(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}

	params := expense.CreatePaymentParams{
		TripID:   tripID,
		From:     req.From,
		To:       req.To,
		Amount:   req.Amount,
		Currency: req.Currency,
	}

	if req.PaidAt != nil {
		params.PaidAt = *req.PaidAt
	}

	p, err := h.svc.CreatePayment(r.Context(), userID, params)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusCreated, toPayment(p))
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	payments, err := h.svc.ListPayments(r.Context(), userID, tripID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i := range payments {
		resp[i] = toPayment(&payments[i])
	}

	api.JSON(w, http.StatusOK, resp)
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	id, ok := api.PathID(w, r, chi.URLParam(r, "paymentID"), "paymentID")
	if !ok {
		return
	}

	if err := h.svc.DeletePayment(r.Context(), userID, tripID, id); err != nil {
		api.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Settlement serves GET /trips/{tripID}/settlement.
func (h *Handler) Settlement(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := caller(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Settle(r.Context(), userID, tripID)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toSettlement(res))
}
