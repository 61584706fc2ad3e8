package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/settlement"
)

type shareResponse struct {
	ParticipantID uuid.UUID       `json:"participant_id"`
	Amount        decimal.Decimal `json:"amount"`
}

type expenseResponse struct {
	ID          uuid.UUID        `json:"id"`
	TripID      uuid.UUID        `json:"trip_id"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    ledger.Currency  `json:"currency"`
	PaidBy      *uuid.UUID       `json:"paid_by"`
	ExpenseDate string           `json:"expense_date"`
	SplitType   ledger.SplitType `json:"split_type"`
	Shares      []shareResponse  `json:"shares"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
}

type paymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	TripID    uuid.UUID       `json:"trip_id"`
	From      uuid.UUID       `json:"from_id"`
	To        uuid.UUID       `json:"to_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  ledger.Currency `json:"currency"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedBy uuid.UUID       `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

type balanceResponse struct {
	ParticipantID uuid.UUID       `json:"participant_id"`
	Name          string          `json:"name"`
	Paid          decimal.Decimal `json:"paid"`
	Owes          decimal.Decimal `json:"owes"`
	Balance       decimal.Decimal `json:"balance"`
}

type transferResponse struct {
	From     uuid.UUID       `json:"from_id"`
	FromName string          `json:"from_name"`
	To       uuid.UUID       `json:"to_id"`
	ToName   string          `json:"to_name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency ledger.Currency `json:"currency"`
}

type settlementResponse struct {
	Balances    map[ledger.Currency][]balanceResponse `json:"balances"`
	Settlements []transferResponse                    `json:"settlements"`
	Currencies  []ledger.Currency                     `json:"currencies"`
}

func toExpense(e *ledger.Expense) expenseResponse {
	shares := make([]shareResponse, len(e.Shares))
	for i, sh := range e.Shares {
		shares[i] = shareResponse{ParticipantID: sh.ParticipantID, Amount: sh.Amount}
	}

	return expenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    e.Currency,
		PaidBy:      e.PaidBy,
		ExpenseDate: e.ExpenseDate.Format(time.DateOnly),
		SplitType:   e.SplitType,
		Shares:      shares,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toPayment(p *ledger.Payment) paymentResponse {
	return paymentResponse{
		ID:        p.ID,
		TripID:    p.TripID,
		From:      p.From,
		To:        p.To,
		Amount:    p.Amount,
		Currency:  p.Currency,
		PaidAt:    p.PaidAt,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

func toSettlement(res settlement.Result) settlementResponse {
	resp := settlementResponse{
		Balances:    make(map[ledger.Currency][]balanceResponse, len(res.Balances)),
		Settlements: make([]transferResponse, len(res.Transfers)),
		Currencies:  res.Currencies,
	}

	if resp.Currencies == nil {
		resp.Currencies = []ledger.Currency{}
	}

	for cur, balances := range res.Balances {
		list := make([]balanceResponse, len(balances))
		for i, b := range balances {
			list[i] = balanceResponse{
				ParticipantID: b.ParticipantID,
				Name:          b.Name,
				Paid:          b.Paid,
				Owes:          b.Owes,
				Balance:       b.Balance,
			}
		}

		resp.Balances[cur] = list
	}

	for i, t := range res.Transfers {
		resp.Settlements[i] = transferResponse{
			From:     t.From,
			FromName: t.FromName,
			To:       t.To,
			ToName:   t.ToName,
			Amount:   t.Amount,
			Currency: t.Currency,
		}
	}

	return resp
}
