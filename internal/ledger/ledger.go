package ledger

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code. Amounts in different currencies are never combined.
type Currency string

const (
	CurrencyCLP Currency = "CLP"
	CurrencyJPY Currency = "JPY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyKRW Currency = "KRW"
	CurrencyCNY Currency = "CNY"
	CurrencyTHB Currency = "THB"
)

// Currencies lists the currencies a trip can record expenses in.
var Currencies = []Currency{
	CurrencyCLP, CurrencyJPY, CurrencyUSD, CurrencyEUR,
	CurrencyGBP, CurrencyKRW, CurrencyCNY, CurrencyTHB,
}

var ErrUnsupportedCurrency = errors.New("unsupported currency")

func (c Currency) Valid() bool {
	return slices.Contains(Currencies, c)
}

// SplitType describes how an expense is divided among its participants.
type SplitType string

const (
	SplitEqual SplitType = "EQUAL"
)

// Participant is the minimal view of a trip member needed to compute balances.
type Participant struct {
	ID   uuid.UUID
	Name string
}

// Share is one participant's portion of an expense.
type Share struct {
	ParticipantID uuid.UUID
	Amount        decimal.Decimal
}

// Expense is a shared cost recorded against a trip.
// The amounts of its Shares always sum to Amount.
type Expense struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Description string
	Amount      decimal.Decimal
	Currency    Currency
	PaidBy      *uuid.UUID // nil when nobody has paid yet
	ExpenseDate time.Time
	SplitType   SplitType
	CreatedBy   uuid.UUID
	Shares      []Share
	CreatedAt   time.Time
}

// Payment is a direct transfer between two participants recorded outside the expense ledger.
type Payment struct {
	ID       uuid.UUID
	TripID   uuid.UUID
	From     uuid.UUID
	To       uuid.UUID
	Amount   decimal.Decimal
	Currency Currency
	PaidAt   time.Time

	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// EqualSplit divides total among the given participants. Each share is floored to
// the cent and the leftover cents go to the first participant, so shares always
// sum to total.
func EqualSplit(total decimal.Decimal, among []uuid.UUID) []Share {
	if len(among) == 0 {
		return nil
	}

	n := decimal.NewFromInt(int64(len(among)))
	per := total.Div(n).RoundFloor(2)
	remainder := total.Sub(per.Mul(n))

	shares := make([]Share, len(among))
	for i, id := range among {
		shares[i] = Share{ParticipantID: id, Amount: per}
	}

	shares[0].Amount = shares[0].Amount.Add(remainder)

	return shares
}
