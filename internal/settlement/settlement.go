// Package settlement reduces a trip's expenses and payments into per-currency
// balances and a short list of transfers that would bring every balance to zero.
//
// Each currency is an independent, closed ledger: there is no conversion.
package settlement

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
)

// Epsilon is the tolerance below which a balance counts as settled.
var Epsilon = decimal.RequireFromString("0.005")

// Balance is a participant's net position in one currency.
// Positive means the participant is owed money, negative means they owe money.
type Balance struct {
	ParticipantID uuid.UUID
	Name          string
	Paid          decimal.Decimal // as expense payer
	Owes          decimal.Decimal // as expense share
	Balance       decimal.Decimal // Paid - Owes, adjusted by payments made and received
}

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	From     uuid.UUID
	FromName string
	To       uuid.UUID
	ToName   string
	Amount   decimal.Decimal // rounded to 2 decimals
	Currency ledger.Currency
}

type Result struct {
	Balances   map[ledger.Currency][]Balance
	Transfers  []Transfer
	Currencies []ledger.Currency // in order of first appearance, expenses before payments
}

// Calculate computes balances and settling transfers for every currency present in
// expenses or payments. Shares, payers and payment ends that reference someone
// outside participants are ignored; input integrity is the caller's concern.
//
// Output is deterministic for a given input order: participants with equal
// balances keep their relative order from participants.
func Calculate(expenses []ledger.Expense, participants []ledger.Participant, payments []ledger.Payment) Result {
	res := Result{
		Balances:   make(map[ledger.Currency][]Balance),
		Currencies: currencies(expenses, payments),
	}

	for _, cur := range res.Currencies {
		balances := computeBalances(cur, expenses, participants, payments)
		res.Balances[cur] = balances
		res.Transfers = append(res.Transfers, match(cur, balances)...)
	}

	return res
}

func currencies(expenses []ledger.Expense, payments []ledger.Payment) []ledger.Currency {
	var out []ledger.Currency

	seen := make(map[ledger.Currency]struct{})
	add := func(c ledger.Currency) {
		if _, ok := seen[c]; ok {
			return
		}

		seen[c] = struct{}{}
		out = append(out, c)
	}

	for _, e := range expenses {
		add(e.Currency)
	}

	for _, p := range payments {
		add(p.Currency)
	}

	return out
}

func computeBalances(
	cur ledger.Currency,
	expenses []ledger.Expense,
	participants []ledger.Participant,
	payments []ledger.Payment,
) []Balance {
	balances := make([]Balance, len(participants))
	index := make(map[uuid.UUID]int, len(participants))

	for i, p := range participants {
		balances[i] = Balance{ParticipantID: p.ID, Name: p.Name}
		index[p.ID] = i
	}

	lookup := func(id uuid.UUID) *Balance {
		i, ok := index[id]
		if !ok {
			return nil
		}

		return &balances[i]
	}

	for _, e := range expenses {
		if e.Currency != cur {
			continue
		}

		if e.PaidBy != nil {
			if b := lookup(*e.PaidBy); b != nil {
				b.Paid = b.Paid.Add(e.Amount)
				b.Balance = b.Balance.Add(e.Amount)
			}
		}

		for _, s := range e.Shares {
			if b := lookup(s.ParticipantID); b != nil {
				b.Owes = b.Owes.Add(s.Amount)
				b.Balance = b.Balance.Sub(s.Amount)
			}
		}
	}

	for _, p := range payments {
		if p.Currency != cur {
			continue
		}

		// The sender already paid part of their debt; the receiver already got part of their credit.
		if b := lookup(p.From); b != nil {
			b.Balance = b.Balance.Add(p.Amount)
		}

		if b := lookup(p.To); b != nil {
			b.Balance = b.Balance.Sub(p.Amount)
		}
	}

	return balances
}

type position struct {
	id     uuid.UUID
	name   string
	amount decimal.Decimal // magnitude still to settle
}

// match pairs the largest creditor with the largest debtor until one side runs out.
func match(cur ledger.Currency, balances []Balance) []Transfer {
	var creditors, debtors []position

	negEpsilon := Epsilon.Neg()

	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(Epsilon):
			creditors = append(creditors, position{id: b.ParticipantID, name: b.Name, amount: b.Balance})
		case b.Balance.LessThan(negEpsilon):
			debtors = append(debtors, position{id: b.ParticipantID, name: b.Name, amount: b.Balance.Neg()})
		}
	}

	largestFirst := func(a, b position) int { return b.amount.Cmp(a.amount) }
	slices.SortStableFunc(creditors, largestFirst)
	slices.SortStableFunc(debtors, largestFirst)

	var transfers []Transfer

	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		c, d := &creditors[ci], &debtors[di]

		amount := decimal.Min(c.amount, d.amount)
		if amount.GreaterThan(Epsilon) {
			transfers = append(transfers, Transfer{
				From:     d.id,
				FromName: d.name,
				To:       c.id,
				ToName:   c.name,
				Amount:   amount.Round(2),
				Currency: cur,
			})
		}

		c.amount = c.amount.Sub(amount)
		d.amount = d.amount.Sub(amount)

		if c.amount.LessThan(Epsilon) {
			ci++
		}

		if d.amount.LessThan(Epsilon) {
			di++
		}
	}

	return transfers
}
