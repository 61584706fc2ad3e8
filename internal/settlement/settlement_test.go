package settlement_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
	"github.com/MrJamesThe3rd/tripsplit/internal/settlement"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func equalExpense(amount string, cur ledger.Currency, payer *uuid.UUID, among ...uuid.UUID) ledger.Expense {
	total := dec(amount)
	per := total.Div(decimal.NewFromInt(int64(len(among)))).RoundFloor(2)
	remainder := total.Sub(per.Mul(decimal.NewFromInt(int64(len(among)))))

	shares := make([]ledger.Share, len(among))
	for i, id := range among {
		shares[i] = ledger.Share{ParticipantID: id, Amount: per}
		if i == 0 {
			shares[i].Amount = per.Add(remainder)
		}
	}

	return ledger.Expense{
		ID:       uuid.New(),
		Amount:   total,
		Currency: cur,
		PaidBy:   payer,
		Shares:   shares,
	}
}

type trio struct {
	a, b, c      ledger.Participant
	participants []ledger.Participant
}

func newTrio() trio {
	t := trio{
		a: ledger.Participant{ID: uuid.New(), Name: "A"},
		b: ledger.Participant{ID: uuid.New(), Name: "B"},
		c: ledger.Participant{ID: uuid.New(), Name: "C"},
	}
	t.participants = []ledger.Participant{t.a, t.b, t.c}

	return t
}

func balanceOf(t *testing.T, balances []settlement.Balance, id uuid.UUID) settlement.Balance {
	t.Helper()

	for _, b := range balances {
		if b.ParticipantID == id {
			return b
		}
	}

	t.Fatalf("no balance for participant %s", id)

	return settlement.Balance{}
}

func TestCalculate_EqualSplitSinglePayer(t *testing.T) {
	p := newTrio()
	expenses := []ledger.Expense{
		equalExpense("300", ledger.CurrencyCLP, &p.a.ID, p.a.ID, p.b.ID, p.c.ID),
	}

	res := settlement.Calculate(expenses, p.participants, nil)

	require.Equal(t, []ledger.Currency{ledger.CurrencyCLP}, res.Currencies)

	balances := res.Balances[ledger.CurrencyCLP]
	require.Len(t, balances, 3)
	assert.True(t, balanceOf(t, balances, p.a.ID).Balance.Equal(dec("200")))
	assert.True(t, balanceOf(t, balances, p.b.ID).Balance.Equal(dec("-100")))
	assert.True(t, balanceOf(t, balances, p.c.ID).Balance.Equal(dec("-100")))
	assert.True(t, balanceOf(t, balances, p.a.ID).Paid.Equal(dec("300")))
	assert.True(t, balanceOf(t, balances, p.a.ID).Owes.Equal(dec("100")))

	require.Len(t, res.Transfers, 2)
	assert.Equal(t, p.b.ID, res.Transfers[0].From)
	assert.Equal(t, p.a.ID, res.Transfers[0].To)
	assert.True(t, res.Transfers[0].Amount.Equal(dec("100")))
	assert.Equal(t, p.c.ID, res.Transfers[1].From)
	assert.Equal(t, p.a.ID, res.Transfers[1].To)
	assert.True(t, res.Transfers[1].Amount.Equal(dec("100")))
	assert.Equal(t, ledger.CurrencyCLP, res.Transfers[1].Currency)
	assert.Equal(t, "B", res.Transfers[0].FromName)
	assert.Equal(t, "A", res.Transfers[0].ToName)
}

func TestCalculate_PriorFullPayment(t *testing.T) {
	p := newTrio()
	expenses := []ledger.Expense{
		equalExpense("300", ledger.CurrencyCLP, &p.a.ID, p.a.ID, p.b.ID, p.c.ID),
	}
	payments := []ledger.Payment{
		{ID: uuid.New(), From: p.b.ID, To: p.a.ID, Amount: dec("100"), Currency: ledger.CurrencyCLP},
	}

	res := settlement.Calculate(expenses, p.participants, payments)

	balances := res.Balances[ledger.CurrencyCLP]
	assert.True(t, balanceOf(t, balances, p.b.ID).Balance.Abs().LessThan(settlement.Epsilon))
	assert.True(t, balanceOf(t, balances, p.a.ID).Balance.Equal(dec("100")))

	require.Len(t, res.Transfers, 1)
	assert.Equal(t, p.c.ID, res.Transfers[0].From)
	assert.Equal(t, p.a.ID, res.Transfers[0].To)

	for _, tr := range res.Transfers {
		assert.NotEqual(t, p.b.ID, tr.From)
		assert.NotEqual(t, p.b.ID, tr.To)
	}
}

func TestCalculate_CurrenciesAreIndependent(t *testing.T) {
	p := newTrio()
	expenses := []ledger.Expense{
		equalExpense("90", ledger.CurrencyUSD, &p.b.ID, p.a.ID, p.b.ID, p.c.ID),
		equalExpense("3000", ledger.CurrencyJPY, &p.c.ID, p.b.ID, p.c.ID),
	}
	payments := []ledger.Payment{
		{ID: uuid.New(), From: p.a.ID, To: p.c.ID, Amount: dec("10"), Currency: ledger.CurrencyEUR},
	}

	res := settlement.Calculate(expenses, p.participants, payments)

	require.Equal(t, []ledger.Currency{ledger.CurrencyUSD, ledger.CurrencyJPY, ledger.CurrencyEUR}, res.Currencies)

	usd := res.Balances[ledger.CurrencyUSD]
	assert.True(t, balanceOf(t, usd, p.b.ID).Balance.Equal(dec("60")))
	assert.True(t, balanceOf(t, usd, p.a.ID).Balance.Equal(dec("-30")))

	jpy := res.Balances[ledger.CurrencyJPY]
	assert.True(t, balanceOf(t, jpy, p.a.ID).Balance.IsZero())
	assert.True(t, balanceOf(t, jpy, p.c.ID).Balance.Equal(dec("1500")))

	// A payment alone opens a currency: A is owed back what they sent.
	eur := res.Balances[ledger.CurrencyEUR]
	assert.True(t, balanceOf(t, eur, p.a.ID).Balance.Equal(dec("10")))
	assert.True(t, balanceOf(t, eur, p.c.ID).Balance.Equal(dec("-10")))

	byCurrency := make(map[ledger.Currency]int)
	for _, tr := range res.Transfers {
		byCurrency[tr.Currency]++
	}

	assert.Equal(t, 2, byCurrency[ledger.CurrencyUSD])
	assert.Equal(t, 1, byCurrency[ledger.CurrencyJPY])
	assert.Equal(t, 1, byCurrency[ledger.CurrencyEUR])
}

func TestCalculate_BalancedCurrencyHasNoTransfers(t *testing.T) {
	p := newTrio()
	expenses := []ledger.Expense{
		equalExpense("100", ledger.CurrencyEUR, &p.a.ID, p.a.ID, p.b.ID),
		equalExpense("100", ledger.CurrencyEUR, &p.b.ID, p.a.ID, p.b.ID),
	}

	res := settlement.Calculate(expenses, p.participants, nil)

	require.Contains(t, res.Balances, ledger.CurrencyEUR)
	assert.Len(t, res.Balances[ledger.CurrencyEUR], 3)
	assert.Empty(t, res.Transfers)
}

func TestCalculate_NoInput(t *testing.T) {
	p := newTrio()

	res := settlement.Calculate(nil, p.participants, nil)

	assert.Empty(t, res.Currencies)
	assert.Empty(t, res.Balances)
	assert.Empty(t, res.Transfers)
}

func TestCalculate_TiesKeepParticipantOrder(t *testing.T) {
	ps := make([]ledger.Participant, 5)
	for i := range ps {
		ps[i] = ledger.Participant{ID: uuid.New(), Name: string(rune('A' + i))}
	}

	// Two creditors owed the same, three debtors owing the same.
	expenses := []ledger.Expense{
		equalExpense("50", ledger.CurrencyUSD, &ps[3].ID, ps[0].ID, ps[1].ID, ps[2].ID, ps[3].ID, ps[4].ID),
		equalExpense("50", ledger.CurrencyUSD, &ps[1].ID, ps[0].ID, ps[1].ID, ps[2].ID, ps[3].ID, ps[4].ID),
	}

	first := settlement.Calculate(expenses, ps, nil)
	for range 10 {
		again := settlement.Calculate(expenses, ps, nil)
		require.Equal(t, len(first.Transfers), len(again.Transfers))

		for i := range first.Transfers {
			assert.Equal(t, first.Transfers[i].From, again.Transfers[i].From)
			assert.Equal(t, first.Transfers[i].To, again.Transfers[i].To)
			assert.True(t, first.Transfers[i].Amount.Equal(again.Transfers[i].Amount))
		}
	}

	// Creditor B precedes D, debtor A precedes C precedes E.
	require.NotEmpty(t, first.Transfers)
	assert.Equal(t, ps[1].ID, first.Transfers[0].To)
	assert.Equal(t, ps[0].ID, first.Transfers[0].From)
}

func TestCalculate_IgnoresUnknownParticipants(t *testing.T) {
	p := newTrio()
	stranger := uuid.New()
	expenses := []ledger.Expense{
		equalExpense("60", ledger.CurrencyUSD, &stranger, p.a.ID, p.b.ID),
	}

	res := settlement.Calculate(expenses, p.participants, nil)

	usd := res.Balances[ledger.CurrencyUSD]
	require.Len(t, usd, 3)
	assert.True(t, balanceOf(t, usd, p.a.ID).Balance.Equal(dec("-30")))
	assert.Empty(t, res.Transfers)
}

func TestCalculate_SettlementsZeroEveryBalance(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	ps := make([]ledger.Participant, 6)
	for i := range ps {
		ps[i] = ledger.Participant{ID: uuid.New(), Name: string(rune('A' + i))}
	}

	currenciesUsed := []ledger.Currency{ledger.CurrencyCLP, ledger.CurrencyUSD, ledger.CurrencyEUR}

	var expenses []ledger.Expense

	for range 40 {
		n := 1 + rng.IntN(len(ps))
		perm := rng.Perm(len(ps))[:n]

		among := make([]uuid.UUID, n)
		for i, idx := range perm {
			among[i] = ps[idx].ID
		}

		payer := ps[rng.IntN(len(ps))].ID
		cents := 100 + rng.IntN(50000)
		amount := decimal.New(int64(cents), -2)
		cur := currenciesUsed[rng.IntN(len(currenciesUsed))]

		expenses = append(expenses, equalExpense(amount.String(), cur, &payer, among...))
	}

	res := settlement.Calculate(expenses, ps, nil)

	for _, cur := range res.Currencies {
		balances := res.Balances[cur]

		positive, negative := decimal.Zero, decimal.Zero
		remaining := make(map[uuid.UUID]decimal.Decimal, len(balances))

		for _, b := range balances {
			remaining[b.ParticipantID] = b.Balance

			if b.Balance.IsPositive() {
				positive = positive.Add(b.Balance)
			} else {
				negative = negative.Add(b.Balance.Abs())
			}
		}

		assert.True(t, positive.Sub(negative).Abs().LessThan(settlement.Epsilon),
			"%s: owed %s vs owing %s", cur, positive, negative)

		transfers := 0

		for _, tr := range res.Transfers {
			if tr.Currency != cur {
				continue
			}

			transfers++
			remaining[tr.From] = remaining[tr.From].Add(tr.Amount)
			remaining[tr.To] = remaining[tr.To].Sub(tr.Amount)
		}

		for id, r := range remaining {
			assert.True(t, r.Abs().LessThanOrEqual(settlement.Epsilon), "%s: participant %s left with %s", cur, id, r)
		}

		assert.LessOrEqual(t, transfers, len(ps)-1)
	}
}
