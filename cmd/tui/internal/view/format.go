package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
)

const dbTimeout = 5 * time.Second

// FormatMoney renders an amount with its currency code, e.g. "1200.00 JPY".
func FormatMoney(amount decimal.Decimal, currency ledger.Currency) string {
	return amount.StringFixed(2) + " " + string(currency)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
