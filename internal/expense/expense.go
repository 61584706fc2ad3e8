package expense

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound              = errors.New("expense not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrIneligibleParticipant = errors.New("participant does not belong to this trip")
	ErrSameParticipant       = errors.New("a payment needs two different participants")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrNoShares              = errors.New("an expense must be split among at least one participant")
	ErrDescriptionRequired   = errors.New("description is required")
	ErrReadOnly              = errors.New("viewers cannot record expenses or payments")
	ErrUnknownParticipant    = errors.New("no trip participant with that name")
	ErrEmptyImport           = errors.New("import contains no rows")
)

// RowError ties an import failure to the spreadsheet line that caused it.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ImportRow is one parsed spreadsheet line. Participants are referenced by
// display name and resolved against the trip when the batch is imported.
type ImportRow struct {
	Line        int
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Currency    string   // empty means the trip's default currency
	PaidBy      string   // empty means nobody has paid yet
	SplitAmong  []string // empty means every participant
}
