package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
)

// Format names a spreadsheet layout family.
type Format string

const (
	FormatSheet Format = "sheet"
)

var ErrUnknownFormat = errors.New("unknown import format")

type Importer interface {
	Parse(r io.Reader) ([]expense.ImportRow, error)
}
