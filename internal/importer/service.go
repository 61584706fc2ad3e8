package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/importer/sheet"
)

type Service struct {
	importers map[Format]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatSheet: sheet.NewParser(),
		},
	}
}

// Parse reads r with the importer registered for format. An empty format
// means FormatSheet.
func (s *Service) Parse(format Format, r io.Reader) ([]expense.ImportRow, error) {
	if format == "" {
		format = FormatSheet
	}

	imp, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return imp.Parse(r)
}
