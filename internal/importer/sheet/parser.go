package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/tripsplit/internal/encoding"
	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
)

// ErrNoHeader is returned when no row carries the columns of a known profile.
var ErrNoHeader = errors.New("no expense header found: expected Date, Description and Amount columns")

// delimiters are tried in order until one yields a recognisable header.
var delimiters = []rune{';', ',', '\t'}

// Parser reads shared-expense spreadsheets exported as CSV.
// It detects the delimiter and the header language, so the header may sit
// below a few title rows and columns may come in any order.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]expense.ImportRow, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	for _, d := range delimiters {
		rows, err := readRecords(data, d)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		return parseRows(profile, cols, rows[headerIdx+1:])
	}

	return nil, ErrNoHeader
}

// record is a CSV row with the 1-based line it started on.
type record struct {
	line  int
	cells []string
}

func readRecords(data []byte, delimiter rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var out []record

	for {
		cells, err := reader.Read()
		if err == io.EOF {
			return out, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		out = append(out, record{line: line, cells: cells})
	}
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows []record) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row.cells {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

func parseRows(p *Profile, cols colIndex, rows []record) ([]expense.ImportRow, error) {
	dateIdx := cols.get(p.DateCol)
	descIdx := cols.get(p.DescCol)
	amountIdx := cols.get(p.AmountCol)
	currencyIdx := cols.get(p.CurrencyCol)
	paidByIdx := cols.get(p.PaidByCol)
	splitIdx := cols.get(p.SplitCol)

	var out []expense.ImportRow

	for _, row := range rows {
		date, ok := parseDate(p, cellValue(row.cells, dateIdx))
		if !ok {
			// Blank lines, totals and other footer rows carry no date.
			continue
		}

		desc := cellValue(row.cells, descIdx)
		if desc == "" {
			return nil, &expense.RowError{Line: row.line, Err: expense.ErrDescriptionRequired}
		}

		raw := cellValue(row.cells, amountIdx)

		amount, err := parseAmount(raw, p.Numbers)
		if err != nil {
			return nil, &expense.RowError{Line: row.line, Err: fmt.Errorf("amount %q: %w", raw, expense.ErrInvalidAmount)}
		}

		out = append(out, expense.ImportRow{
			Line:        row.line,
			Date:        date,
			Description: desc,
			Amount:      amount,
			Currency:    cellValue(row.cells, currencyIdx),
			PaidBy:      cellValue(row.cells, paidByIdx),
			SplitAmong:  splitNames(cellValue(row.cells, splitIdx)),
		})
	}

	return out, nil
}

func parseDate(p *Profile, s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range p.DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// splitNames breaks a "Split among" cell into participant names. Names may be
// separated by commas, slashes, pipes or semicolons.
func splitNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == '|' || r == ';'
	})

	var out []string

	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			out = append(out, name)
		}
	}

	return out
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
