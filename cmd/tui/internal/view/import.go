package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/importer"
	"github.com/MrJamesThe3rd/tripsplit/internal/ledger"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStatePreview
	importStateImporting
	importStateResult
)

// ImportModel reads an expense spreadsheet, previews its rows and records
// them against the open trip in one batch.
type ImportModel struct {
	session        Session
	expenseService *expense.Service
	importService  *importer.Service

	state      importState
	filePicker filepicker.Model
	rows       []expense.ImportRow
	preview    list.Model

	status string
	err    error
}

func NewImportModel(session Session, expenseSvc *expense.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		session:        session,
		expenseService: expenseSvc,
		importService:  impSvc,
		filePicker:     fp,
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: import all | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStatePreview {
			if msg.Type == tea.KeyEnter {
				m.state = importStateImporting
				m.status = fmt.Sprintf("Recording %d expenses...", len(m.rows))

				return m, m.importCmd()
			}

			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)

			return m, cmd
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.rows) == 0 {
			m.state = importStateResult
			m.err = expense.ErrEmptyImport
			m.status = "The file has a header but no expense rows."

			return m, nil
		}

		m.rows = msg.rows
		m.state = importStatePreview

		items := make([]list.Item, len(m.rows))
		for i, r := range m.rows {
			items[i] = rowItem{row: r, currency: m.session.Trip.DefaultCurrency}
		}

		m.preview = list.New(items, rowDelegate{}, 80, 20)
		m.preview.Title = fmt.Sprintf("%d expenses for %s", len(m.rows), m.session.Trip.Name)
		m.preview.SetShowStatusBar(false)
		m.preview.SetFilteringEnabled(false)
		m.preview.SetShowHelp(false)

		return m, nil

	case importDoneMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d expenses.", msg.count)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.status = fmt.Sprintf("Reading %s...", path)
		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.rows = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a spreadsheet (CSV) to import into %s:\n\n%s", m.session.Trip.Name, m.filePicker.View()),
		)
	case importStatePreview:
		return lipgloss.NewStyle().Padding(1).Render(m.preview.View())
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		msg := okStyle(m.status)
		if m.err != nil {
			msg = errorStyle(m.status)
		}

		return lipgloss.NewStyle().Padding(2).Render(msg + "\n\n(Esc to go back)")
	}

	return ""
}

// Messages

type parseResultMsg struct {
	rows []expense.ImportRow
	err  error
}

type importDoneMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importService.Parse(importer.FormatSheet, f)

		return parseResultMsg{rows: rows, err: err}
	}
}

func (m ImportModel) importCmd() tea.Cmd {
	rows := m.rows
	tripID, userID := m.session.Trip.ID, m.session.UserID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		created, err := m.expenseService.Import(ctx, userID, tripID, rows)
		if err != nil {
			return importDoneMsg{err: err}
		}

		return importDoneMsg{count: len(created)}
	}
}

// Preview list item

type rowItem struct {
	row      expense.ImportRow
	currency ledger.Currency
}

func (i rowItem) Title() string       { return i.row.Description }
func (i rowItem) Description() string { return "" }
func (i rowItem) FilterValue() string { return i.row.Description }

type rowDelegate struct{}

func (d rowDelegate) Height() int                             { return 2 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(rowItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	currency := it.currency
	if it.row.Currency != "" {
		currency = ledger.Currency(strings.ToUpper(it.row.Currency))
	}

	paidBy := it.row.PaidBy
	if paidBy == "" {
		paidBy = "nobody yet"
	}

	among := "everyone"
	if len(it.row.SplitAmong) > 0 {
		among = strings.Join(it.row.SplitAmong, ", ")
	}

	line1 := fmt.Sprintf("%s%s  %s  %s", cursor, FormatDate(it.row.Date), FormatMoney(it.row.Amount, currency), it.row.Description)
	line2 := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("      line %d | paid by %s | split among %s", it.row.Line, paidBy, among))

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
