package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	"github.com/MrJamesThe3rd/tripsplit/internal/settlement"
)

// BalancesModel shows who owes whom in each of the trip's currencies.
type BalancesModel struct {
	session        Session
	expenseService *expense.Service

	table       table.Model
	result      settlement.Result
	currencyIdx int
	loading     bool
	err         error
}

func NewBalancesModel(session Session, expenseSvc *expense.Service) BalancesModel {
	return BalancesModel{
		session:        session,
		expenseService: expenseSvc,
		loading:        true,
		table: newTable([]table.Column{
			{Title: "Participant", Width: 24},
			{Title: "Paid", Width: 14},
			{Title: "Share", Width: 14},
			{Title: "Balance", Width: 14},
		}),
	}
}

func (m BalancesModel) Title() string     { return "Balances" }
func (m BalancesModel) ShortHelp() string { return "c: next currency | r: refresh | Esc: back" }

func (m BalancesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BalancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBalancesMsg:
		m.loading = false
		m.err = msg.err
		m.result = msg.result

		if m.currencyIdx >= len(m.result.Currencies) {
			m.currencyIdx = 0
		}

		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "c":
			if n := len(m.result.Currencies); n > 0 {
				m.currencyIdx = (m.currencyIdx + 1) % n
				m.refreshTable()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BalancesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Computing balances...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if len(m.result.Currencies) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No expenses recorded yet.\n\n(Esc to go back)")
	}

	cur := m.result.Currencies[m.currencyIdx]

	labels := make([]string, len(m.result.Currencies))
	for i, c := range m.result.Currencies {
		labels[i] = string(c)
		if i == m.currencyIdx {
			labels[i] = activeStyle(string(c))
		}
	}

	var transfers strings.Builder

	for _, t := range m.result.Transfers {
		if t.Currency != cur {
			continue
		}

		fmt.Fprintf(&transfers, "  %s pays %s %s\n", t.FromName, t.ToName, FormatMoney(t.Amount, t.Currency))
	}

	if transfers.Len() == 0 {
		transfers.WriteString(okStyle("  Everyone is settled up.") + "\n")
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("Trip: %s | [c] Currency: %s",
			activeStyle(m.session.Trip.Name), strings.Join(labels, " "))),
		boxed(m.table.View()),
		lipgloss.NewStyle().PaddingTop(1).Render("Suggested transfers:\n"+transfers.String()),
	))
}

func (m *BalancesModel) refreshTable() {
	if len(m.result.Currencies) == 0 {
		m.table.SetRows(nil)
		return
	}

	cur := m.result.Currencies[m.currencyIdx]
	balances := m.result.Balances[cur]

	rows := make([]table.Row, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, table.Row{
			b.Name,
			FormatMoney(b.Paid, cur),
			FormatMoney(b.Owes, cur),
			FormatMoney(b.Balance, cur),
		})
	}

	m.table.SetRows(rows)
}

type loadBalancesMsg struct {
	result settlement.Result
	err    error
}

func (m BalancesModel) loadCmd() tea.Cmd {
	tripID, userID := m.session.Trip.ID, m.session.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.expenseService.Settle(ctx, userID, tripID)

		return loadBalancesMsg{result: res, err: err}
	}
}
