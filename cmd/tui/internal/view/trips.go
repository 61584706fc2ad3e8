package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
)

type TripsModel struct {
	session     Session
	tripService *trip.Service

	table   table.Model
	trips   []*trip.Summary
	loading bool
	err     error
}

func NewTripsModel(session Session, tripSvc *trip.Service) TripsModel {
	return TripsModel{
		session:     session,
		tripService: tripSvc,
		loading:     true,
		table: newTable([]table.Column{
			{Title: "Trip", Width: 30},
			{Title: "Destination", Width: 20},
			{Title: "Role", Width: 8},
			{Title: "Members", Width: 8},
			{Title: "Proposals", Width: 10},
			{Title: "Currency", Width: 8},
		}),
	}
}

func (m TripsModel) Title() string     { return "Trips" }
func (m TripsModel) ShortHelp() string { return "Enter: open | r: refresh | Esc: back" }

func (m TripsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TripsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTripsMsg:
		m.loading = false
		m.err = msg.err
		m.trips = msg.trips
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.trips) {
				return m, nil
			}

			t := m.trips[idx].Trip

			return m, func() tea.Msg { return TripSelectedMsg{Trip: &t} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TripsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading trips...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if len(m.trips) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("You are not a member of any trip yet.\n\n(Esc to go back)")
	}

	return lipgloss.NewStyle().Padding(1).Render(boxed(m.table.View()))
}

func (m *TripsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.trips))
	for _, t := range m.trips {
		rows = append(rows, table.Row{
			t.Name,
			t.Destination,
			string(t.MyRole),
			fmt.Sprint(t.Participants),
			fmt.Sprint(t.Items),
			string(t.DefaultCurrency),
		})
	}

	m.table.SetRows(rows)
}

type loadTripsMsg struct {
	trips []*trip.Summary
	err   error
}

func (m TripsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		trips, err := m.tripService.ListForUser(ctx, m.session.UserID)

		return loadTripsMsg{trips: trips, err: err}
	}
}
