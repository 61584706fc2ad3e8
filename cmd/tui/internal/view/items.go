package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tripsplit/internal/item"
)

type itemsState int

const (
	itemsStateBrowse itemsState = iota
	itemsStatePropose
)

// ItemsModel lists a trip's proposals and lets the user vote on them.
type ItemsModel struct {
	session     Session
	itemService *item.Service

	state   itemsState
	table   table.Model
	items   []*item.Summary
	form    *huh.Form
	loading bool
	err     error
	status  string

	// Form bindings
	formTitle    string
	formCategory item.Category
	formLocation string
	formDesc     string
}

func NewItemsModel(session Session, itemSvc *item.Service) ItemsModel {
	return ItemsModel{
		session:     session,
		itemService: itemSvc,
		loading:     true,
		table: newTable([]table.Column{
			{Title: "Status", Width: 10},
			{Title: "Type", Width: 6},
			{Title: "Title", Width: 32},
			{Title: "Yes", Width: 4},
			{Title: "No", Width: 4},
			{Title: "My vote", Width: 8},
			{Title: "Visited", Width: 8},
		}),
	}
}

func (m ItemsModel) Title() string { return "Proposals" }

func (m ItemsModel) ShortHelp() string {
	if m.state == itemsStatePropose {
		return "Navigate form | Esc: cancel"
	}

	return "a: approve | x: reject | c: check in | n: propose | r: refresh | Esc: back"
}

func (m ItemsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadItemsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.items = msg.items
		m.refreshTable()

		return m, nil

	case itemActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = errorStyle(describeItemError(msg.err))
		}

		m.state = itemsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	if m.state == itemsStatePropose {
		return m.updatePropose(msg)
	}

	return m.updateBrowse(msg)
}

func (m ItemsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m, m.voteCmd(item.VoteApprove)
		case "x":
			return m, m.voteCmd(item.VoteReject)
		case "c":
			return m, m.checkInCmd()
		case "n":
			return m.enterProposeMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ItemsModel) enterProposeMode() (tea.Model, tea.Cmd) {
	m.formTitle = ""
	m.formCategory = item.CategoryPlace
	m.formLocation = ""
	m.formDesc = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Value(&m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title cannot be empty")
					}

					return nil
				}),

			huh.NewSelect[item.Category]().
				Key("category").
				Title("Category").
				Options(
					huh.NewOption("Place", item.CategoryPlace),
					huh.NewOption("Food", item.CategoryFood),
				).
				Value(&m.formCategory),

			huh.NewInput().
				Key("location").
				Title("Location").
				Value(&m.formLocation),

			huh.NewText().
				Key("description").
				Title("Description").
				Value(&m.formDesc),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = itemsStatePropose
	m.table.Blur()

	return m, m.form.Init()
}

func (m ItemsModel) updatePropose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = itemsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.proposeCmd()
}

func (m ItemsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading proposals...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Trip: %s", activeStyle(m.session.Trip.Name))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	if m.state == itemsStatePropose && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Proposal\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ItemsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		myVote := ""
		if it.MyVote != nil {
			myVote = string(*it.MyVote)
		}

		rows = append(rows, table.Row{
			string(it.Status),
			string(it.Category),
			it.Title,
			fmt.Sprint(it.Approvals),
			fmt.Sprint(it.Rejections),
			myVote,
			fmt.Sprint(it.Checks),
		})
	}

	m.table.SetRows(rows)
}

func (m ItemsModel) selected() *item.Summary {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func describeItemError(err error) string {
	var np *item.NotPendingError

	switch {
	case errors.As(err, &np):
		return fmt.Sprintf("Voting closed: %s. The list has been refreshed.", err)
	case errors.Is(err, item.ErrOwnItem):
		return "You proposed this one, your approval is already counted."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// Messages

type loadItemsMsg struct {
	items []*item.Summary
	err   error
}

type itemActionMsg struct {
	status string
	err    error
}

func (m ItemsModel) loadCmd() tea.Cmd {
	tripID, userID := m.session.Trip.ID, m.session.UserID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.itemService.ListByTrip(ctx, tripID, userID)

		return loadItemsMsg{items: items, err: err}
	}
}

func (m ItemsModel) voteCmd(value item.VoteValue) tea.Cmd {
	it := m.selected()
	if it == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.itemService.CastVote(ctx, it.ID, m.session.UserID, value)
		if err != nil {
			return itemActionMsg{err: err}
		}

		return itemActionMsg{status: okStyle(fmt.Sprintf("%s: %s (%d/%d approvals, %d/%d rejections needed of %d voters)",
			it.Title, res.Status,
			res.Tally.Approvals, res.Tally.Required,
			res.Tally.Rejections, res.Tally.Required,
			res.Tally.EligibleParticipants,
		))}
	}
}

func (m ItemsModel) checkInCmd() tea.Cmd {
	it := m.selected()
	if it == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, _, err := m.itemService.CheckIn(ctx, it.ID, m.session.UserID, ""); err != nil {
			return itemActionMsg{err: err}
		}

		return itemActionMsg{status: okStyle("Checked in at " + it.Title)}
	}
}

// proposeCmd reads the answers from the form by key, since the bound fields
// belong to the model copy the form was built on.
func (m ItemsModel) proposeCmd() tea.Cmd {
	category, _ := m.form.Get("category").(item.Category)

	params := item.CreateParams{
		TripID:      m.session.Trip.ID,
		CreatedBy:   m.session.UserID,
		Title:       m.form.GetString("title"),
		Category:    category,
		Location:    m.form.GetString("location"),
		Description: m.form.GetString("description"),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		it, err := m.itemService.Create(ctx, params)
		if err != nil {
			return itemActionMsg{err: err}
		}

		return itemActionMsg{status: okStyle(fmt.Sprintf("Proposed %s (%s)", it.Title, it.Status))}
	}
}
