package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tripsplit/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tripsplit/internal/config"
	"github.com/MrJamesThe3rd/tripsplit/internal/database"
	"github.com/MrJamesThe3rd/tripsplit/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/tripsplit/internal/expense/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/importer"
	"github.com/MrJamesThe3rd/tripsplit/internal/item"
	itemStore "github.com/MrJamesThe3rd/tripsplit/internal/item/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/trip"
	tripStore "github.com/MrJamesThe3rd/tripsplit/internal/trip/store"
	"github.com/MrJamesThe3rd/tripsplit/internal/user"
	userStore "github.com/MrJamesThe3rd/tripsplit/internal/user/store"
)

type model struct {
	session        view.Session
	userName       string
	itemService    *item.Service
	tripService    *trip.Service
	expenseService *expense.Service
	importService  *importer.Service

	currentView View
	notice      string

	tripsView    view.TripsModel
	itemsView    view.ItemsModel
	balancesView view.BalancesModel
	importView   view.ImportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewTrips    View = 1
	ViewItems    View = 2
	ViewBalances View = 3
	ViewImport   View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.TUI.UserEmail == "" {
		slog.Error("TUI_USER_EMAIL must be set to the account the TUI acts as")
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Pool{MaxOpen: 4, MaxIdle: 2, MaxLifetime: cfg.DB.MaxLifetime})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	itemSvc := item.NewService(itemStore.New(db))
	userSvc := user.NewService(userStore.New(db), itemSvc)
	tripSvc := trip.NewService(tripStore.New(db), userSvc, itemSvc)
	expenseSvc := expense.NewService(expenseStore.New(db), tripSvc)

	ctx, cancel := view.DbCtx()
	defer cancel()

	u, err := userSvc.GetByEmail(ctx, cfg.TUI.UserEmail)
	if err != nil {
		slog.Error("failed to load TUI user", "email", cfg.TUI.UserEmail, "error", err)
		os.Exit(1)
	}

	if u.Status != user.StatusActive {
		slog.Error("TUI user is not active", "email", u.Email, "status", u.Status)
		os.Exit(1)
	}

	session := view.Session{UserID: u.ID}

	return model{
		session:        session,
		userName:       u.DisplayName(),
		itemService:    itemSvc,
		tripService:    tripSvc,
		expenseService: expenseSvc,
		importService:  importer.NewService(),
		currentView:    ViewMenu,
		tripsView:      view.NewTripsModel(session, tripSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			m.notice = ""

			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewTrips
				m.tripsView = view.NewTripsModel(m.session, m.tripService)

				return m, m.tripsView.Init()
			case "2", "3", "4":
				if m.session.Trip == nil {
					m.notice = "Pick a trip first."
					return m, nil
				}

				return m.openTripView(msg.String())
			}
		}
	case view.TripSelectedMsg:
		m.session.Trip = msg.Trip
		m.currentView = ViewMenu

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewTrips:
		var newModel tea.Model
		newModel, cmd = m.tripsView.Update(msg)
		m.tripsView = newModel.(view.TripsModel)
	case ViewItems:
		var newModel tea.Model
		newModel, cmd = m.itemsView.Update(msg)
		m.itemsView = newModel.(view.ItemsModel)
	case ViewBalances:
		var newModel tea.Model
		newModel, cmd = m.balancesView.Update(msg)
		m.balancesView = newModel.(view.BalancesModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) openTripView(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "2":
		m.currentView = ViewItems
		m.itemsView = view.NewItemsModel(m.session, m.itemService)

		return m, m.itemsView.Init()
	case "3":
		m.currentView = ViewBalances
		m.balancesView = view.NewBalancesModel(m.session, m.expenseService)

		return m, m.balancesView.Init()
	default:
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.session, m.expenseService, m.importService)

		return m, m.importView.Init()
	}
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		tripName := "none"
		if m.session.Trip != nil {
			tripName = m.session.Trip.Name
		}

		menu := fmt.Sprintf("Tripsplit TUI (%s)\nTrip: %s\n\n", m.userName, tripName) +
			"1. Choose Trip\n" +
			"2. Proposals & Voting\n" +
			"3. Balances & Settlement\n" +
			"4. Import Expenses\n\n" +
			"q. Quit"

		if m.notice != "" {
			menu += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.notice)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewTrips:
		return m.tripsView.View()
	case ViewItems:
		return m.itemsView.View()
	case ViewBalances:
		return m.balancesView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
