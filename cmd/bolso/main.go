package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/pvaz/bolso/cmd/bolso/internal/view"
	"github.com/pvaz/bolso/internal/backup"
	"github.com/pvaz/bolso/internal/config"
	"github.com/pvaz/bolso/internal/finance"
	"github.com/pvaz/bolso/internal/storage"
)

type model struct {
	appName string

	currentView View

	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	goalsView        view.GoalsModel
	budgetsView      view.BudgetsModel
	reportsView      view.ReportsModel
	profileView      view.ProfileModel

	store     *finance.Store
	backupSvc *backup.Service
	exportDir string
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewTransactions View = 2
	ViewGoals        View = 3
	ViewBudgets      View = 4
	ViewReports      View = 5
	ViewProfile      View = 6
)

func newModel(appName string, store *finance.Store, backupSvc *backup.Service, exportDir string) model {
	return model{
		appName:          appName,
		currentView:      ViewMenu,
		dashboardView:    view.NewDashboardModel(store),
		transactionsView: view.NewTransactionsModel(store),
		goalsView:        view.NewGoalsModel(store),
		budgetsView:      view.NewBudgetsModel(store),
		reportsView:      view.NewReportsModel(store),
		profileView:      view.NewProfileModel(store, backupSvc, exportDir),
		store:            store,
		backupSvc:        backupSvc,
		exportDir:        exportDir,
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
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.store)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.store)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewGoals
				m.goalsView = view.NewGoalsModel(m.store)

				return m, m.goalsView.Init()
			case "4":
				m.currentView = ViewBudgets
				m.budgetsView = view.NewBudgetsModel(m.store)

				return m, m.budgetsView.Init()
			case "5":
				m.currentView = ViewReports
				m.reportsView = view.NewReportsModel(m.store)

				return m, m.reportsView.Init()
			case "6":
				m.currentView = ViewProfile
				m.profileView = view.NewProfileModel(m.store, m.backupSvc, m.exportDir)

				return m, m.profileView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewGoals:
		var newModel tea.Model
		newModel, cmd = m.goalsView.Update(msg)
		m.goalsView = newModel.(view.GoalsModel)
	case ViewBudgets:
		var newModel tea.Model
		newModel, cmd = m.budgetsView.Update(msg)
		m.budgetsView = newModel.(view.BudgetsModel)
	case ViewReports:
		var newModel tea.Model
		newModel, cmd = m.reportsView.Update(msg)
		m.reportsView = newModel.(view.ReportsModel)
	case ViewProfile:
		var newModel tea.Model
		newModel, cmd = m.profileView.Update(msg)
		m.profileView = newModel.(view.ProfileModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Resumo\n" +
				"2. Transações\n" +
				"3. Metas\n" +
				"4. Orçamentos\n" +
				"5. Relatórios\n" +
				"6. Perfil e Backup\n\n" +
				"q. Sair",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewGoals:
		return m.goalsView.View()
	case ViewBudgets:
		return m.budgetsView.View()
	case ViewReports:
		return m.reportsView.View()
	case ViewProfile:
		return m.profileView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open storage", "error", err, "path", cfg.Storage.Path)
		os.Exit(1)
	}
	defer db.Close()

	store, err := finance.NewStore(context.Background(), db)
	if err != nil {
		slog.Error("failed to load finance data", "error", err)
		os.Exit(1)
	}

	backupSvc := backup.NewService(store)

	p := tea.NewProgram(newModel(cfg.App.Name, store, backupSvc, cfg.Export.Dir))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
