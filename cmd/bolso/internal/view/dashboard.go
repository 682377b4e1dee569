package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pvaz/bolso/internal/finance"
)

const (
	dashboardRecentLimit = 5
	dashboardTopLimit    = 3
)

// DashboardModel is the landing view: month totals, the all-time balance,
// recent activity and goal progress at a glance.
type DashboardModel struct {
	CommonModel
	store *finance.Store
}

func NewDashboardModel(store *finance.Store) DashboardModel {
	return DashboardModel{store: store}
}

func (m DashboardModel) Title() string { return "Resumo" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: voltar"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, Back
	}

	return m, nil
}

func (m DashboardModel) View() string {
	now := time.Now()
	summary := m.store.MonthlySummary(now)

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Resumo de " + summary.Month))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Receitas do mês:  %s\n", budgetTrackStyle.Render(FormatAmount(summary.Income))))
	sb.WriteString(fmt.Sprintf("  Despesas do mês:  %s\n", budgetOverStyle.Render(FormatAmount(summary.Expenses))))

	// The headline balance is all-time, not the month's difference.
	balance := m.store.Balance()
	style := budgetTrackStyle
	if balance < 0 {
		style = budgetOverStyle
	}
	sb.WriteString(fmt.Sprintf("  Saldo total:      %s\n\n", style.Bold(true).Render(FormatAmount(balance))))

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Transações recentes"))
	sb.WriteString("\n")

	recent := m.store.MonthlyTransactions(now)
	if len(recent) == 0 {
		sb.WriteString("  Nenhuma transação neste mês.\n")
	}
	if len(recent) > dashboardRecentLimit {
		recent = recent[:dashboardRecentLimit]
	}

	for _, tx := range recent {
		amount := FormatAmount(tx.Amount)
		if tx.Type == finance.TypeIncome {
			amount = budgetTrackStyle.Render("+" + amount)
		} else {
			amount = budgetOverStyle.Render("-" + amount)
		}

		sb.WriteString(fmt.Sprintf("  %s  %-14s %s\n", FormatDate(tx.Date), tx.Category, amount))
	}

	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Maiores despesas do mês"))
	sb.WriteString("\n")

	totals := m.store.CategoryExpenses(&now)
	ranking := make([]categoryTotal, 0, len(totals))
	for category, amount := range totals {
		ranking = append(ranking, categoryTotal{category, amount})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].amount != ranking[j].amount {
			return ranking[i].amount > ranking[j].amount
		}
		return ranking[i].category < ranking[j].category
	})

	if len(ranking) == 0 {
		sb.WriteString("  Nenhuma despesa neste mês.\n")
	}
	if len(ranking) > dashboardTopLimit {
		ranking = ranking[:dashboardTopLimit]
	}

	for _, entry := range ranking {
		sb.WriteString(fmt.Sprintf("  %-20s %s\n", entry.category, FormatAmount(entry.amount)))
	}

	goals := m.store.Goals()
	if len(goals) > 0 {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Metas"))
		sb.WriteString("\n")

		for _, goal := range goals {
			progress := 0.0
			if goal.TargetAmount > 0 {
				progress = float64(goal.CurrentAmount) / float64(goal.TargetAmount) * 100
			}

			sb.WriteString(fmt.Sprintf("  %-20s %s %.0f%%\n", goal.Title, ProgressBar(progress, 15), progress))
		}
	}

	sb.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}
