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

// ReportsModel renders month-by-month summaries for a trailing window plus a
// ranking of the current month's expense categories.
type ReportsModel struct {
	CommonModel
	store *finance.Store

	months int
}

func NewReportsModel(store *finance.Store) ReportsModel {
	return ReportsModel{store: store, months: 6}
}

func (m ReportsModel) Title() string { return "Relatórios" }

func (m ReportsModel) ShortHelp() string {
	return "Esc: voltar | 3/6/1: período de 3, 6 ou 12 meses"
}

func (m ReportsModel) Init() tea.Cmd {
	return nil
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "3":
		m.months = 3
	case "6":
		m.months = 6
	case "1":
		m.months = 12
	}

	return m, nil
}

type categoryTotal struct {
	category string
	amount   int64
}

func (m ReportsModel) View() string {
	now := time.Now()

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Relatório dos últimos %d meses", m.months)))
	sb.WriteString("\n\n")

	// Oldest month first, current month last.
	for i := m.months - 1; i >= 0; i-- {
		summary := m.store.MonthlySummary(now.AddDate(0, -i, 0))

		balance := FormatAmount(summary.Balance)
		if summary.Balance < 0 {
			balance = budgetOverStyle.Render(balance)
		} else {
			balance = budgetTrackStyle.Render(balance)
		}

		sb.WriteString(fmt.Sprintf("  %s  receitas %s  despesas %s  saldo %s\n",
			summary.Month,
			FormatAmount(summary.Income),
			FormatAmount(summary.Expenses),
			balance))
	}

	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Despesas por categoria (mês atual)"))
	sb.WriteString("\n\n")

	totals := m.store.CategoryExpenses(&now)
	if len(totals) == 0 {
		sb.WriteString("  Nenhuma despesa registrada neste mês.\n")
	}

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

	monthExpenses := m.store.TotalExpenses(&now)

	for _, entry := range ranking {
		share := 0.0
		if monthExpenses > 0 {
			share = float64(entry.amount) / float64(monthExpenses) * 100
		}

		sb.WriteString(fmt.Sprintf("  %-20s %12s  %s %.0f%%\n",
			entry.category, FormatAmount(entry.amount), ProgressBar(share, 15), share))
	}

	sb.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}
