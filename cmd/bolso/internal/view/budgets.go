package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pvaz/bolso/internal/finance"
)

type budgetsState int

const (
	budgetsStateList budgetsState = iota
	budgetsStateAdding
	budgetsStateConfirmDelete
)

var (
	budgetOverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	budgetWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	budgetTrackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// BudgetsModel shows the current month's budgets against live spending.
type BudgetsModel struct {
	CommonModel
	store *finance.Store

	state  budgetsState
	cursor int
	form   *huh.Form
	status string

	selectedID string

	formCategory string
	formLimit    string
	formConfirm  bool
}

func NewBudgetsModel(store *finance.Store) BudgetsModel {
	return BudgetsModel{store: store}
}

func (m BudgetsModel) Title() string { return "Orçamentos" }

func (m BudgetsModel) ShortHelp() string {
	if m.state == budgetsStateList {
		return "Esc: voltar | a: adicionar | d: excluir"
	}

	return "Esc: cancelar | Enter/Tab: navegar"
}

func (m BudgetsModel) Init() tea.Cmd {
	return nil
}

// currentBudgets filters the stored budgets down to the current month.
func (m BudgetsModel) currentBudgets() []finance.Budget {
	month := finance.MonthToken(time.Now())

	var out []finance.Budget
	for _, b := range m.store.Budgets() {
		if b.Month == month {
			out = append(out, b)
		}
	}

	return out
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case budgetsStateList:
		return m.updateList(msg)
	case budgetsStateAdding:
		return m.updateAdding(msg)
	case budgetsStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m BudgetsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	budgets := m.currentBudgets()

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(budgets)-1 {
			m.cursor++
		}
	case "a":
		return m.startAdding()
	case "d":
		if m.cursor < len(budgets) {
			return m.startDelete(budgets[m.cursor])
		}
	}

	return m, nil
}

func (m BudgetsModel) startAdding() (tea.Model, tea.Cmd) {
	m.formCategory = ""
	m.formLimit = ""

	month := finance.MonthToken(time.Now())
	existing := make(map[string]bool)
	for _, b := range m.currentBudgets() {
		existing[b.Category] = true
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("category").
				Title(fmt.Sprintf("Categoria (%s)", month)).
				Value(&m.formCategory).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("a categoria é obrigatória")
					}
					if existing[s] {
						return fmt.Errorf("já existe um orçamento para %q neste mês", s)
					}
					return nil
				}),

			huh.NewInput().
				Key("limit").
				Title("Limite mensal (R$)").
				Placeholder("0,00").
				Value(&m.formLimit).
				Validate(func(s string) error {
					cents, err := ParseAmount(s)
					if err != nil {
						return err
					}
					if cents == 0 {
						return fmt.Errorf("o limite deve ser positivo")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = budgetsStateAdding

	return m, m.form.Init()
}

func (m BudgetsModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	limit, _ := ParseAmount(m.form.GetString("limit"))

	ctx, cancel := SaveCtx()
	defer cancel()

	_, err := m.store.AddBudget(ctx, finance.BudgetParams{
		Category: strings.TrimSpace(m.form.GetString("category")),
		Limit:    limit,
		Month:    finance.MonthToken(time.Now()),
	})

	switch {
	case errors.Is(err, finance.ErrDuplicateBudget):
		m.status = "Já existe um orçamento para essa categoria neste mês."
	case err != nil:
		m.status = fmt.Sprintf("Erro ao salvar: %v", err)
	default:
		m.status = "Orçamento adicionado."
	}

	m.state = budgetsStateList
	m.form = nil

	return m, nil
}

func (m BudgetsModel) startDelete(budget finance.Budget) (tea.Model, tea.Cmd) {
	m.selectedID = budget.ID
	m.formConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Excluir o orçamento de %q?", budget.Category)).
				Affirmative("Excluir").
				Negative("Cancelar").
				Value(&m.formConfirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = budgetsStateConfirmDelete

	return m, m.form.Init()
}

func (m BudgetsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = budgetsStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.form.GetBool("confirm") {
		ctx, cancel := SaveCtx()
		defer cancel()

		if err := m.store.DeleteBudget(ctx, m.selectedID); err != nil {
			m.status = fmt.Sprintf("Erro ao excluir: %v", err)
		} else {
			m.status = "Orçamento excluído."
		}

		if m.cursor > 0 {
			m.cursor--
		}
	}

	m.state = budgetsStateList
	m.form = nil

	return m, nil
}

func (m BudgetsModel) View() string {
	if m.state != budgetsStateList {
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	now := time.Now()
	budgets := m.currentBudgets()
	// Spent comes from the live expense aggregates, not the stored field.
	spentByCategory := m.store.CategoryExpenses(&now)

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Orçamentos de " + finance.MonthToken(now)))
	sb.WriteString("\n\n")

	if len(budgets) == 0 {
		sb.WriteString("Nenhum orçamento para este mês. Pressione 'a' para adicionar.\n")
	}

	for i, b := range budgets {
		spent := spentByCategory[b.Category]

		percentage := 0.0
		if b.Limit > 0 {
			percentage = float64(spent) / float64(b.Limit) * 100
		}

		var label string
		switch {
		case percentage >= 100:
			label = budgetOverStyle.Render("EXCEDIDO")
		case percentage >= 80:
			label = budgetWarnStyle.Render("ATENÇÃO")
		default:
			label = budgetTrackStyle.Render("dentro do limite")
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s  %s / %s  (%.0f%%)", cursor, b.Category,
			FormatAmount(spent), FormatAmount(b.Limit), percentage)
		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}

		sb.WriteString(line + "\n")
		sb.WriteString(fmt.Sprintf("    %s  %s\n\n", ProgressBar(percentage, 20), label))
	}

	if m.status != "" {
		sb.WriteString(lipgloss.NewStyle().Faint(true).Render(m.status) + "\n")
	}

	sb.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}
