package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pvaz/bolso/internal/finance"
)

type goalsState int

const (
	goalsStateList goalsState = iota
	goalsStateAdding
	goalsStateContributing
	goalsStateConfirmDelete
)

type GoalsModel struct {
	CommonModel
	store *finance.Store

	state  goalsState
	cursor int
	form   *huh.Form
	status string

	selectedID string

	formTitle    string
	formTarget   string
	formInitial  string
	formDeadline string
	formCategory string
	formDesc     string
	formAmount   string
	formConfirm  bool
}

func NewGoalsModel(store *finance.Store) GoalsModel {
	return GoalsModel{store: store}
}

func (m GoalsModel) Title() string { return "Metas" }

func (m GoalsModel) ShortHelp() string {
	switch m.state {
	case goalsStateList:
		return "Esc: voltar | a: adicionar | c: contribuir | d: excluir"
	default:
		return "Esc: cancelar | Enter/Tab: navegar"
	}
}

func (m GoalsModel) Init() tea.Cmd {
	return nil
}

func (m GoalsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case goalsStateList:
		return m.updateList(msg)
	case goalsStateAdding:
		return m.updateAdding(msg)
	case goalsStateContributing:
		return m.updateContributing(msg)
	case goalsStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m GoalsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	goals := m.store.Goals()

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(goals)-1 {
			m.cursor++
		}
	case "a":
		return m.startAdding()
	case "c":
		if m.cursor < len(goals) {
			return m.startContributing(goals[m.cursor])
		}
	case "d":
		if m.cursor < len(goals) {
			return m.startDelete(goals[m.cursor])
		}
	}

	return m, nil
}

func requiredField(message string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

func validAmount(s string) error {
	_, err := ParseAmount(s)
	return err
}

func (m GoalsModel) startAdding() (tea.Model, tea.Cmd) {
	m.formTitle = ""
	m.formTarget = ""
	m.formInitial = "0"
	m.formDeadline = time.Now().AddDate(0, 6, 0).Format("2006-01-02")
	m.formCategory = ""
	m.formDesc = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Título").
				Value(&m.formTitle).
				Validate(requiredField("o título é obrigatório")),

			huh.NewInput().
				Key("target").
				Title("Valor alvo (R$)").
				Placeholder("0,00").
				Value(&m.formTarget).
				Validate(func(s string) error {
					cents, err := ParseAmount(s)
					if err != nil {
						return err
					}
					if cents == 0 {
						return fmt.Errorf("o valor alvo deve ser positivo")
					}
					return nil
				}),

			huh.NewInput().
				Key("initial").
				Title("Valor inicial (R$)").
				Value(&m.formInitial).
				Validate(validAmount),

			huh.NewInput().
				Key("deadline").
				Title("Prazo (AAAA-MM-DD)").
				Value(&m.formDeadline).
				Validate(func(s string) error {
					_, err := ParseDate(s)
					return err
				}),

			huh.NewInput().
				Key("category").
				Title("Categoria").
				Value(&m.formCategory).
				Validate(requiredField("a categoria é obrigatória")),

			huh.NewInput().
				Key("description").
				Title("Descrição (opcional)").
				Value(&m.formDesc),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = goalsStateAdding

	return m, m.form.Init()
}

func (m GoalsModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsStateList
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

	target, _ := ParseAmount(m.form.GetString("target"))
	initial, _ := ParseAmount(m.form.GetString("initial"))
	deadline, _ := ParseDate(m.form.GetString("deadline"))

	ctx, cancel := SaveCtx()
	defer cancel()

	_, err := m.store.AddGoal(ctx, finance.GoalParams{
		Title:         strings.TrimSpace(m.form.GetString("title")),
		TargetAmount:  target,
		CurrentAmount: initial,
		Deadline:      deadline,
		Category:      strings.TrimSpace(m.form.GetString("category")),
		Description:   strings.TrimSpace(m.form.GetString("description")),
	})
	if err != nil {
		m.status = fmt.Sprintf("Erro ao salvar: %v", err)
	} else {
		m.status = "Meta adicionada."
	}

	m.state = goalsStateList
	m.form = nil

	return m, nil
}

func (m GoalsModel) startContributing(goal finance.Goal) (tea.Model, tea.Cmd) {
	if goal.TargetAmount > 0 && goal.CurrentAmount >= goal.TargetAmount {
		m.status = "Meta já concluída."
		return m, nil
	}

	m.selectedID = goal.ID
	m.formAmount = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Contribuir para %q (R$)", goal.Title)).
				Placeholder("0,00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					cents, err := ParseAmount(s)
					if err != nil {
						return err
					}
					if cents == 0 {
						return fmt.Errorf("a contribuição deve ser positiva")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = goalsStateContributing

	return m, m.form.Init()
}

func (m GoalsModel) updateContributing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsStateList
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

	delta, _ := ParseAmount(m.form.GetString("amount"))

	// The new total is computed here, not by the store: SetCurrentAmount
	// always replaces.
	for _, goal := range m.store.Goals() {
		if goal.ID != m.selectedID {
			continue
		}

		ctx, cancel := SaveCtx()
		defer cancel()

		if err := m.store.UpdateGoal(ctx, goal.ID, finance.SetCurrentAmount(goal.CurrentAmount+delta)); err != nil {
			m.status = fmt.Sprintf("Erro ao salvar: %v", err)
		} else {
			m.status = "Contribuição registrada."
		}

		break
	}

	m.state = goalsStateList
	m.form = nil

	return m, nil
}

func (m GoalsModel) startDelete(goal finance.Goal) (tea.Model, tea.Cmd) {
	m.selectedID = goal.ID
	m.formConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Excluir a meta %q?", goal.Title)).
				Affirmative("Excluir").
				Negative("Cancelar").
				Value(&m.formConfirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = goalsStateConfirmDelete

	return m, m.form.Init()
}

func (m GoalsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = goalsStateList
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

		if err := m.store.DeleteGoal(ctx, m.selectedID); err != nil {
			m.status = fmt.Sprintf("Erro ao excluir: %v", err)
		} else {
			m.status = "Meta excluída."
		}

		if m.cursor > 0 {
			m.cursor--
		}
	}

	m.state = goalsStateList
	m.form = nil

	return m, nil
}

func (m GoalsModel) View() string {
	if m.state != goalsStateList {
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	goals := m.store.Goals()

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Metas de economia"))
	sb.WriteString("\n\n")

	if len(goals) == 0 {
		sb.WriteString("Nenhuma meta cadastrada. Pressione 'a' para adicionar.\n")
	}

	for i, goal := range goals {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		progress := 0.0
		if goal.TargetAmount > 0 {
			progress = float64(goal.CurrentAmount) / float64(goal.TargetAmount) * 100
		}

		days := int(time.Until(goal.Deadline).Hours() / 24)
		deadline := fmt.Sprintf("%d dias restantes", days)
		if days < 0 {
			deadline = "prazo vencido"
		}

		line := fmt.Sprintf("%s%s  %s / %s  (%.1f%%)", cursor, goal.Title,
			FormatAmount(goal.CurrentAmount), FormatAmount(goal.TargetAmount), progress)
		if i == m.cursor {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render(line)
		}

		sb.WriteString(line + "\n")
		sb.WriteString(fmt.Sprintf("    %s  %s · %s\n\n", ProgressBar(progress, 20), goal.Category, deadline))
	}

	if m.status != "" {
		sb.WriteString(lipgloss.NewStyle().Faint(true).Render(m.status) + "\n")
	}

	sb.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}
