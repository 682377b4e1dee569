package view

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pvaz/bolso/internal/backup"
	"github.com/pvaz/bolso/internal/finance"
)

type profileState int

const (
	profileStateMenu profileState = iota
	profileStateImporting
	profileStateConfirmClear
)

// ProfileModel groups data management actions: export, import inspection and
// the full wipe.
type ProfileModel struct {
	CommonModel
	store  *finance.Store
	backup *backup.Service

	exportDir string

	state  profileState
	cursor int
	form   *huh.Form
	status string

	formPath    string
	formConfirm bool
}

func NewProfileModel(store *finance.Store, backupSvc *backup.Service, exportDir string) ProfileModel {
	return ProfileModel{store: store, backup: backupSvc, exportDir: exportDir}
}

var profileActions = []string{
	"Exportar dados",
	"Inspecionar backup",
	"Apagar todos os dados",
}

func (m ProfileModel) Title() string { return "Perfil e Backup" }

func (m ProfileModel) ShortHelp() string {
	if m.state == profileStateMenu {
		return "Esc: voltar | Enter: selecionar"
	}

	return "Esc: cancelar"
}

func (m ProfileModel) Init() tea.Cmd {
	return nil
}

func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case profileStateMenu:
		return m.updateMenu(msg)
	case profileStateImporting:
		return m.updateImporting(msg)
	case profileStateConfirmClear:
		return m.updateConfirmClear(msg)
	}

	return m, nil
}

func (m ProfileModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(profileActions)-1 {
			m.cursor++
		}
	case "enter":
		switch m.cursor {
		case 0:
			return m.runExport()
		case 1:
			return m.startImporting()
		case 2:
			return m.startConfirmClear()
		}
	}

	return m, nil
}

func (m ProfileModel) runExport() (tea.Model, tea.Cmd) {
	path, err := m.backup.Export(m.exportDir)
	if err != nil {
		m.status = fmt.Sprintf("Erro ao exportar: %v", err)
	} else {
		m.status = "Backup gravado em " + path
	}

	return m, nil
}

func (m ProfileModel) startImporting() (tea.Model, tea.Cmd) {
	m.formPath = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Caminho do arquivo de backup").
				Placeholder("exports/bolso-backup-2026-08-29.json").
				Value(&m.formPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("informe o caminho do arquivo")
					}
					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = profileStateImporting

	return m, m.form.Init()
}

func (m ProfileModel) updateImporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = profileStateMenu
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

	path := strings.TrimSpace(m.form.GetString("path"))

	m.state = profileStateMenu
	m.form = nil

	f, err := os.Open(path)
	if err != nil {
		m.status = fmt.Sprintf("Erro ao abrir %s: %v", path, err)
		return m, nil
	}
	defer f.Close()

	// Inspection only. The parsed records never replace the live data.
	b, err := m.backup.Import(f)
	if err != nil {
		m.status = fmt.Sprintf("Backup inválido: %v", err)
		return m, nil
	}

	m.status = "Backup válido: " + m.backup.Summary(b)

	return m, nil
}

func (m ProfileModel) startConfirmClear() (tea.Model, tea.Cmd) {
	m.formConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title("Apagar TODOS os dados? Esta ação não pode ser desfeita.").
				Affirmative("Apagar tudo").
				Negative("Cancelar").
				Value(&m.formConfirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = profileStateConfirmClear

	return m, m.form.Init()
}

func (m ProfileModel) updateConfirmClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = profileStateMenu
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

		if err := m.store.ClearAllData(ctx); err != nil {
			m.status = fmt.Sprintf("Erro ao apagar: %v", err)
		} else {
			m.status = "Todos os dados foram apagados."
		}
	}

	m.state = profileStateMenu
	m.form = nil

	return m, nil
}

func (m ProfileModel) View() string {
	if m.state != profileStateMenu {
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Perfil e Backup"))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  %d transações · %d metas · %d orçamentos\n\n",
		len(m.store.Transactions()), len(m.store.Goals()), len(m.store.Budgets())))

	for i, action := range profileActions {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + action
		if i == m.cursor {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render(line)
		}

		sb.WriteString(line + "\n")
	}

	if m.status != "" {
		sb.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.status) + "\n")
	}

	sb.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(sb.String())
}
