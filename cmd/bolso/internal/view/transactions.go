package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/pvaz/bolso/internal/finance"
)

type txState int

const (
	txStateList txState = iota
	txStateAdding
	txStateConfirmDelete
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx finance.Transaction
}

func (i txItem) Title() string {
	amount := FormatAmount(i.tx.Amount)
	if i.tx.Type == finance.TypeIncome {
		amount = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("+" + amount)
	} else {
		amount = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("-" + amount)
	}

	return fmt.Sprintf("%s  %s  %s", FormatDate(i.tx.Date), amount, i.tx.Category)
}

func (i txItem) Description() string {
	desc := i.tx.Description
	if i.tx.Recurring {
		desc += "  (recorrente)"
	}

	return desc
}

func (i txItem) FilterValue() string {
	return i.tx.Category + " " + i.tx.Description
}

type TransactionsModel struct {
	CommonModel
	store *finance.Store

	state  txState
	list   list.Model
	form   *huh.Form
	status string

	selectedID string

	// Form field bindings
	formType      finance.Type
	formAmount    string
	formCategory  string
	formDesc      string
	formDate      string
	formRecurring bool
	formConfirm   bool
}

func NewTransactionsModel(store *finance.Store) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transações"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	m := TransactionsModel{
		store: store,
		list:  l,
	}
	m.refreshListItems()

	return m
}

func (m TransactionsModel) Title() string { return "Transações" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateList:
		return "Esc: voltar | a: adicionar | d: excluir | /: filtrar"
	case txStateAdding:
		return "Esc: cancelar | Enter/Tab: navegar"
	case txStateConfirmDelete:
		return "Enter: confirmar"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return nil
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sizeMsg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Width = sizeMsg.Width
		m.Height = sizeMsg.Height
		m.list.SetSize(sizeMsg.Width-4, sizeMsg.Height-8)

		return m, nil
	}

	switch m.state {
	case txStateList:
		return m.updateList(msg)
	case txStateAdding:
		return m.updateAdding(msg)
	case txStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.list.FilterState() != list.Filtering {
			switch keyMsg.String() {
			case "esc":
				return m, Back
			case "a":
				return m.startAdding()
			case "d":
				return m.startDelete()
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) startAdding() (tea.Model, tea.Cmd) {
	m.formType = finance.TypeExpense
	m.formAmount = ""
	m.formCategory = ""
	m.formDesc = ""
	m.formDate = time.Now().Format("2006-01-02")
	m.formRecurring = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[finance.Type]().
				Key("type").
				Title("Tipo").
				Options(
					huh.NewOption("Despesa", finance.TypeExpense),
					huh.NewOption("Receita", finance.TypeIncome),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("amount").
				Title("Valor (R$)").
				Placeholder("0,00").
				Value(&m.formAmount).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("category").
				Title("Categoria").
				Value(&m.formCategory).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a categoria é obrigatória")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Descrição").
				Value(&m.formDesc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a descrição é obrigatória")
					}
					return nil
				}),

			huh.NewInput().
				Key("date").
				Title("Data (AAAA-MM-DD)").
				Value(&m.formDate).
				Validate(func(s string) error {
					_, err := ParseDate(s)
					return err
				}),

			huh.NewConfirm().
				Key("recurring").
				Title("Transação recorrente?").
				Affirmative("Sim").
				Negative("Não").
				Value(&m.formRecurring),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateAdding

	return m, m.form.Init()
}

func (m TransactionsModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	amount, err := ParseAmount(m.form.GetString("amount"))
	if err != nil {
		m.status = err.Error()
		m.state = txStateList

		return m, nil
	}

	date, err := ParseDate(m.form.GetString("date"))
	if err != nil {
		m.status = err.Error()
		m.state = txStateList

		return m, nil
	}

	kind := finance.TypeExpense
	if v, ok := m.form.Get("type").(finance.Type); ok {
		kind = v
	}

	ctx, cancel := SaveCtx()
	defer cancel()

	_, err = m.store.AddTransaction(ctx, finance.TransactionParams{
		Type:        kind,
		Amount:      amount,
		Category:    strings.TrimSpace(m.form.GetString("category")),
		Description: strings.TrimSpace(m.form.GetString("description")),
		Date:        date,
		Recurring:   m.form.GetBool("recurring"),
	})
	if err != nil {
		m.status = fmt.Sprintf("Erro ao salvar: %v", err)
	} else {
		m.status = "Transação adicionada."
	}

	m.state = txStateList
	m.form = nil
	m.refreshListItems()

	return m, nil
}

func (m TransactionsModel) startDelete() (tea.Model, tea.Cmd) {
	selected, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	m.selectedID = selected.tx.ID
	m.formConfirm = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Excluir %q de %s?", selected.tx.Description, FormatDate(selected.tx.Date))).
				Affirmative("Excluir").
				Negative("Cancelar").
				Value(&m.formConfirm),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = txStateConfirmDelete

	return m, m.form.Init()
}

func (m TransactionsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil

			return m, nil
		}
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

		if err := m.store.DeleteTransaction(ctx, m.selectedID); err != nil {
			m.status = fmt.Sprintf("Erro ao excluir: %v", err)
		} else {
			m.status = "Transação excluída."
		}
	}

	m.state = txStateList
	m.form = nil
	m.refreshListItems()

	return m, nil
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateList:
		statusLine := ""
		if m.status != "" {
			statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())

	case txStateAdding, txStateConfirmDelete:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	return ""
}

func (m *TransactionsModel) refreshListItems() {
	txs := m.store.Transactions()

	items := make([]list.Item, len(txs))
	for i, tx := range txs {
		items[i] = txItem{tx: tx}
	}

	m.list.SetItems(items)
}

// txItemDelegate renders items in the list.
type txItemDelegate struct{}

func (d txItemDelegate) Height() int                             { return 2 }
func (d txItemDelegate) Spacing() int                            { return 0 }
func (d txItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d txItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(txItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)

	desc := i.Description()
	if desc == "" {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(desc))
}
