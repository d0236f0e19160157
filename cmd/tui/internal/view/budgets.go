package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
)

type budgetState int

const (
	budgetStateBrowse budgetState = iota
	budgetStateAdd
)

type budgetFields struct {
	categoryID string
	amount     string
}

type BudgetsModel struct {
	app *App

	state  budgetState
	month  period.Month
	table  table.Model
	rows   []analytics.BudgetActual
	form   *huh.Form
	fields *budgetFields

	bva *analytics.Memo[[]analytics.BudgetActual]

	status string
}

func NewBudgetsModel(app *App) BudgetsModel {
	columns := []table.Column{
		{Title: "Category", Width: 20},
		{Title: "Budget", Width: 18},
		{Title: "Spent", Width: 18},
		{Title: "Remaining", Width: 18},
		{Title: "Used", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BudgetsModel{
		app:   app,
		month: app.Month(),
		table: t,
		bva:   &analytics.Memo[[]analytics.BudgetActual]{},
	}
}

func (m BudgetsModel) Title() string { return "Budgets" }

func (m BudgetsModel) ShortHelp() string {
	if m.state == budgetStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | [/]: month | a: add | x: delete | r: refresh"
}

func (m BudgetsModel) Init() tea.Cmd {
	return FetchCmd(m.app.Budgets, m.app.Transactions, m.app.Categories)
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.Err)
		}

		m.refreshTable()

		return m, nil

	case budgetSavedMsg:
		m.state = budgetStateBrowse
		m.form = nil
		m.fields = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 14)
		return m, nil
	}

	switch m.state {
	case budgetStateBrowse:
		return m.updateBrowse(msg)
	case budgetStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m BudgetsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.Init()
		case "[":
			m.month = m.month.Prev()
			m.refreshTable()

			return m, nil
		case "]":
			m.month = m.month.Next()
			m.refreshTable()

			return m, nil
		case "a":
			return m.enterAddMode()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BudgetsModel) enterAddMode() (tea.Model, tea.Cmd) {
	var options []huh.Option[string]

	for _, c := range m.app.Categories.Items() {
		if c.Type == category.TypeIncome {
			continue
		}

		options = append(options, huh.NewOption(c.Name, c.ID.String()))
	}

	if len(options) == 0 {
		m.status = "Create an expense category first."
		return m, nil
	}

	f := &budgetFields{}
	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&f.categoryID),

			huh.NewInput().
				Key("amount").
				Title(fmt.Sprintf("Amount for %s", m.month)).
				Value(&f.amount).
				Validate(validateAmount),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = budgetStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m BudgetsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = budgetStateBrowse
			m.form = nil
			m.fields = nil
			m.table.Focus()

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

	return m, m.createCmd(m.fields, m.month)
}

func (m BudgetsModel) View() string {
	if !m.loaded() {
		return lipgloss.NewStyle().Padding(2).Render("Loading budgets...")
	}

	header := fmt.Sprintf("Month: %s", activeStyle(m.month.String()))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.summaryView(),
	)

	if m.state == budgetStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Budget\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BudgetsModel) summaryView() string {
	sum := analytics.SummarizeBudgets(m.rows)

	lines := []string{
		fmt.Sprintf("Total budget: %s   Spent: %s   Remaining: %s",
			m.app.Money(sum.TotalBudget), m.app.Money(sum.TotalSpent), m.app.Money(sum.Remaining)),
		fmt.Sprintf("Used: %s   On track: %d   Over budget: %d",
			FormatPercent(sum.UsedPercent), sum.OnTrack, sum.OverBudget),
	}

	return lipgloss.NewStyle().PaddingTop(1).Render(strings.Join(lines, "\n"))
}

func (m BudgetsModel) loaded() bool {
	return m.app.Budgets.Loaded() && m.app.Transactions.Loaded() && m.app.Categories.Loaded()
}

func (m *BudgetsModel) refreshTable() {
	app, month := m.app, m.month

	m.rows = m.bva.Get(func() []analytics.BudgetActual {
		return analytics.BudgetVsActual(app.Budgets.Items(), app.Transactions.Items(), app.Categories.Items(), month)
	}, app.Budgets.Version(), app.Transactions.Version(), app.Categories.Version(), month)

	over := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	rows := make([]table.Row, 0, len(m.rows))
	for _, b := range m.rows {
		used := FormatPercent(b.UsedPercent())
		if b.Over() {
			used = over.Render(used)
		}

		rows = append(rows, table.Row{
			b.Name,
			m.app.Money(b.BudgetAmount),
			m.app.Money(b.ActualAmount),
			m.app.Money(b.Remaining()),
			used,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type budgetSavedMsg struct {
	status string
	err    error
}

func (m BudgetsModel) createCmd(f *budgetFields, month period.Month) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return budgetSavedMsg{err: errNoUser}
		}

		categoryID, err := uuid.Parse(f.categoryID)
		if err != nil {
			return budgetSavedMsg{err: err}
		}

		amount, _ := decimal.NewFromString(strings.TrimSpace(f.amount))

		ctx, cancel := DbCtx()
		defer cancel()

		_, err = app.Budgets.Add(ctx, func(ctx context.Context) (*budget.Budget, error) {
			return app.Svc.Budgets.Create(ctx, budget.CreateParams{
				UserID:     userID,
				CategoryID: categoryID,
				Amount:     amount,
				Month:      month.String(),
			})
		})

		return budgetSavedMsg{status: "Budget added.", err: err}
	}
}

// deleteCmd removes the budgets behind the selected row. A category can have more than one
// budget in a month; the row shows their sum, so all of them go.
func (m BudgetsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}

	app := m.app
	categoryID := m.rows[idx].CategoryID
	month := m.month

	var ids []uuid.UUID

	for _, b := range app.Budgets.Items() {
		if b.CategoryID == categoryID && b.Month == month {
			ids = append(ids, b.ID)
		}
	}

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return budgetSavedMsg{err: errNoUser}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		for _, id := range ids {
			err := app.Budgets.Remove(ctx, id, func(ctx context.Context, id uuid.UUID) error {
				return app.Svc.Budgets.Delete(ctx, userID, id)
			})
			if err != nil {
				return budgetSavedMsg{err: err}
			}
		}

		return budgetSavedMsg{status: "Budget deleted."}
	}
}
