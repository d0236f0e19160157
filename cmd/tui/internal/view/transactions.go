package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

type txState int

const (
	txStateTimeframe txState = iota
	txStateList
	txStateForm
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx       *transaction.Transaction
	category string
	money    string
}

func (i txItem) Title() string {
	sign := "-"
	if i.tx.IsIncome() {
		sign = "+"
	}

	return fmt.Sprintf("%s  %s%s  %s", FormatDate(i.tx.Date), sign, i.money, i.category)
}

func (i txItem) Description() string {
	parts := []string{string(i.tx.PaymentMethod)}
	if i.tx.Note != "" {
		parts = append(parts, i.tx.Note)
	}

	if len(i.tx.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(i.tx.Tags, " #"))
	}

	return strings.Join(parts, "  ")
}

func (i txItem) FilterValue() string {
	return i.category + " " + i.tx.Note
}

// txFields backs the add and edit form. It lives on the heap so the form keeps pointing
// at it while the model is copied around.
type txFields struct {
	editing *transaction.Transaction

	typ        string
	amount     string
	date       string
	categoryID string
	payment    string
	note       string
}

type TransactionsModel struct {
	app *App

	state           txState
	timeframePicker TimeframePicker
	timeframe       TimeframeSelectedMsg
	list            list.Model
	form            *huh.Form
	fields          *txFields

	status string
}

func NewTransactionsModel(app *App) TransactionsModel {
	l := list.New([]list.Item{}, txItemDelegate{}, 0, 0)
	l.Title = "Transactions"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TransactionsModel{
		app:             app,
		state:           txStateList,
		timeframePicker: NewTimeframePicker(app.Month),
		list:            l,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateTimeframe:
		return "Esc: back | Enter: select"
	case txStateList:
		return "Esc: back | a: add | Enter: edit | x: delete | t: timeframe | /: filter"
	case txStateForm:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return ""
}

func (m TransactionsModel) Init() tea.Cmd {
	return FetchCmd(m.app.Transactions, m.app.Categories)
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.timeframe = msg
		m.state = txStateList
		m.refreshListItems()

		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.Err)
		}

		m.refreshListItems()

		return m, nil

	case txSavedMsg:
		m.state = txStateList
		m.form = nil
		m.fields = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.refreshListItems()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	case txStateList:
		return m.updateList(msg)
	case txStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}

			return m, Back
		case "t":
			m.state = txStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "a":
			return m.openForm(nil)
		case "enter":
			if selected, ok := m.list.SelectedItem().(txItem); ok {
				return m.openForm(selected.tx)
			}

			return m, nil
		case "x":
			if selected, ok := m.list.SelectedItem().(txItem); ok {
				return m, m.deleteCmd(selected.tx.ID)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) openForm(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	f := &txFields{
		editing: tx,
		typ:     string(transaction.TypeExpense),
		date:    FormatDate(time.Now().In(m.app.Loc)),
		payment: string(transaction.PaymentCash),
	}

	if tx != nil {
		f.typ = string(tx.Type)
		f.amount = tx.Amount.String()
		f.date = FormatDate(tx.Date)
		f.payment = string(tx.PaymentMethod)
		f.note = tx.Note

		if tx.CategoryID != uuid.Nil {
			f.categoryID = tx.CategoryID.String()
		}
	}

	categoryOptions := []huh.Option[string]{huh.NewOption("None (suggest from note)", "")}
	for _, c := range m.app.Categories.Items() {
		categoryOptions = append(categoryOptions, huh.NewOption(c.Name, c.ID.String()))
	}

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&f.typ),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&f.amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.date).
				Validate(validateDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&f.categoryID),

			huh.NewSelect[string]().
				Key("payment").
				Title("Payment Method").
				Options(
					huh.NewOption("Cash", string(transaction.PaymentCash)),
					huh.NewOption("Bank", string(transaction.PaymentBank)),
					huh.NewOption("E-Wallet", string(transaction.PaymentEWallet)),
				).
				Value(&f.payment),

			huh.NewInput().
				Key("note").
				Title("Note").
				CharLimit(500).
				Value(&f.note),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = txStateForm

	return m, m.form.Init()
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("not a number")
	}

	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}

	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}

	return nil
}

func (m TransactionsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateList
			m.form = nil
			m.fields = nil

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

	return m, m.saveCmd(m.fields)
}

func (m TransactionsModel) View() string {
	switch m.state {
	case txStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case txStateList:
		header := fmt.Sprintf("Timeframe: %s", activeStyle(m.timeframeLabel()))
		if m.status != "" {
			header += "  " + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(1).Render(header + "\n\n" + m.list.View())

	case txStateForm:
		if m.form == nil {
			return ""
		}

		title := "New Transaction"
		if m.fields != nil && m.fields.editing != nil {
			title = "Edit Transaction"
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" + m.form.View(),
		)
	}

	return ""
}

func (m TransactionsModel) timeframeLabel() string {
	if m.timeframe.Label == "" {
		return TimeframeThisMonth.String()
	}

	return m.timeframe.Label
}

func (m *TransactionsModel) refreshListItems() {
	if m.timeframe.Label == "" {
		start, end := dateRange(TimeframeThisMonth, m.app.Month())
		m.timeframe = TimeframeSelectedMsg{Label: TimeframeThisMonth.String(), Start: start, End: end}
	}

	lookup := category.NewLookup(m.app.Categories.Items())

	var items []list.Item

	for _, tx := range m.app.Transactions.Items() {
		if !m.timeframe.Contains(tx.Date) {
			continue
		}

		items = append(items, txItem{
			tx:       tx,
			category: lookup.Name(tx.CategoryID, "Uncategorized"),
			money:    m.app.Money(tx.Amount),
		})
	}

	m.list.SetItems(items)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// Messages

type txSavedMsg struct {
	status string
	err    error
}

func (m TransactionsModel) saveCmd(f *txFields) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return txSavedMsg{err: errNoUser}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		amount, _ := decimal.NewFromString(strings.TrimSpace(f.amount))
		date, _ := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
		note := strings.TrimSpace(f.note)
		typ := transaction.Type(f.typ)
		payment := transaction.PaymentMethod(f.payment)

		categoryID, _ := uuid.Parse(f.categoryID)
		if categoryID == uuid.Nil && note != "" {
			categoryID = suggestCategory(ctx, app, userID, note)
		}

		if f.editing == nil {
			_, err := app.Transactions.Add(ctx, func(ctx context.Context) (*transaction.Transaction, error) {
				return app.Svc.Transactions.Create(ctx, transaction.CreateParams{
					UserID:        userID,
					Date:          date,
					Type:          typ,
					CategoryID:    categoryID,
					Amount:        amount,
					PaymentMethod: payment,
					Note:          note,
				})
			})

			return txSavedMsg{status: "Added.", err: err}
		}

		id := f.editing.ID

		_, err := app.Transactions.Update(ctx, func(ctx context.Context) (*transaction.Transaction, error) {
			return app.Svc.Transactions.Update(ctx, userID, id, transaction.UpdateParams{
				Date:          &date,
				Type:          &typ,
				CategoryID:    &categoryID,
				Amount:        &amount,
				PaymentMethod: &payment,
				Note:          &note,
			})
		})
		if err != nil {
			return txSavedMsg{err: err}
		}

		if categoryID != uuid.Nil && categoryID != f.editing.CategoryID && note != "" {
			if err := app.Svc.Categorize.Learn(ctx, userID, note, categoryID); err != nil {
				slog.Warn("failed to learn category", "error", err)
			}
		}

		return txSavedMsg{status: "Saved."}
	}
}

func (m TransactionsModel) deleteCmd(id uuid.UUID) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return txSavedMsg{err: errNoUser}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		err := app.Transactions.Remove(ctx, id, func(ctx context.Context, id uuid.UUID) error {
			return app.Svc.Transactions.Delete(ctx, userID, id)
		})

		return txSavedMsg{status: "Deleted.", err: err}
	}
}

// suggestCategory asks the learned patterns for a category. Failures leave the row
// uncategorized.
func suggestCategory(ctx context.Context, app *App, userID uuid.UUID, note string) uuid.UUID {
	id, err := app.Svc.Categorize.Suggest(ctx, userID, note)
	if err != nil {
		slog.Warn("failed to suggest category", "error", err)
		return uuid.Nil
	}

	return id
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
	} else if i.tx.IsIncome() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("  " + title)
	} else {
		title = "  " + title
	}

	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
