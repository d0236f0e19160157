package view

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks uncategorized transactions one by one, proposes a category from the
// learned patterns and teaches the pattern back when the user confirms.
type ReviewModel struct {
	app *App

	state           reviewState
	timeframePicker TimeframePicker

	queue      []*transaction.Transaction
	currentTx  *transaction.Transaction
	options    []*category.Category
	cursor     int
	suggested  uuid.UUID
	totalCount int

	status string
}

func NewReviewModel(app *App) ReviewModel {
	return ReviewModel{
		app:             app,
		timeframePicker: NewTimeframePicker(app.Month),
		status:          "Select timeframe to review",
	}
}

func (m ReviewModel) Title() string { return "Categorize" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "↑/↓: category | Enter: save & next | s: skip | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return FetchCmd(m.app.Transactions, m.app.Categories)
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.queue = m.uncategorized(msg)
		m.totalCount = len(m.queue)
		m.state = reviewStateReviewing

		return m.next()

	case suggestionMsg:
		if m.currentTx != nil && msg.txID == m.currentTx.ID {
			m.suggested = msg.categoryID
			m.selectSuggested()
		}

		return m, nil

	case reviewSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		return m.next()

	case tea.KeyMsg:
		if m.state == reviewStateTimeframe {
			if msg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}

			break
		}

		switch msg.String() {
		case "esc":
			m.state = reviewStateTimeframe
			m.timeframePicker.Reset()
			m.currentTx = nil

			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

			return m, nil
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}

			return m, nil
		case "s":
			return m.next()
		case "enter":
			if m.currentTx != nil && len(m.options) > 0 {
				return m, m.saveCmd(m.currentTx, m.options[m.cursor].ID)
			}

			return m, nil
		}

		return m, nil
	}

	if m.state == reviewStateTimeframe {
		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReviewModel) uncategorized(tf TimeframeSelectedMsg) []*transaction.Transaction {
	var out []*transaction.Transaction

	for _, tx := range m.app.Transactions.Items() {
		if tx.CategoryID == uuid.Nil && tf.Contains(tx.Date) {
			out = append(out, tx)
		}
	}

	return out
}

func (m ReviewModel) next() (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.options = nil
		m.status = "All done! Nothing left to categorize."

		return m, nil
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]
	m.currentTx = tx
	m.suggested = uuid.Nil
	m.cursor = 0
	m.options = applicable(m.app.Categories.Items(), tx.Type)
	m.status = fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)

	return m, m.suggestCmd(tx)
}

// applicable keeps the categories that can hold a transaction of type t.
func applicable(categories []*category.Category, t transaction.Type) []*category.Category {
	var out []*category.Category

	for _, c := range categories {
		if c.Type == category.TypeBoth || string(c.Type) == string(t) {
			out = append(out, c)
		}
	}

	return out
}

func (m *ReviewModel) selectSuggested() {
	for i, c := range m.options {
		if c.ID == m.suggested {
			m.cursor = i
			return
		}
	}
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.currentTx == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	tx := m.currentTx
	info := fmt.Sprintf(
		"Date:    %s\nType:    %s\nAmount:  %s\nPayment: %s\nNote:    %s\n",
		FormatDate(tx.Date), tx.Type, m.app.Money(tx.Amount), tx.PaymentMethod, tx.Note,
	)

	var b strings.Builder

	for i, c := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + c.Name
		if c.ID == m.suggested {
			line += lipgloss.NewStyle().Faint(true).Render("  (suggested)")
		}

		if i == m.cursor {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(line)
		}

		b.WriteString(line + "\n")
	}

	if len(m.options) == 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("No category fits this transaction type. Press s to skip.") + "\n")
	}

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("%s\n\n%s\nCategory:\n%s", m.status, info, b.String()),
	)
}

// Messages

type suggestionMsg struct {
	txID       uuid.UUID
	categoryID uuid.UUID
}

func (m ReviewModel) suggestCmd(tx *transaction.Transaction) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok || tx.Note == "" {
			return nil
		}

		ctx, cancel := DbCtx()
		defer cancel()

		return suggestionMsg{txID: tx.ID, categoryID: suggestCategory(ctx, app, userID, tx.Note)}
	}
}

type reviewSavedMsg struct {
	err error
}

func (m ReviewModel) saveCmd(tx *transaction.Transaction, categoryID uuid.UUID) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return reviewSavedMsg{err: errNoUser}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err := app.Transactions.Update(ctx, func(ctx context.Context) (*transaction.Transaction, error) {
			return app.Svc.Transactions.Update(ctx, userID, tx.ID, transaction.UpdateParams{CategoryID: &categoryID})
		})
		if err != nil {
			return reviewSavedMsg{err: err}
		}

		if tx.Note != "" {
			if err := app.Svc.Categorize.Learn(ctx, userID, tx.Note, categoryID); err != nil {
				slog.Warn("failed to learn category", "error", err)
			}
		}

		return reviewSavedMsg{}
	}
}
