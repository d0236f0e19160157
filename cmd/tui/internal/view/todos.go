package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/financeflow/internal/todo"
)

type todoItem struct {
	todo    *todo.Todo
	overdue bool
}

func (i todoItem) Title() string {
	check := "[ ]"
	if i.todo.Status == todo.StatusDone {
		check = "[x]"
	}

	return fmt.Sprintf("%s %s", check, i.todo.Title)
}

func (i todoItem) Description() string {
	parts := []string{string(i.todo.Priority)}
	if i.todo.DueDate != nil {
		parts = append(parts, "due "+FormatDate(*i.todo.DueDate))
	}

	if i.todo.Description != "" {
		parts = append(parts, i.todo.Description)
	}

	return strings.Join(parts, "  ")
}

func (i todoItem) FilterValue() string { return i.todo.Title }

type todoFields struct {
	title       string
	description string
	priority    string
	due         string
}

type TodosModel struct {
	app *App

	list   list.Model
	form   *huh.Form
	fields *todoFields

	status string
}

func NewTodosModel(app *App) TodosModel {
	l := list.New([]list.Item{}, todoDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return TodosModel{app: app, list: l}
}

func (m TodosModel) Title() string { return "Todos" }

func (m TodosModel) ShortHelp() string {
	if m.form != nil {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | a: add | Space: toggle | x: delete"
}

func (m TodosModel) Init() tea.Cmd {
	return FetchCmd(m.app.Todos)
}

func (m TodosModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.Err)
		}

		m.refreshItems()

		return m, nil

	case todoSavedMsg:
		m.form = nil
		m.fields = nil
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.refreshItems()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			if m.list.FilterState() != list.FilterApplied {
				return m, Back
			}
		case "a":
			return m.openForm()
		case " ":
			if item, ok := m.list.SelectedItem().(todoItem); ok {
				return m, m.toggleCmd(item.todo.ID)
			}

			return m, nil
		case "x":
			if item, ok := m.list.SelectedItem().(todoItem); ok {
				return m, m.deleteCmd(item.todo.ID)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TodosModel) openForm() (tea.Model, tea.Cmd) {
	f := &todoFields{priority: string(todo.PriorityMedium)}

	m.fields = f
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				CharLimit(200).
				Value(&f.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}

					return nil
				}),

			huh.NewText().
				Key("description").
				Title("Description").
				Value(&f.description),

			huh.NewSelect[string]().
				Key("priority").
				Title("Priority").
				Options(
					huh.NewOption("Low", string(todo.PriorityLow)),
					huh.NewOption("Medium", string(todo.PriorityMedium)),
					huh.NewOption("High", string(todo.PriorityHigh)),
				).
				Value(&f.priority),

			huh.NewInput().
				Key("due").
				Title("Due date (optional)").
				Placeholder("YYYY-MM-DD").
				Value(&f.due).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					return validateDate(s)
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	return m, m.form.Init()
}

func (m TodosModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.form = nil
		m.fields = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd(m.fields)
}

func (m TodosModel) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Bold(true).Render("New Todo") + "\n\n" + m.form.View(),
		)
	}

	if !m.app.Todos.Loaded() {
		return lipgloss.NewStyle().Padding(2).Render("Loading todos...")
	}

	content := m.list.View()
	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TodosModel) refreshItems() {
	today := time.Now().In(m.app.Loc)
	todos := m.app.Todos.Items()

	items := make([]list.Item, len(todos))
	for i, t := range todos {
		items[i] = todoItem{todo: t, overdue: t.Overdue(today)}
	}

	m.list.SetItems(items)
}

// Messages

type todoSavedMsg struct {
	status string
	err    error
}

func (m TodosModel) createCmd(f *todoFields) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return todoSavedMsg{err: errNoUser}
		}

		params := todo.CreateParams{
			UserID:      userID,
			Title:       f.title,
			Description: strings.TrimSpace(f.description),
			Priority:    todo.Priority(f.priority),
		}

		if due := strings.TrimSpace(f.due); due != "" {
			d, err := time.Parse(time.DateOnly, due)
			if err != nil {
				return todoSavedMsg{err: err}
			}

			params.DueDate = &d
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err := app.Todos.Add(ctx, func(ctx context.Context) (*todo.Todo, error) {
			return app.Svc.Todos.Create(ctx, params)
		})

		return todoSavedMsg{status: "Todo added.", err: err}
	}
}

func (m TodosModel) toggleCmd(id uuid.UUID) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return todoSavedMsg{err: errNoUser}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		_, err := app.Todos.Update(ctx, func(ctx context.Context) (*todo.Todo, error) {
			return app.Svc.Todos.Toggle(ctx, userID, id)
		})

		return todoSavedMsg{err: err}
	}
}

func (m TodosModel) deleteCmd(id uuid.UUID) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return todoSavedMsg{err: errNoUser}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		err := app.Todos.Remove(ctx, id, func(ctx context.Context, id uuid.UUID) error {
			return app.Svc.Todos.Delete(ctx, userID, id)
		})

		return todoSavedMsg{status: "Todo deleted.", err: err}
	}
}

type todoDelegate struct{}

func (d todoDelegate) Height() int                             { return 2 }
func (d todoDelegate) Spacing() int                            { return 0 }
func (d todoDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d todoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(todoItem)
	if !ok {
		return
	}

	title := "  " + i.Title()

	switch {
	case index == m.Index():
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + i.Title())
	case i.todo.Status == todo.StatusDone:
		title = lipgloss.NewStyle().Faint(true).Strikethrough(true).Render(title)
	case i.overdue:
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(title)
	}

	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
