package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/financeflow/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/financeflow/internal/budget/store"
	"github.com/MrJamesThe3rd/financeflow/internal/categorize"
	categorizeStore "github.com/MrJamesThe3rd/financeflow/internal/categorize/store"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	categoryStore "github.com/MrJamesThe3rd/financeflow/internal/category/store"
	"github.com/MrJamesThe3rd/financeflow/internal/config"
	"github.com/MrJamesThe3rd/financeflow/internal/database"
	"github.com/MrJamesThe3rd/financeflow/internal/export"
	"github.com/MrJamesThe3rd/financeflow/internal/gate"
	"github.com/MrJamesThe3rd/financeflow/internal/goal"
	goalStore "github.com/MrJamesThe3rd/financeflow/internal/goal/store"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/logging"
	"github.com/MrJamesThe3rd/financeflow/internal/profile"
	profileStore "github.com/MrJamesThe3rd/financeflow/internal/profile/store"
	"github.com/MrJamesThe3rd/financeflow/internal/recurring"
	recurringStore "github.com/MrJamesThe3rd/financeflow/internal/recurring/store"
	"github.com/MrJamesThe3rd/financeflow/internal/subscription"
	subscriptionStore "github.com/MrJamesThe3rd/financeflow/internal/subscription/store"
	"github.com/MrJamesThe3rd/financeflow/internal/todo"
	todoStore "github.com/MrJamesThe3rd/financeflow/internal/todo/store"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
	txStore "github.com/MrJamesThe3rd/financeflow/internal/transaction/store"
)

type screen struct {
	key   string
	label string
	open  func(*view.App) view.View
}

var screens = []screen{
	{"1", "Dashboard", func(a *view.App) view.View { return view.NewDashboardModel(a) }},
	{"2", "Transactions", func(a *view.App) view.View { return view.NewTransactionsModel(a) }},
	{"3", "Budgets", func(a *view.App) view.View { return view.NewBudgetsModel(a) }},
	{"4", "Analytics", func(a *view.App) view.View { return view.NewAnalyticsModel(a) }},
	{"5", "Todos", func(a *view.App) view.View { return view.NewTodosModel(a) }},
	{"6", "Categorize Transactions", func(a *view.App) view.View { return view.NewReviewModel(a) }},
	{"7", "Import Statement", func(a *view.App) view.View { return view.NewImportModel(a) }},
	{"8", "Export Data", func(a *view.App) view.View { return view.NewExportModel(a) }},
}

type model struct {
	app  *view.App
	name string

	gate    view.GateModel
	granted bool

	current view.View
	size    tea.WindowSizeMsg
}

func newModel(app *view.App, name string) model {
	return model{
		app:     app,
		name:    name,
		gate:    view.NewGateModel(app),
		granted: app.Gate.State() == gate.Granted,
	}
}

func (m model) Init() tea.Cmd {
	return m.gate.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case view.GateMsg:
		granted := msg.State == gate.Granted
		if granted != m.granted {
			m.current = nil
		}

		m.granted = granted

		g, cmd := m.gate.Update(msg)
		m.gate = g.(view.GateModel)

		return m, cmd

	case tea.WindowSizeMsg:
		m.size = msg

	case view.BackMsg:
		m.current = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if !m.granted || m.current == nil {
			if msg.String() == "q" {
				return m, tea.Quit
			}
		}

		if m.granted && m.current == nil {
			if msg.String() == "s" {
				return m, signOut(m.app.Gate)
			}

			return m.openScreen(msg.String())
		}
	}

	if !m.granted {
		g, cmd := m.gate.Update(msg)
		m.gate = g.(view.GateModel)

		return m, cmd
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func signOut(g *gate.Gate) tea.Cmd {
	return func() tea.Msg {
		g.SignOut()
		return nil
	}
}

func (m model) openScreen(key string) (tea.Model, tea.Cmd) {
	for _, s := range screens {
		if s.key != key {
			continue
		}

		m.current = s.open(m.app)

		cmds := []tea.Cmd{m.current.Init()}
		if m.size.Width > 0 {
			size := m.size
			cmds = append(cmds, func() tea.Msg { return size })
		}

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m model) View() string {
	if !m.granted {
		return m.frame(m.gate.Title(), m.gate.View(), m.gate.ShortHelp())
	}

	if m.current == nil {
		return m.frame(m.name, m.menu(), "s: sign out | q: quit")
	}

	return m.frame(m.current.Title(), m.current.View(), m.current.ShortHelp())
}

func (m model) menu() string {
	var b strings.Builder

	for _, s := range screens {
		fmt.Fprintf(&b, "%s. %s\n", s.key, s.label)
	}

	b.WriteString("\nq. Quit")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m model) frame(title, body, help string) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 2).Render(title)
	footer := lipgloss.NewStyle().Faint(true).Padding(0, 2).Render(help)

	if toast := m.app.Toast(); toast != "" {
		footer += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Padding(0, 2).Render(toast)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	logging.Setup(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: logFile})

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.ConnectionString(), database.Options{Attempts: cfg.DB.Attempts})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	var (
		transactionService  = transaction.NewService(txStore.New(db))
		categoryService     = category.NewService(categoryStore.New(db))
		budgetService       = budget.NewService(budgetStore.New(db))
		todoService         = todo.NewService(todoStore.New(db))
		profileService      = profile.NewService(profileStore.New(db))
		categorizeService   = categorize.NewService(categorizeStore.New(db))
		subscriptionService = subscription.NewService(subscriptionStore.New(db))
	)

	services := view.Services{
		Transactions: transactionService,
		Categories:   categoryService,
		Budgets:      budgetService,
		Goals:        goal.NewService(goalStore.New(db)),
		Todos:        todoService,
		Recurring:    recurring.NewService(recurringStore.New(db)),
		Profiles:     profileService,
		Categorize:   categorizeService,
		Import:       importer.NewService(transactionService, categoryService, categorizeService),
		Export:       export.NewService(transactionService, budgetService, todoService, categoryService, profileService),
	}

	g := gate.New(
		auth.StaticSource{Verifier: auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer), Token: cfg.Auth.Token},
		profileService,
		subscriptionService,
		gate.WithInterval(cfg.Gate.PollInterval),
	)

	app := view.NewApp(g, services, loc)
	defer app.Close()

	p := tea.NewProgram(newModel(app, cfg.App.Name), tea.WithAltScreen())

	g.OnChange(func(s gate.State) {
		p.Send(view.GateMsg{State: s})
	})

	go g.Start(ctx)

	slog.Info("starting tui", "timezone", loc.String())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}

	return nil
}
