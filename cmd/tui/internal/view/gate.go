package view

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financeflow/internal/gate"
)

// GateMsg carries a gate transition into the program.
type GateMsg struct {
	State gate.State
}

// GateModel is shown whenever the gate is not granted.
type GateModel struct {
	app     *App
	state   gate.State
	spinner spinner.Model
}

func NewGateModel(app *App) GateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return GateModel{app: app, state: app.Gate.State(), spinner: s}
}

func (m GateModel) Title() string { return "FinanceFlow" }

func (m GateModel) ShortHelp() string {
	switch m.state {
	case gate.PaymentRequired:
		return "r: I have paid, check again | s: sign out | q: quit"
	case gate.Unauthenticated:
		return "q: quit"
	}

	return "r: check again | s: sign out | q: quit"
}

func (m GateModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m GateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GateMsg:
		m.state = msg.State
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			g := m.app.Gate
			return m, func() tea.Msg {
				g.Refresh(context.Background())
				return nil
			}
		case "s":
			// Listeners call Program.Send, which must not run on the update loop.
			g := m.app.Gate
			return m, func() tea.Msg {
				g.SignOut()
				return nil
			}
		}
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m GateModel) View() string {
	var body string

	switch m.state {
	case gate.Unauthenticated:
		body = "You are not signed in.\n\nSet FINANCEFLOW_TOKEN to a session token and restart."
	case gate.Authenticating:
		body = m.spinner.View() + " Restoring session..."
	case gate.ActivationPending:
		body = m.spinner.View() + " Your account is waiting for activation by an administrator.\n\nThis screen updates by itself."
	case gate.SubscriptionChecking:
		body = m.spinner.View() + " Checking subscription..."
	case gate.PaymentRequired:
		body = "Your subscription is not active.\n\nComplete the payment, then press r."
	case gate.Denied:
		body = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("Your account has been deactivated.")
	default:
		body = fmt.Sprintf("State: %s", m.state)
	}

	if s := m.app.Gate.Session(); s != nil {
		body = lipgloss.NewStyle().Faint(true).Render("Signed in as "+s.Email) + "\n\n" + body
	}

	return lipgloss.NewStyle().Padding(2).Render(body)
}
