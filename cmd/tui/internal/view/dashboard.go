package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financeflow/internal/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/category"
	"github.com/MrJamesThe3rd/financeflow/internal/resource"
)

const (
	recentCount  = 5
	billHorizon  = 3
	cardWidth    = 28
	cardsPerLine = 3
)

type DashboardModel struct {
	app *App

	summary *analytics.Memo[dashboardData]
	status  string
}

type dashboardData struct {
	stats     analytics.DashboardSummary
	insights  analytics.InsightSummary
	goals     analytics.GoalSummary
	recurring analytics.RecurringSummary
}

func NewDashboardModel(app *App) DashboardModel {
	return DashboardModel{app: app, summary: &analytics.Memo[dashboardData]{}}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	a := m.app

	return tea.Batch(
		a.ProfileCmd(),
		FetchCmd(a.Transactions, a.Categories, a.Budgets, a.Goals, a.Recurring),
	)
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.status = ""
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.Err)
		}
	case ProfileMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error loading profile: %v", msg.Err)
		}

		// The balance depends on the profile, which the memo cannot see.
		m.summary.Reset()
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.Init()
		}
	}

	return m, nil
}

func (m DashboardModel) loaded() bool {
	a := m.app
	return resource.AllLoaded(a.Transactions, a.Categories, a.Budgets, a.Goals, a.Recurring)
}

func (m DashboardModel) data() dashboardData {
	a := m.app
	month := a.Month()

	return m.summary.Get(func() dashboardData {
		txs := a.Transactions.Items()
		categories := a.Categories.Items()
		bva := analytics.BudgetVsActual(a.Budgets.Items(), txs, categories, month)
		breakdown := analytics.CategoryBreakdown(txs, categories, month)

		return dashboardData{
			stats:     analytics.Dashboard(txs, bva, a.InitialBalance(), month),
			insights:  analytics.Insights(txs, bva, breakdown, month),
			goals:     analytics.GoalStats(a.Goals.Items()),
			recurring: analytics.RecurringStats(a.Recurring.Items()),
		}
	}, a.Transactions.Version(), a.Categories.Version(), a.Budgets.Version(), a.Goals.Version(), a.Recurring.Version(), month)
}

func (m DashboardModel) View() string {
	if !m.loaded() {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	d := m.data()
	a := m.app

	cards := []string{
		card("Total Balance", a.Money(d.stats.TotalBalance), "252"),
		card("Income this month", a.Money(d.stats.MonthlyIncome), "46"),
		card("Expense this month", a.Money(d.stats.MonthlyExpense), "196"),
		card("Budget remaining", a.Money(d.stats.BudgetRemaining), "39"),
		card("Budget used", FormatPercent(d.stats.BudgetUsedPercent), "214"),
		card("Savings rate", FormatPercent(d.insights.SavingsRate), savingsColor(d.insights.Healthy)),
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerLine {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:min(i+cardsPerLine, len(cards))]...))
	}

	sections := []string{
		lipgloss.NewStyle().Bold(true).Render("Overview for " + a.Month().String()),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		m.insightsView(d),
		m.goalsView(d),
		m.billsView(),
		m.recentView(),
	}

	if m.status != "" {
		sections = append([]string{lipgloss.NewStyle().Faint(true).Render(m.status)}, sections...)
	}

	return lipgloss.NewStyle().Padding(1).Render(strings.Join(sections, "\n\n"))
}

func (m DashboardModel) insightsView(d dashboardData) string {
	a := m.app
	lines := []string{heading("Insights")}

	if d.insights.TopSpending != nil {
		lines = append(lines, fmt.Sprintf("Top spending: %s (%s)", d.insights.TopSpending.Name, a.Money(d.insights.TopSpending.Amount)))
	}

	lines = append(lines, fmt.Sprintf("Net flow: %s", a.Money(d.insights.NetFlow)))

	for _, b := range d.insights.OverBudget {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(
			fmt.Sprintf("Over budget: %s by %s", b.Name, a.Money(b.Remaining().Neg())),
		))
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) goalsView(d dashboardData) string {
	a := m.app

	return heading("Goals") + "\n" + fmt.Sprintf(
		"%d active, %d completed  |  saved %s of %s (%s)\nRecurring: %d active  |  monthly in %s, out %s",
		d.goals.Active, d.goals.Completed,
		a.Money(d.goals.TotalSaved), a.Money(d.goals.TotalTarget), FormatPercent(d.goals.Progress),
		d.recurring.Active, a.Money(d.recurring.MonthlyIncome), a.Money(d.recurring.MonthlyExpense),
	)
}

func (m DashboardModel) billsView() string {
	today := time.Now().In(m.app.Loc)
	lines := []string{heading("Upcoming bills")}

	for _, item := range m.app.Recurring.Items() {
		if item.DueWithin(today, billHorizon) {
			lines = append(lines, fmt.Sprintf("%s  %s  %s", FormatDate(item.NextDate), m.app.Money(item.Amount), item.Name))
		}
	}

	if len(lines) == 1 {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render("Nothing due in the next 3 days."))
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) recentView() string {
	lookup := category.NewLookup(m.app.Categories.Items())
	lines := []string{heading("Recent transactions")}

	txs := m.app.Transactions.Items()
	for _, tx := range txs[:min(recentCount, len(txs))] {
		sign := "-"
		if tx.IsIncome() {
			sign = "+"
		}

		lines = append(lines, fmt.Sprintf("%s  %s%s  %s  %s",
			FormatDate(tx.Date), sign, m.app.Money(tx.Amount), lookup.Name(tx.CategoryID, "Uncategorized"), tx.Note))
	}

	return strings.Join(lines, "\n")
}

func card(label, value, color string) string {
	return lipgloss.NewStyle().
		Width(cardWidth).
		Padding(0, 1).
		MarginRight(1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(lipgloss.NewStyle().Faint(true).Render(label) + "\n" +
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(value))
}

func heading(s string) string {
	return lipgloss.NewStyle().Bold(true).Underline(true).Render(s)
}

func savingsColor(healthy bool) string {
	if healthy {
		return "46"
	}

	return "214"
}
