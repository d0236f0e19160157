package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/analytics"
	"github.com/MrJamesThe3rd/financeflow/internal/money"
	"github.com/MrJamesThe3rd/financeflow/internal/period"
	"github.com/MrJamesThe3rd/financeflow/internal/resource"
)

const (
	trendMonths = 6
	barWidth    = 30
)

type AnalyticsModel struct {
	app   *App
	month period.Month

	breakdown *analytics.Memo[[]analytics.CategoryAmount]
	trend     *analytics.Memo[[]analytics.MonthPoint]

	status string
}

func NewAnalyticsModel(app *App) AnalyticsModel {
	return AnalyticsModel{
		app:       app,
		month:     app.Month(),
		breakdown: &analytics.Memo[[]analytics.CategoryAmount]{},
		trend:     &analytics.Memo[[]analytics.MonthPoint]{},
	}
}

func (m AnalyticsModel) Title() string { return "Analytics" }

func (m AnalyticsModel) ShortHelp() string { return "Esc: back | [/]: month | r: refresh" }

func (m AnalyticsModel) Init() tea.Cmd {
	return FetchCmd(m.app.Transactions, m.app.Categories)
}

func (m AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.status = ""
		if msg.Err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.Err)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.Init()
		case "[":
			m.month = m.month.Prev()
		case "]":
			m.month = m.month.Next()
		}
	}

	return m, nil
}

func (m AnalyticsModel) View() string {
	a := m.app
	if !resource.AllLoaded(a.Transactions, a.Categories) {
		return lipgloss.NewStyle().Padding(2).Render("Loading analytics...")
	}

	month := m.month
	txVersion, catVersion := a.Transactions.Version(), a.Categories.Version()

	breakdown := m.breakdown.Get(func() []analytics.CategoryAmount {
		return analytics.CategoryBreakdown(a.Transactions.Items(), a.Categories.Items(), month)
	}, txVersion, catVersion, month)

	trend := m.trend.Get(func() []analytics.MonthPoint {
		return analytics.MonthlyTrend(a.Transactions.Items(), trendMonths)
	}, txVersion)

	totals := analytics.MonthlyTotals(a.Transactions.Items(), month)

	sections := []string{
		fmt.Sprintf("Month: %s", activeStyle(month.String())),
		fmt.Sprintf("Income %s   Expense %s   Net %s   Savings rate %s",
			a.Money(totals.Income), a.Money(totals.Expense), a.Money(totals.Net()),
			FormatPercent(analytics.SavingsRate(totals.Income, totals.Expense))),
		m.breakdownView(breakdown, totals.Expense),
		m.trendView(trend),
	}

	if m.status != "" {
		sections = append([]string{lipgloss.NewStyle().Faint(true).Render(m.status)}, sections...)
	}

	return lipgloss.NewStyle().Padding(1).Render(strings.Join(sections, "\n\n"))
}

func (m AnalyticsModel) breakdownView(breakdown []analytics.CategoryAmount, total decimal.Decimal) string {
	lines := []string{heading("Spending by category")}

	if len(breakdown) == 0 {
		return lines[0] + "\n" + lipgloss.NewStyle().Faint(true).Render("No expenses this month.")
	}

	for _, c := range breakdown {
		share := money.Percent(c.Amount, total)
		lines = append(lines, fmt.Sprintf("%-18s %s %6s  %s",
			truncate(c.Name, 18), bar(share), FormatPercent(share), m.app.Money(c.Amount)))
	}

	return strings.Join(lines, "\n")
}

func (m AnalyticsModel) trendView(trend []analytics.MonthPoint) string {
	lines := []string{heading(fmt.Sprintf("Last %d months", trendMonths))}

	for _, p := range trend {
		savings := m.app.Money(p.Savings)
		if p.Savings.IsNegative() {
			savings = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(savings)
		}

		lines = append(lines, fmt.Sprintf("%s  in %s  out %s  saved %s",
			p.Month, m.app.Money(p.Income), m.app.Money(p.Expense), savings))
	}

	if len(trend) == 0 {
		lines = append(lines, lipgloss.NewStyle().Faint(true).Render("No transactions yet."))
	}

	return strings.Join(lines, "\n")
}

// bar draws a horizontal bar for a 0-100 percentage.
func bar(percent decimal.Decimal) string {
	filled := int(percent.Mul(decimal.NewFromInt(barWidth)).Div(decimal.NewFromInt(100)).IntPart())
	filled = max(0, min(barWidth, filled))

	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Faint(true).Render(strings.Repeat("░", barWidth-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
