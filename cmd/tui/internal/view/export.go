package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financeflow/internal/export"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

type exportFields struct {
	path string
	kind string
}

const (
	exportKindBoth = "both"
	exportKindJSON = "json"
	exportKindCSV  = "csv"
)

type ExportModel struct {
	app *App

	state   exportState
	err     error
	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model
	summary string
}

func NewExportModel(app *App) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{app: app, spinner: s}
	m.form, m.fields = buildExportForm()

	return m
}

func (m ExportModel) Title() string { return "Export Data" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.fields))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildExportForm() (*huh.Form, *exportFields) {
	f := &exportFields{path: "./exports", kind: exportKindBoth}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("What to export").
				Options(
					huh.NewOption("JSON backup and transactions CSV", exportKindBoth),
					huh.NewOption("JSON backup only", exportKindJSON),
					huh.NewOption("Transactions CSV only", exportKindCSV),
				).
				Value(&f.kind),

			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&f.path),
		),
	).WithWidth(50).WithShowHelp(false)

	return form, f
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting your data...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(Esc to go back)",
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

func (m ExportModel) runExportCmd(f exportFields) tea.Cmd {
	app := m.app

	return func() tea.Msg {
		userID, ok := app.UserID()
		if !ok {
			return exportResultMsg{err: errNoUser}
		}

		dir := strings.TrimSpace(f.path)
		if dir == "" {
			dir = "."
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating %s: %w", dir, err)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		now := time.Now().In(app.Loc)

		var lines []string

		if f.kind != exportKindCSV {
			snap, err := app.Svc.Export.Snapshot(ctx, userID)
			if err != nil {
				return exportResultMsg{err: err}
			}

			path := filepath.Join(dir, export.JSONFileName(now))
			if err := writeFile(path, func(file *os.File) error { return export.WriteJSON(file, snap, now) }); err != nil {
				return exportResultMsg{err: err}
			}

			lines = append(lines, fmt.Sprintf("Backup:  %s (%d transactions, %d budgets, %d todos, %d categories)",
				path, len(snap.Transactions), len(snap.Budgets), len(snap.Todos), len(snap.Categories)))
		}

		if f.kind != exportKindJSON {
			txs, categories, err := app.Svc.Export.Transactions(ctx, userID)
			if err != nil {
				return exportResultMsg{err: err}
			}

			path := filepath.Join(dir, export.CSVFileName(now))
			if err := writeFile(path, func(file *os.File) error { return export.WriteCSV(file, txs, categories) }); err != nil {
				return exportResultMsg{err: err}
			}

			lines = append(lines, fmt.Sprintf("CSV:     %s (%d transactions)", path, len(txs)))
		}

		return exportResultMsg{body: strings.Join(lines, "\n")}
	}
}

func writeFile(path string, write func(*os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return file.Close()
}
