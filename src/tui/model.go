// Package tui renders a build report CSV as an interactive table.
package tui

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

const maxColumnWidth = 24

// Model is the bubbletea model for the report viewer.
type Model struct {
	table  table.Model
	styles *StyleConfig
	title  string
}

// LoadCSV reads a report file into a header and records.
func LoadCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("report %s is empty", path)
	}
	return records[0], records[1:], nil
}

// NewModel builds the viewer model from a header and records.
func NewModel(title string, header []string, records [][]string) Model {
	styles := DefaultStyles()

	columns := make([]table.Column, 0, len(header))
	for i, name := range header {
		width := VisualWidth(name)
		for _, record := range records {
			if i < len(record) && VisualWidth(record[i]) > width {
				width = VisualWidth(record[i])
			}
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		columns = append(columns, table.Column{Title: name, Width: width})
	}

	rows := make([]table.Row, 0, len(records))
	for _, record := range records {
		row := make(table.Row, len(columns))
		for i := range columns {
			if i < len(record) {
				row[i] = Truncate(record[i], maxColumnWidth, true)
			}
		}
		rows = append(rows, row)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Foreground(styles.HeaderColor).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(styles.SelectedFg).
		Background(styles.SelectedBg)
	t.SetStyles(ts)

	return Model{
		table:  t,
		styles: styles,
		title:  title,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Leave room for title, border, and help line.
		height := msg.Height - 6
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	title := m.styles.TitleStyle().Render(m.title)
	body := m.styles.BorderStyle().Render(m.table.View())
	help := m.styles.HelpStyle().Render("↑/↓: scroll • q: quit")
	return title + "\n" + body + "\n" + help + "\n"
}

// Start loads a report CSV and runs the viewer until the user quits.
func Start(path string) error {
	header, records, err := LoadCSV(path)
	if err != nil {
		return err
	}

	model := NewModel(path, header, records)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}
