package tui

import "github.com/charmbracelet/lipgloss"

// StyleConfig holds the customizable colors for the report viewer.
type StyleConfig struct {
	HeaderColor   lipgloss.Color
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	BorderColor   lipgloss.Color
	SelectedFg    lipgloss.Color
	SelectedBg    lipgloss.Color
}

// DefaultStyles returns the default color palette.
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		HeaderColor:   lipgloss.Color("#8AB4F8"),
		TextPrimary:   lipgloss.Color("#E8EAED"),
		TextSecondary: lipgloss.Color("#9AA0A6"),
		BorderColor:   lipgloss.Color("#5F6368"),
		SelectedFg:    lipgloss.Color("#1E1E1E"),
		SelectedBg:    lipgloss.Color("#8AB4F8"),
	}
}

// BorderStyle returns the table container style.
func (s *StyleConfig) BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.BorderColor)
}

// TitleStyle returns the title bar style.
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.HeaderColor).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns the help line style.
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 1)
}
