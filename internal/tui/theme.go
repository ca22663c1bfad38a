package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by View.
type Styles struct {
	Title          lipgloss.Style
	Row            lipgloss.Style
	Cursor         lipgloss.Style
	Completed      lipgloss.Style
	Pending        lipgloss.Style
	Disabled       lipgloss.Style
	ToggleAll      lipgloss.Style
	ToggleAllOn    lipgloss.Style
	FilterLink     lipgloss.Style
	FilterSelected lipgloss.Style
	Footer         lipgloss.Style
	Error          lipgloss.Style
	Notice         lipgloss.Style
}

// DefaultStyles is the built-in dark-terminal palette.
func DefaultStyles() Styles {
	accent := lipgloss.Color("#AF5F5F")
	muted := lipgloss.Color("#6C6C6C")

	return Styles{
		Title:          lipgloss.NewStyle().Foreground(accent).Bold(true).MarginBottom(1),
		Row:            lipgloss.NewStyle().PaddingLeft(2),
		Cursor:         lipgloss.NewStyle().Foreground(accent).Bold(true),
		Completed:      lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		Pending:        lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF5F")),
		Disabled:       lipgloss.NewStyle().Foreground(muted).Faint(true),
		ToggleAll:      lipgloss.NewStyle().Foreground(muted),
		ToggleAllOn:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F")).Bold(true),
		FilterLink:     lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		FilterSelected: lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(accent),
		Footer:         lipgloss.NewStyle().Foreground(muted).MarginTop(1),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#AF0000")).Padding(0, 1),
		Notice:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
	}
}
