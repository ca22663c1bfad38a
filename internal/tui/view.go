package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.rec == nil {
		return m.viewSetup()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("todos"))
	b.WriteString("\n")
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if !m.snap.LoadDone {
		b.WriteString(m.styles.Row.Render(m.spinner.View() + " loading"))
		b.WriteString("\n")
	}
	for i, it := range m.snap.Items {
		b.WriteString(m.viewRow(i, it))
		b.WriteString("\n")
	}
	if m.snap.HasItems() {
		b.WriteString(m.viewFooter())
		b.WriteString("\n")
	}
	if m.snap.Error != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(m.snap.Error + "  ×"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewSetup() string {
	hint := m.setupHint
	if hint == "" {
		hint = "Set owner_id in config.yaml or TODOS_OWNER_ID, then restart."
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("todos: setup required"),
		"No owner id is configured, so there is no collection to show.",
		hint,
		"",
		m.styles.Disabled.Render("q to quit"),
	)
	return m.styles.Notice.Render(body) + "\n"
}

func (m Model) viewHeader() string {
	toggle := m.styles.ToggleAll.Render("❯❯")
	if m.snap.HasItems() && m.snap.AllCompleted {
		toggle = m.styles.ToggleAllOn.Render("❯❯")
	}
	if !m.snap.HasItems() {
		toggle = "  "
	}

	input := m.input.View()
	if m.snap.InputDisabled {
		input = m.styles.Disabled.Render(m.input.Value()) + " " + m.spinner.View()
	}
	return toggle + " " + input
}

func (m Model) viewRow(i int, it types.Item) string {
	cursor := "  "
	if m.focus != focusInput && i == m.cursor {
		cursor = m.styles.Cursor.Render("> ")
	}

	check := "[ ]"
	if it.Completed {
		check = "[x]"
	}

	title := it.Title
	switch {
	case m.focus == focusEdit && it.ID == m.editingID:
		title = m.edit.View()
	case it.Completed:
		title = m.styles.Completed.Render(title)
	}

	pending := m.snap.IsPending(it.ID)
	remove := "×"
	if pending {
		remove = m.styles.Disabled.Render("×")
	}

	row := fmt.Sprintf("%s%s %s  %s", cursor, check, title, remove)
	if pending {
		row += " " + m.styles.Pending.Render(m.spinner.View())
	}
	return row
}

func (m Model) viewFooter() string {
	count := m.snap.ItemsLeft()

	links := make([]string, 0, len(types.FilterModes))
	for _, mode := range types.FilterModes {
		style := m.styles.FilterLink
		if mode == m.snap.Filter {
			style = m.styles.FilterSelected
		}
		links = append(links, style.Render(mode.Label()))
	}

	clearLink := "Clear completed"
	if m.snap.CompletedCount == 0 {
		clearLink = m.styles.Disabled.Render(clearLink)
	}

	return m.styles.Footer.Render(lipgloss.JoinHorizontal(lipgloss.Bottom,
		count, "   ", lipgloss.JoinHorizontal(lipgloss.Bottom, links...), "   ", clearLink,
	))
}
