package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/0x6d61/mcpick/internal/scanner"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  ⚡ Loading MCP configs...\n"
	}
	if m.state != StateSelecting {
		return ""
	}
	if len(m.configs) == 0 {
		return m.renderEmpty()
	}

	header := m.renderHeader()

	listW, _ := m.layout()
	body := m.renderList(listW)
	if m.showPreview {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderPreview())
	}

	footer := m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", footer)
}

// renderHeader renders the single-line title bar with the selection count.
func (m Model) renderHeader() string {
	appName := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("⚡ MCPICK")
	title := lipgloss.NewStyle().Foreground(colorTitle).Render(m.title)

	count := countStyle.Render(fmt.Sprintf("%d/%d selected", m.selectedCount(), len(m.configs)))
	if len(m.invalid) > 0 {
		count += hintStyle.Render(fmt.Sprintf("  %d invalid", len(m.invalid)))
	}

	left := appName + "  " + title
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(count)-2))
	return headerStyle.Width(m.width).Render(left + gap + count)
}

// renderList renders the valid configs followed by the invalid section, limited to the body height.
func (m Model) renderList(width int) string {
	var lines []string
	nameW := m.nameColumnWidth()

	for i, d := range m.configs {
		lines = append(lines, m.renderRow(i, d, nameW, width))
	}

	lines = append(lines, "")
	lines = append(lines, m.renderInvalid(width)...)

	// Keep the cursor row on screen when the list is taller than the body.
	h := m.bodyHeight()
	start := 0
	if m.cursor >= h {
		start = m.cursor - h + 1
	}
	// On the last row, scroll on into the invalid section as far as the cursor allows.
	if m.cursor == len(m.configs)-1 {
		start = max(start, min(m.cursor, len(lines)-h))
	}
	end := min(len(lines), start+h)
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines[start:end], "\n"))
}

// renderRow renders one selectable config line.
//
//	› [x] name   description
func (m Model) renderRow(i int, d scanner.Descriptor, nameW, width int) string {
	pointer := "  "
	name := nameStyle
	if i == m.cursor {
		pointer = cursorStyle.Render("› ")
		name = nameActiveStyle
	}

	box := uncheckedStyle.Render("[ ]")
	if m.selected[i] {
		box = checkedStyle.Render("[x]")
	}

	padded := d.Name + strings.Repeat(" ", max(0, nameW-runewidth.StringWidth(d.Name)))
	prefixW := 2 + 4 + nameW + 2
	desc := ""
	if d.Description != d.Name {
		desc = runewidth.Truncate(d.Description, max(0, width-prefixW), ellipsis)
	}
	return pointer + box + " " + name.Render(padded) + "  " + descriptionStyle.Render(desc)
}

// renderInvalid renders the collapsible invalid-config section.
func (m Model) renderInvalid(width int) []string {
	if len(m.invalid) == 0 {
		return nil
	}
	if !m.showInvalid {
		return []string{hintStyle.Render(fmt.Sprintf("%d invalid config(s) hidden, press i to show", len(m.invalid)))}
	}

	lines := []string{invalidHeaderStyle.Render(fmt.Sprintf("Invalid configs (%d)", len(m.invalid)))}
	for _, d := range m.invalid {
		lines = append(lines, "  "+invalidNameStyle.Render("✗ "+d.Name))
		if m.expandErrors {
			lines = append(lines, errorLines(d.Error, width)...)
		}
	}
	if !m.expandErrors {
		lines = append(lines, hintStyle.Render("  press e to show errors"))
	}
	return lines
}

// renderPreview renders the bordered preview pane for the config under the cursor.
func (m Model) renderPreview() string {
	_, outer := m.layout()
	innerW, _ := m.previewSize()

	title := "Preview"
	if d := m.current(); d != nil {
		title = runewidth.Truncate(d.Name+".json", innerW, ellipsis)
	}

	var content string
	if m.preview.loading {
		content = m.spinner.View() + previewLoadingStyle.Render(" Loading...")
	} else {
		content = m.viewport.View()
	}

	return previewPaneStyle.
		Width(outer - 2).
		Height(m.bodyHeight() - 2).
		Render(previewTitleStyle.Render(title) + "\n" + content)
}

// renderEmpty is shown when no config is selectable. Errors are always expanded here.
func (m Model) renderEmpty() string {
	var sb strings.Builder
	sb.WriteString(invalidHeaderStyle.Render("No valid MCP configs found."))
	sb.WriteString("\n")

	width := max(20, m.width-8)
	for _, d := range m.invalid {
		sb.WriteString("\n" + invalidNameStyle.Render("✗ "+d.Name) + "\n")
		sb.WriteString(strings.Join(errorLines(d.Error, width), "\n"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + hintStyle.Render("Press any key to continue without MCP configs..."))
	return emptyBoxStyle.Render(sb.String())
}

// nameColumnWidth is the widest config name, capped so descriptions stay visible.
func (m Model) nameColumnWidth() int {
	w := 0
	for _, d := range m.configs {
		w = max(w, runewidth.StringWidth(d.Name))
	}
	return min(w, 32)
}

// errorLines indents a (possibly multi-line) error message under its config name.
func errorLines(msg string, width int) []string {
	if msg == "" {
		msg = "Unknown error"
	}
	var out []string
	for _, line := range strings.Split(msg, "\n") {
		out = append(out, errorDetailStyle.Render(runewidth.Truncate("    "+line, width, ellipsis)))
	}
	return out
}
