package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/mandal/pkg/board"
)

const appTitle = "새해 만다라트"

func (m Model) sideBySide() bool {
	return m.width == 0 || m.width >= SplitViewThreshold
}

// View renders the screen.
func (m Model) View() string {
	if m.mode == modePreview {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.theme.AppTitle.Render(appTitle+" · 미리보기"),
			m.preview.View(),
			m.renderHelp(),
		)
	}

	w := cellWidth(m.width, m.sideBySide())
	overview := m.renderPane(paneOverview, board.OverviewCaption, w)
	detail := m.renderPane(paneDetail, m.header, w)

	var body string
	if m.sideBySide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, overview, strings.Repeat(" ", SpaceSM), detail)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, overview, detail)
	}

	parts := []string{m.theme.AppTitle.Render(appTitle), body}
	if m.mode == modeJump {
		parts = append(parts, m.renderJump())
	}
	parts = append(parts, m.renderStatus(), m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderPane(p pane, caption string, w int) string {
	g := m.grid(p)
	rows := make([]string, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 3)
		for c := 0; c < 3; c++ {
			cells[c] = m.renderCell(p, g.At(board.Position{Row: r, Col: c}), w)
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}

	titleStyle := m.theme.PaneTitle
	if p == m.focus {
		titleStyle = m.theme.PaneTitleFocus
	}
	title := titleStyle.Render(truncateRunesHelper(caption, 3*(w+4), "…"))
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderCell(p pane, c Cell, w int) string {
	focused := p == m.focus && c.Pos == m.cursor[p]
	editing := focused && m.mode == modeEdit

	style := m.theme.Cell
	switch {
	case editing:
		style = m.theme.EditingCell
	case focused:
		style = m.theme.CursorCell
	case c.Active:
		style = m.theme.ActiveCell
	case c.Center:
		style = m.theme.CenterCell
	}

	var content string
	if editing {
		lines := make([]string, CellTextLines)
		lines[0] = m.input.View()
		for i := 1; i < len(lines); i++ {
			lines[i] = padRight("", w)
		}
		content = strings.Join(lines, "\n")
	} else {
		text := m.theme.Text
		switch {
		case c.Empty():
			text = m.theme.Placeholder
		case c.Center:
			text = m.theme.CenterText
		}
		lines := fitCell(c.Display(), w)
		for i, l := range lines {
			lines[i] = text.Render(l)
		}
		content = strings.Join(lines, "\n")
	}
	return style.Width(w + 2).Render(content)
}

func (m Model) renderJump() string {
	var sb strings.Builder
	sb.WriteString(m.jumpInput.View())
	for n, match := range m.matches {
		sb.WriteString("\n")
		prefix := "  "
		if n == m.jumpSel {
			prefix = m.theme.MatchSelected.Render("▶ ")
		}
		sb.WriteString(prefix)
		sb.WriteString(fmt.Sprintf("%d. ", match.Index+1))
		sb.WriteString(m.highlight(match.Str, match.MatchedIndexes))
	}
	return m.theme.Overlay.Render(sb.String())
}

// highlight marks the matched runes of s.
func (m Model) highlight(s string, matched []int) string {
	if len(matched) == 0 {
		return s
	}
	return lipgloss.StyleRunes(s, matched, m.theme.MatchHighlight, m.theme.Renderer.NewStyle())
}

func (m Model) renderStatus() string {
	if m.statusMsg == "" {
		return ""
	}
	msg := m.statusMsg
	if m.width > 0 {
		msg = ansi.Truncate(msg, m.width, "…")
	}
	if m.statusIsError {
		return m.theme.StatusError.Render(msg)
	}
	return m.theme.Status.Render(msg)
}

type helpEntry struct {
	key  string
	desc string
}

func (m Model) helpEntries() []helpEntry {
	switch m.mode {
	case modeEdit:
		return []helpEntry{{"enter/esc", "done"}, {"ctrl+c", "quit"}}
	case modeJump:
		return []helpEntry{{"↑/↓", "choose"}, {"enter", "open"}, {"esc", "cancel"}}
	case modePreview:
		return []helpEntry{{"↑/↓", "scroll"}, {"y", "copy"}, {"esc/p", "close"}}
	case modeConfirmReset:
		return []helpEntry{{"y", "clear board"}, {"any key", "cancel"}}
	}
	return []helpEntry{
		{"hjkl", "move"},
		{"tab", "pane"},
		{"enter", "edit"},
		{"space/1-8", "expand"},
		{"/", "find"},
		{"y", "copy"},
		{"e", "export"},
		{"p", "preview"},
		{"r", "reset"},
		{"q", "quit"},
	}
}

func (m Model) renderHelp() string {
	entries := m.helpEntries()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = m.theme.HelpKey.Render(e.key) + " " + m.theme.Help.Render(e.desc)
	}
	return strings.Join(parts, m.theme.Help.Render(" • "))
}
