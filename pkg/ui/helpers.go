package ui

import (
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/mandal/pkg/export"
)

// truncateRunesHelper truncates a string to max visual width (cells), adding suffix if needed.
// Uses go-runewidth to handle wide characters correctly.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padRight pads s with spaces to the given display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func columns(s string) float64 {
	return float64(runewidth.StringWidth(s))
}

// fitCell wraps text the same way the image export does, measured in
// terminal columns, and returns exactly CellTextLines lines of the given
// width. A single word wider than the cell is cut with an ellipsis.
func fitCell(text string, width int) []string {
	lines := export.WrapText(text, float64(width), columns)
	out := make([]string, CellTextLines)
	for i := range out {
		line := ""
		if i < len(lines) {
			line = truncateRunesHelper(lines[i], width, "…")
		}
		out[i] = padRight(line, width)
	}
	return out
}

// cellWidth picks the text width of a cell so two 3x3 panes fit side by side
// in termWidth columns. Each cell spends 4 columns on border and padding.
func cellWidth(termWidth int, sideBySide bool) int {
	panes := 1
	if sideBySide {
		panes = 2
	}
	w := (termWidth-SpaceSM*(panes-1))/(panes*3) - 4
	if w < MinCellWidth {
		return MinCellWidth
	}
	if w > MaxCellWidth {
		return MaxCellWidth
	}
	return w
}
