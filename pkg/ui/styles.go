package ui

import "github.com/charmbracelet/lipgloss"

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Cell sizing in terminal columns/rows. The text area of a cell holds at most
// as many lines as the exported image does.
const (
	MinCellWidth  = 8
	MaxCellWidth  = 22
	CellTextLines = 4
)

const hexCenterBg = "#EEF6FF"

// Adaptive colors for light and dark terminals.
var (
	ColorText      = lipgloss.AdaptiveColor{Light: "#26374A", Dark: "#F8F8F2"}
	ColorSubtext   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#6272A4"}
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	ColorCellBorder   = lipgloss.AdaptiveColor{Light: "#B4D5F7", Dark: "#44475A"}
	ColorCenterBorder = lipgloss.AdaptiveColor{Light: "#6FA8E0", Dark: "#6272A4"}
	ColorActive       = lipgloss.AdaptiveColor{Light: "#2F80ED", Dark: "#8BE9FD"}
)
