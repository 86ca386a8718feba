package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// Theme is the set of styles the board view is drawn with.
type Theme struct {
	Renderer *lipgloss.Renderer

	Cell        lipgloss.Style
	CenterCell  lipgloss.Style
	ActiveCell  lipgloss.Style
	CursorCell  lipgloss.Style
	EditingCell lipgloss.Style

	Placeholder lipgloss.Style
	Text        lipgloss.Style
	CenterText  lipgloss.Style

	PaneTitle      lipgloss.Style
	PaneTitleFocus lipgloss.Style
	AppTitle       lipgloss.Style
	Status         lipgloss.Style
	StatusError    lipgloss.Style
	Help           lipgloss.Style
	HelpKey        lipgloss.Style
	Overlay        lipgloss.Style
	MatchHighlight lipgloss.Style
	MatchSelected  lipgloss.Style
}

// DefaultTheme builds the theme against r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	cell := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorCellBorder).
		Padding(0, 1)

	return Theme{
		Renderer: r,

		Cell:        cell,
		CenterCell:  cell.BorderForeground(ColorCenterBorder).Background(ThemeBg(hexCenterBg)),
		ActiveCell:  cell.Border(lipgloss.ThickBorder()).BorderForeground(ColorActive),
		CursorCell:  cell.Border(lipgloss.DoubleBorder()).BorderForeground(ColorPrimary),
		EditingCell: cell.Border(lipgloss.DoubleBorder()).BorderForeground(ColorWarning),

		Placeholder: r.NewStyle().Foreground(ColorMuted).Italic(true),
		Text:        r.NewStyle().Foreground(ColorText),
		CenterText:  r.NewStyle().Foreground(ColorText).Bold(true),

		PaneTitle:      r.NewStyle().Foreground(ColorSubtext).Bold(true),
		PaneTitleFocus: r.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true),
		AppTitle:       r.NewStyle().Foreground(ColorPrimary).Bold(true).PaddingRight(SpaceSM),
		Status:         r.NewStyle().Foreground(ColorSuccess),
		StatusError:    r.NewStyle().Foreground(ColorDanger).Bold(true),
		Help:           r.NewStyle().Foreground(ColorMuted),
		HelpKey:        r.NewStyle().Foreground(ColorSecondary).Bold(true),
		Overlay: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, SpaceXS),
		MatchHighlight: r.NewStyle().Foreground(ColorWarning).Bold(true),
		MatchSelected:  r.NewStyle().Foreground(ColorPrimary).Bold(true),
	}
}
