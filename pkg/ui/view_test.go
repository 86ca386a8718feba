package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/vanderheijden86/mandal/pkg/board"
)

func withColor(t *testing.T) {
	t.Helper()
	old := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(old) })
}

func TestView_FitsTerminalWidth(t *testing.T) {
	withColor(t)
	b := board.New()
	b.Title = "아주 긴 제목이 들어가도 칸을 넘치지 않아야 합니다 정말로 길게 길게"
	for i := range b.Goals {
		b.Goals[i] = strings.Repeat("목표 ", 10)
	}
	m, _ := newTestModel(t, b, Options{})

	for _, width := range []int{120, 160} {
		next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: 50})
		view := next.(Model).View()
		if view == ansi.Strip(view) {
			t.Fatal("expected styled output with a color profile set")
		}
		for i, line := range strings.Split(view, "\n") {
			if w := ansi.StringWidth(line); w > width {
				t.Errorf("width %d: line %d is %d columns wide", width, i, w)
			}
		}
	}
}

func TestView_StackedWhenNarrow(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: SplitViewThreshold - 1, Height: 60})
	m = next.(Model)
	if m.sideBySide() {
		t.Fatal("expected stacked layout")
	}

	view := ansi.Strip(m.View())
	overviewAt := strings.Index(view, board.OverviewCaption)
	headerAt := strings.Index(view, "현재 확장 중")
	if overviewAt < 0 || headerAt < 0 || headerAt < overviewAt {
		t.Fatalf("expected overview above detail, got indexes %d and %d", overviewAt, headerAt)
	}
	lineOf := func(i int) int { return strings.Count(view[:i], "\n") }
	if lineOf(headerAt) <= lineOf(overviewAt)+3 {
		t.Error("detail pane should start below the overview grid")
	}
}

func TestView_StatusTruncated(t *testing.T) {
	m, _ := newTestModel(t, nil, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 40})
	m = next.(Model)
	m.setStatus(StatusCopied, false)
	if w := ansi.StringWidth(m.renderStatus()); w > 20 {
		t.Errorf("status is %d columns wide, want <= 20", w)
	}
}

func TestView_JumpOverlayListsGoals(t *testing.T) {
	b := board.New()
	b.Goals[1] = "독서"
	m, _ := newTestModel(t, b, Options{})
	m, _ = press(t, m, "/")
	view := ansi.Strip(m.View())
	for _, want := range []string{"2. 독서", "1. 핵심 계획 1", "8. 핵심 계획 8"} {
		if !strings.Contains(view, want) {
			t.Errorf("jump overlay missing %q", want)
		}
	}
}
