// Package ui is the terminal front end: an overview grid of the central goal
// and its eight goals, a detail grid of the active goal's eight actions, and
// the copy/export/preview actions around them.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/debug"
	"github.com/vanderheijden86/mandal/pkg/digest"
	"github.com/vanderheijden86/mandal/pkg/export"
	"github.com/vanderheijden86/mandal/pkg/watcher"
)

// SplitViewThreshold is the narrowest terminal that fits both panes side by side.
const SplitViewThreshold = 2*3*(MinCellWidth+4) + SpaceSM

type pane int

const (
	paneOverview pane = iota
	paneDetail
)

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modeJump
	modePreview
	modeConfirmReset
)

// Options configures a Model.
type Options struct {
	ExportDir    string
	ExportFormat string // png, svg or all
	Fonts        *export.FontSource
	Clipboard    ClipboardFunc
	Watcher      *watcher.Watcher
	StartPane    string // overview or detail
}

// Model is the bubbletea model of the board screen.
type Model struct {
	session *Session
	opts    Options
	theme   Theme

	overview Grid
	detail   Grid
	header   string

	focus  pane
	cursor [2]board.Position
	mode   mode

	input     textinput.Model
	jumpInput textinput.Model
	matches   fuzzy.Matches
	jumpSel   int
	preview   viewport.Model

	width  int
	height int

	statusMsg     string
	statusIsError bool
}

// NewModel builds the screen for s.
func NewModel(s *Session, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = "png"
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 0 // stored text has no length limit

	jump := textinput.New()
	jump.Prompt = "/ "
	jump.Placeholder = "핵심 계획 검색"

	m := Model{
		session:   s,
		opts:      opts,
		theme:     DefaultTheme(lipgloss.DefaultRenderer()),
		input:     input,
		jumpInput: jump,
	}
	if opts.StartPane == "detail" {
		m.focus = paneDetail
	}
	m.cursor[paneOverview], _ = board.OuterPosition(s.Board().ActiveGoal)
	m.cursor[paneDetail] = board.ScanOrder[0]
	m.apply(fullRefresh)
	return m
}

// Init starts watching for external changes when a watcher is configured.
func (m Model) Init() tea.Cmd {
	if m.opts.Watcher != nil {
		return WatchFileCmd(m.opts.Watcher)
	}
	return nil
}

// apply rebuilds the invalidated views from the board.
func (m *Model) apply(r Refresh) {
	b := m.session.Board()
	if r.Overview {
		m.overview = RenderOverview(b)
	}
	if r.Detail {
		m.detail = RenderDetail(b)
	}
	if r.Header {
		m.header = b.DetailHeader()
	}
}

func (m *Model) setStatus(msg string, isError bool) {
	m.statusMsg = msg
	m.statusIsError = isError
}

func (m Model) grid(p pane) Grid {
	if p == paneDetail {
		return m.detail
	}
	return m.overview
}

func (m Model) currentCell() Cell {
	return m.grid(m.focus).At(m.cursor[m.focus])
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = cellWidth(m.width, m.sideBySide()) - 1
		m.preview.Width = msg.Width
		m.preview.Height = m.previewHeight()
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			debug.Error("clipboard write", msg.err)
			m.setStatus(StatusCopyFailed, true)
		} else {
			m.setStatus(StatusCopied, false)
		}
		return m, nil

	case exportResultMsg:
		if msg.err != nil {
			debug.Error("image export", msg.err)
			return m, nil
		}
		debug.Log("exported %s", strings.Join(msg.paths, ", "))
		m.setStatus(StatusExported, false)
		return m, nil

	case FileChangedMsg:
		return m.handleFileChanged()

	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.handleEditKeys(msg)
		case modeJump:
			return m.handleJumpKeys(msg)
		case modePreview:
			return m.handlePreviewKeys(msg)
		case modeConfirmReset:
			return m.handleConfirmResetKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	if m.mode == modeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFileChanged() (tea.Model, tea.Cmd) {
	if r, changed := m.session.Reload(); changed {
		if m.mode == modeEdit {
			m.input.Blur()
			m.mode = modeNormal
		}
		m.apply(r)
		m.setStatus(StatusReloaded, false)
	}
	if m.opts.Watcher != nil {
		return m, WatchFileCmd(m.opts.Watcher)
	}
	return m, nil
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == paneOverview {
			m.focus = paneDetail
		} else {
			m.focus = paneOverview
		}
	case "up", "k":
		m.move(-1, 0)
	case "down", "j":
		m.move(1, 0)
	case "left", "h":
		m.move(0, -1)
	case "right", "l":
		m.move(0, 1)
	case "enter":
		return m.beginEdit()
	case " ":
		if m.focus == paneOverview {
			m.selectAt(m.cursor[paneOverview])
		}
	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.selectGoal(int(key[0] - '1'))
	case "y":
		return m, copyDigestCmd(m.opts.Clipboard, m.session.Board())
	case "e":
		return m, m.exportCmd()
	case "p":
		return m.openPreview()
	case "/":
		return m.openJump()
	case "r":
		m.mode = modeConfirmReset
		m.setStatus(StatusConfirmReset, true)
	case "esc":
		m.setStatus("", false)
	}
	return m, nil
}

// handleConfirmResetKeys clears the board on y; any other key cancels.
func (m Model) handleConfirmResetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "y", "Y":
		r, err := m.session.Reset()
		m.apply(r)
		m.cursor[paneOverview], _ = board.OuterPosition(0)
		m.cursor[paneDetail] = board.ScanOrder[0]
		if err != nil {
			debug.Error("reset board", err)
		}
		m.setStatus(StatusReset, false)
	default:
		m.setStatus("", false)
	}
	return m, nil
}

func (m *Model) move(dRow, dCol int) {
	p := m.cursor[m.focus]
	p.Row += dRow
	p.Col += dCol
	if p.Valid() {
		m.cursor[m.focus] = p
	}
}

// selectAt is the overview "click": it makes the goal under p active.
func (m *Model) selectAt(p board.Position) {
	r, err := m.session.SelectAt(p)
	m.apply(r)
	if err != nil {
		debug.Error("select goal", err)
	}
}

func (m *Model) selectGoal(i int) {
	r, err := m.session.SelectGoal(i)
	m.apply(r)
	if err != nil {
		debug.Error("select goal", err)
		return
	}
	m.cursor[paneOverview], _ = board.OuterPosition(i)
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	pos := m.cursor[m.focus]
	if m.currentCell().ReadOnly {
		m.setStatus(StatusReadOnly, false)
		return m, nil
	}
	if m.focus == paneOverview && !pos.IsCenter() {
		m.selectAt(pos)
	}

	cell := m.currentCell()
	m.input.SetValue(cell.Text)
	m.input.Placeholder = cell.Placeholder
	m.input.Width = cellWidth(m.width, m.sideBySide()) - 1
	m.input.CursorEnd()
	m.mode = modeEdit
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "enter", "ctrl+s":
		m.endEdit()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.commitEdit(v)
	}
	return m, cmd
}

// commitEdit writes the current input through to the board. Every keystroke
// that changes the text is persisted.
func (m *Model) commitEdit(text string) {
	pos := m.cursor[m.focus]
	var (
		r   Refresh
		err error
	)
	if m.focus == paneOverview {
		r, err = m.session.EditOverview(pos, text)
	} else {
		r, err = m.session.EditDetail(pos, text)
	}
	m.apply(r)
	if err != nil {
		debug.Error("edit cell", err)
	}
}

// endEdit leaves edit mode and rebuilds both views from the board.
func (m *Model) endEdit() {
	m.input.Blur()
	m.mode = modeNormal
	m.apply(fullRefresh)
}

func (m Model) exportCmd() tea.Cmd {
	formats, err := export.Formats(m.opts.ExportFormat)
	if err != nil {
		debug.Error("image export", err)
		return nil
	}
	return exportImageCmd(m.session.Snapshot(), m.opts.ExportDir, formats, m.opts.Fonts)
}

// --- goal jump ---------------------------------------------------------------

func (m Model) goalTexts() []string {
	b := m.session.Board()
	texts := make([]string, board.Size)
	for i := range texts {
		texts[i] = b.GoalText(i)
	}
	return texts
}

func (m *Model) updateMatches() {
	texts := m.goalTexts()
	query := strings.TrimSpace(m.jumpInput.Value())
	if query == "" {
		m.matches = make(fuzzy.Matches, len(texts))
		for i, t := range texts {
			m.matches[i] = fuzzy.Match{Str: t, Index: i}
		}
	} else {
		m.matches = fuzzy.Find(query, texts)
	}
	if m.jumpSel >= len(m.matches) {
		m.jumpSel = 0
	}
}

func (m Model) openJump() (tea.Model, tea.Cmd) {
	m.jumpInput.SetValue("")
	m.jumpSel = 0
	m.updateMatches()
	m.mode = modeJump
	cmd := m.jumpInput.Focus()
	return m, cmd
}

func (m Model) handleJumpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.jumpInput.Blur()
		m.mode = modeNormal
		return m, nil
	case "up", "ctrl+p":
		if m.jumpSel > 0 {
			m.jumpSel--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.jumpSel < len(m.matches)-1 {
			m.jumpSel++
		}
		return m, nil
	case "enter":
		m.jumpInput.Blur()
		m.mode = modeNormal
		if len(m.matches) > 0 {
			m.selectGoal(m.matches[m.jumpSel].Index)
			m.focus = paneDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	m.updateMatches()
	return m, cmd
}

// --- preview -----------------------------------------------------------------

func (m Model) previewHeight() int {
	h := m.height - 3
	if h < 5 {
		h = 5
	}
	return h
}

// renderMarkdown renders the markdown digest for the terminal, falling back
// to the plain digest when glamour fails.
func (m Model) renderMarkdown() string {
	b := m.session.Board()
	wrap := m.width - 4
	if wrap < 40 {
		wrap = 60
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		var out string
		if out, err = r.Render(digest.Markdown(b)); err == nil {
			return out
		}
	}
	debug.Error("render preview", err)
	return digest.Build(b)
}

func (m Model) openPreview() (tea.Model, tea.Cmd) {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.preview = viewport.New(width, m.previewHeight())
	m.preview.SetContent(m.renderMarkdown())
	m.mode = modePreview
	return m, nil
}

func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc", "p", "q":
		m.mode = modeNormal
		return m, nil
	case "y":
		return m, copyDigestCmd(m.opts.Clipboard, m.session.Board())
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}
