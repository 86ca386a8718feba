package ui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/digest"
	"github.com/vanderheijden86/mandal/pkg/export"
	"github.com/vanderheijden86/mandal/pkg/watcher"
)

// Status line texts.
const (
	StatusCopied     = "복사 완료! 미리알림 앱에 붙여넣어 사용하세요."
	StatusCopyFailed = "복사에 실패했습니다. 클립보드 권한을 확인해주세요."
	StatusExported   = "이미지 저장 완료! 갤러리/파일에서 확인하세요."
	StatusReloaded   = "다른 곳에서 바뀐 내용을 불러왔습니다."
	StatusReadOnly   = "가운데 칸은 핵심 계획을 따라갑니다. 기본 만다라트에서 수정하세요."

	StatusConfirmReset = "보드를 모두 지울까요? (y/n)"
	StatusReset        = "보드를 초기화했습니다."
)

// ClipboardFunc writes text to the system clipboard.
type ClipboardFunc func(string) error

// SystemClipboard is the default ClipboardFunc.
var SystemClipboard ClipboardFunc = clipboard.WriteAll

type clipboardResultMsg struct {
	err error
}

type exportResultMsg struct {
	paths []string
	err   error
}

// FileChangedMsg is sent when the stored board changes on disk.
type FileChangedMsg struct{}

// WatchFileCmd waits for the next change and sends FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// copyDigestCmd builds the digest now and writes it to the clipboard off the
// update loop.
func copyDigestCmd(write ClipboardFunc, b *board.Board) tea.Cmd {
	text := digest.Build(b)
	return func() tea.Msg {
		return clipboardResultMsg{err: write(text)}
	}
}

// exportImageCmd renders a snapshot of the board into dir.
func exportImageCmd(snapshot *board.Board, dir string, formats []string, fonts *export.FontSource) tea.Cmd {
	return func() tea.Msg {
		paths, err := export.SaveAll(context.Background(), snapshot, dir, formats, fonts)
		return exportResultMsg{paths: paths, err: err}
	}
}
