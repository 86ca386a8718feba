package ui

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/debug"
	"github.com/vanderheijden86/mandal/pkg/store"
)

// ErrReadOnly is returned when editing the detail view's center cell.
var ErrReadOnly = errors.New("cell is read-only")

// Refresh reports which parts of the screen a mutation invalidated.
type Refresh struct {
	Overview bool
	Detail   bool
	Header   bool
}

// Any reports whether anything needs refreshing.
func (r Refresh) Any() bool {
	return r.Overview || r.Detail || r.Header
}

var fullRefresh = Refresh{Overview: true, Detail: true, Header: true}

// Session owns the board and writes it through after every mutation.
// Mutations stand even when the write fails; the error is returned so the
// caller can log it.
type Session struct {
	board   *board.Board
	persist *store.Persistence
}

// NewSession loads the stored board.
func NewSession(p *store.Persistence) *Session {
	return &Session{board: p.Load(), persist: p}
}

// Board returns the live board. Callers must not mutate it.
func (s *Session) Board() *board.Board {
	return s.board
}

// Snapshot returns a copy safe to hand to another goroutine.
func (s *Session) Snapshot() *board.Board {
	return s.board.Clone()
}

func (s *Session) save() error {
	if err := s.persist.Save(s.board); err != nil {
		debug.Error("persist board", err)
		return err
	}
	return nil
}

// EditOverview applies an edit to an overview cell: the center is the title,
// outer cells are goals. Editing the active goal only changes the detail
// header.
func (s *Session) EditOverview(p board.Position, text string) (Refresh, error) {
	if p.IsCenter() {
		s.board.SetTitle(text)
		return Refresh{}, s.save()
	}
	i, ok := board.OuterIndex(p)
	if !ok {
		return Refresh{}, fmt.Errorf("overview position %v: %w", p, board.ErrIndexOutOfRange)
	}
	if err := s.board.SetGoal(i, text); err != nil {
		return Refresh{}, err
	}
	var r Refresh
	if i == s.board.ActiveGoal {
		r.Header = true
	}
	return r, s.save()
}

// EditDetail applies an edit to a detail cell of the active goal.
func (s *Session) EditDetail(p board.Position, text string) (Refresh, error) {
	if p.IsCenter() {
		return Refresh{}, ErrReadOnly
	}
	i, ok := board.OuterIndex(p)
	if !ok {
		return Refresh{}, fmt.Errorf("detail position %v: %w", p, board.ErrIndexOutOfRange)
	}
	if err := s.board.SetActiveDetail(i, text); err != nil {
		return Refresh{}, err
	}
	return Refresh{}, s.save()
}

// SelectGoal makes goal i active and rebuilds both views.
func (s *Session) SelectGoal(i int) (Refresh, error) {
	if err := s.board.SelectGoal(i); err != nil {
		return Refresh{}, err
	}
	return fullRefresh, s.save()
}

// SelectAt selects the goal bound to an overview position. The center does
// nothing.
func (s *Session) SelectAt(p board.Position) (Refresh, error) {
	i, ok := board.OuterIndex(p)
	if !ok {
		return Refresh{}, nil
	}
	return s.SelectGoal(i)
}

// Reload re-reads the stored board. It reports false when the stored board
// equals the one in memory, which is the case after our own writes.
func (s *Session) Reload() (Refresh, bool) {
	loaded := s.persist.Load()
	if *loaded == *s.board {
		return Refresh{}, false
	}
	s.board = loaded
	return fullRefresh, true
}

// Reset clears the board and its stored copy.
func (s *Session) Reset() (Refresh, error) {
	s.board.Reset()
	if err := s.persist.Reset(); err != nil {
		return fullRefresh, err
	}
	return fullRefresh, nil
}
