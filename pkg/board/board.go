// Package board holds the mandalart goal model: one central title, eight
// supporting goals, and eight detail actions per goal.
//
// The fixed-size arrays make the 8 / 8x8 shape structural, so a Board can
// never be observed with a short or ragged goal list. The only field that
// needs runtime guarding is ActiveGoal, which Clamp keeps in [0, 7].
package board

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Size is the number of goals and the number of details per goal.
const Size = 8

// ErrIndexOutOfRange is returned when a goal or detail index is outside [0, Size).
var ErrIndexOutOfRange = errors.New("index out of range")

// Board is the canonical in-memory planning board.
type Board struct {
	Title      string
	Goals      [Size]string
	Details    [Size][Size]string
	ActiveGoal int
}

// New returns an empty board with the first goal active.
func New() *Board {
	return &Board{}
}

// Clone returns a deep copy. Arrays copy by value, so a struct copy is enough.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Clamp forces ActiveGoal into [0, Size-1].
func (b *Board) Clamp() {
	b.ActiveGoal = clampIndex(b.ActiveGoal)
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > Size-1 {
		return Size - 1
	}
	return i
}

// Normalize strips leading whitespace, keeping trailing and internal
// whitespace untouched. Every text edit goes through it.
func Normalize(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func checkIndex(i int) error {
	if i < 0 || i >= Size {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}

// SetTitle sets the central goal text.
func (b *Board) SetTitle(s string) {
	b.Title = Normalize(s)
}

// SetGoal sets the text of goal i.
func (b *Board) SetGoal(i int, s string) error {
	if err := checkIndex(i); err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	b.Goals[i] = Normalize(s)
	return nil
}

// SetDetail sets detail d of goal g.
func (b *Board) SetDetail(g, d int, s string) error {
	if err := checkIndex(g); err != nil {
		return fmt.Errorf("detail goal: %w", err)
	}
	if err := checkIndex(d); err != nil {
		return fmt.Errorf("detail: %w", err)
	}
	b.Details[g][d] = Normalize(s)
	return nil
}

// SetActiveDetail sets detail d of the active goal.
func (b *Board) SetActiveDetail(d int, s string) error {
	return b.SetDetail(b.ActiveGoal, d, s)
}

// SelectGoal makes goal i the one expanded in the detail view.
func (b *Board) SelectGoal(i int) error {
	if err := checkIndex(i); err != nil {
		return fmt.Errorf("select goal: %w", err)
	}
	b.ActiveGoal = i
	return nil
}

// GoalText returns goal i, or its positional label when empty.
func (b *Board) GoalText(i int) string {
	if g := b.Goals[i]; g != "" {
		return g
	}
	return GoalLabel(i)
}

// ActiveGoalText is the center text of the detail view.
func (b *Board) ActiveGoalText() string {
	if g := b.Goals[b.ActiveGoal]; g != "" {
		return g
	}
	return DetailCenterFallback
}

// DetailHeader is the label above the detail view.
func (b *Board) DetailHeader() string {
	return "현재 확장 중: " + b.GoalText(b.ActiveGoal)
}

// FilledDetails returns the non-blank details of goal g in index order.
func (b *Board) FilledDetails(g int) []string {
	var out []string
	for _, d := range b.Details[g] {
		if !IsBlank(d) {
			out = append(out, d)
		}
	}
	return out
}

// Reset clears every field back to the defaults.
func (b *Board) Reset() {
	*b = Board{}
}
