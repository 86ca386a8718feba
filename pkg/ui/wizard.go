package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/mandal/pkg/board"
)

// ErrWizardAborted is returned when the user leaves the wizard without saving.
var ErrWizardAborted = errors.New("setup aborted")

// Wizard asks for the central goal and the eight goals in one pass.
type Wizard struct {
	board *board.Board

	title     string
	goals     [board.Size]string
	confirmed bool
}

// NewWizard prefills the form from b. Answers are written back into b.
func NewWizard(b *board.Board) *Wizard {
	return &Wizard{board: b, title: b.Title, goals: b.Goals, confirmed: true}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run shows the form and applies the answers.
func (w *Wizard) Run() error {
	goalFields := make([]huh.Field, 0, board.Size)
	for i := range w.goals {
		goalFields = append(goalFields, huh.NewInput().
			Title(board.GoalLabel(i)).
			Value(&w.goals[i]))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("올해의 핵심 목표").
				Placeholder(board.TitlePlaceholder).
				Value(&w.title),
		),
		huh.NewGroup(goalFields...).Title("핵심 계획 8가지"),
		huh.NewGroup(
			huh.NewConfirm().
				Title("저장할까요?").
				Value(&w.confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrWizardAborted
		}
		return err
	}
	return w.apply()
}

// apply copies the answers into the board through the normalizing setters.
// Unconfirmed answers leave the board untouched.
func (w *Wizard) apply() error {
	if !w.confirmed {
		return ErrWizardAborted
	}
	w.board.SetTitle(w.title)
	for i, g := range w.goals {
		if err := w.board.SetGoal(i, g); err != nil {
			return fmt.Errorf("apply answers: %w", err)
		}
	}
	return nil
}

// Confirm asks a yes/no question. Without a terminal it returns def.
func Confirm(title string, def bool) (bool, error) {
	if !isTerminal() {
		return def, nil
	}
	answer := def
	err := newForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(&answer))).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return answer, err
}
