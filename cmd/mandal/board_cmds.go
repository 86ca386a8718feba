package main

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/store"
	"github.com/vanderheijden86/mandal/pkg/ui"
)

func newShowCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the overview and the expanded goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.persistence()
			if err != nil {
				return err
			}
			b := p.Load()
			if asJSON {
				data, err := store.Encode(b)
				if err != nil {
					return err
				}
				var out bytes.Buffer
				if err := json.Indent(&out, data, "", "  "); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out.String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), board.OverviewCaption)
			fmt.Fprintln(cmd.OutOrStdout(), gridTable(ui.RenderOverview(b)))
			fmt.Fprintln(cmd.OutOrStdout(), b.DetailHeader())
			fmt.Fprintln(cmd.OutOrStdout(), gridTable(ui.RenderDetail(b)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored document")
	return cmd
}

// gridTable lays a grid out as a 3x3 table. The active goal is starred.
func gridTable(g ui.Grid) string {
	rows := make([][]string, 3)
	for r := range rows {
		rows[r] = make([]string, 3)
		for c := range rows[r] {
			cell := g.At(board.Position{Row: r, Col: c})
			text := cell.Display()
			if cell.Empty() {
				text = "(" + text + ")"
			}
			if cell.Active {
				text = "★ " + text
			}
			rows[r][c] = text
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderRow(true).
		Rows(rows...).
		String()
}

func newSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the title, a goal or a detail",
	}

	update := func(fn func(b *board.Board) error) error {
		p, err := app.persistence()
		if err != nil {
			return err
		}
		b := p.Load()
		if err := fn(b); err != nil {
			return err
		}
		return p.Save(b)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "title <text>",
		Short: "Set the central goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return update(func(b *board.Board) error {
				b.SetTitle(args[0])
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "goal <1-8> <text>",
		Short: "Set one of the eight goals",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return update(func(b *board.Board) error {
				return b.SetGoal(i, args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "detail <goal 1-8> <detail 1-8> <text>",
		Short: "Set a detail action of a goal",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			d, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return update(func(b *board.Board) error {
				return b.SetDetail(g, d, args[2])
			})
		},
	})
	return cmd
}

// parseIndex converts a 1-based goal or detail number.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > board.Size {
		return 0, fmt.Errorf("%q: want a number from 1 to %d", s, board.Size)
	}
	return n - 1, nil
}

// matchGoal resolves a goal number or a fuzzy query against the goal texts.
func matchGoal(b *board.Board, query string) (int, error) {
	if i, err := parseIndex(query); err == nil {
		return i, nil
	}
	texts := make([]string, board.Size)
	for i := range texts {
		texts[i] = b.GoalText(i)
	}
	matches := fuzzy.Find(query, texts)
	if len(matches) == 0 {
		return 0, fmt.Errorf("no goal matches %q", query)
	}
	return matches[0].Index, nil
}

func newSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <1-8|query>",
		Short: "Choose the goal expanded in the detail grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.persistence()
			if err != nil {
				return err
			}
			b := p.Load()
			i, err := matchGoal(b, args[0])
			if err != nil {
				return err
			}
			if err := b.SelectGoal(i); err != nil {
				return err
			}
			if err := p.Save(b); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.DetailHeader())
			return nil
		},
	}
}

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Fill in the central goal and the eight goals step by step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.persistence()
			if err != nil {
				return err
			}
			b := p.Load()
			if err := ui.NewWizard(b).Run(); err != nil {
				if errors.Is(err, ui.ErrWizardAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Nothing saved.")
					return nil
				}
				return err
			}
			return p.Save(b)
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := ui.Confirm("보드를 모두 지울까요?", false)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("reset not confirmed (use --yes)")
				}
			}
			p, err := app.persistence()
			if err != nil {
				return err
			}
			return p.Reset()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
