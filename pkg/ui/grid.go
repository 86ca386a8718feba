package ui

import (
	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/metrics"
)

// GridKind distinguishes the two views.
type GridKind int

const (
	KindOverview GridKind = iota
	KindDetail
)

func (k GridKind) String() string {
	if k == KindDetail {
		return "detail"
	}
	return "overview"
}

// Cell is one rendered grid cell.
type Cell struct {
	Pos         board.Position
	Index       int // outer index 0..7, -1 for the center
	Text        string
	Placeholder string
	Center      bool
	Active      bool
	ReadOnly    bool
}

// Empty reports whether the cell shows its placeholder.
func (c Cell) Empty() bool {
	return c.Text == ""
}

// Display is the text shown in the cell.
func (c Cell) Display() string {
	if c.Text == "" {
		return c.Placeholder
	}
	return c.Text
}

// Grid is a full 3x3 view, indexed in scan order.
type Grid struct {
	Kind  GridKind
	Cells [9]Cell
}

// At returns the cell at p.
func (g Grid) At(p board.Position) Cell {
	return g.Cells[p.Row*3+p.Col]
}

// RenderOverview builds the overview grid: the title in the center, the
// eight goals around it, the active goal marked.
func RenderOverview(b *board.Board) Grid {
	defer metrics.Timer(metrics.GridRender)()

	g := Grid{Kind: KindOverview}
	for n, p := range board.ScanOrder {
		if p.IsCenter() {
			g.Cells[n] = Cell{
				Pos:         p,
				Index:       -1,
				Text:        b.Title,
				Placeholder: board.TitlePlaceholder,
				Center:      true,
			}
			continue
		}
		i, _ := board.OuterIndex(p)
		g.Cells[n] = Cell{
			Pos:         p,
			Index:       i,
			Text:        b.Goals[i],
			Placeholder: board.GoalLabel(i),
			Active:      i == b.ActiveGoal,
		}
	}
	return g
}

// RenderDetail builds the detail grid of the active goal. The center mirrors
// the goal text and cannot be edited here.
func RenderDetail(b *board.Board) Grid {
	defer metrics.Timer(metrics.GridRender)()

	g := Grid{Kind: KindDetail}
	for n, p := range board.ScanOrder {
		if p.IsCenter() {
			g.Cells[n] = Cell{
				Pos:         p,
				Index:       -1,
				Text:        b.ActiveGoalText(),
				Placeholder: board.DetailCenterPlaceholder,
				Center:      true,
				ReadOnly:    true,
			}
			continue
		}
		i, _ := board.OuterIndex(p)
		g.Cells[n] = Cell{
			Pos:         p,
			Index:       i,
			Text:        b.Details[b.ActiveGoal][i],
			Placeholder: board.DetailLabel(i),
		}
	}
	return g
}
