package export

import (
	"image/color"

	"github.com/vanderheijden86/mandal/pkg/board"
)

// Canvas and grid geometry, in pixels.
const (
	CanvasWidth  = 2100
	CanvasHeight = 2800

	overviewX    = 80.0
	overviewY    = 180.0
	overviewSize = 900.0

	subStartX = 1040.0
	subStartY = 180.0
	subSize   = 320.0
	subGapX   = 36.0
	subGapY   = 70.0

	headingX = 80.0
	headingY = 95.0

	cellInset   = 6.0
	cellRadius  = 12.0
	cellStroke  = 2.0
	textPadX    = 16.0
	textPadY    = 20.0
	lineHeight  = 20.0
	captionLift = 14.0
)

// Font sizes in pixels (72 DPI, so points equal pixels).
const (
	headingSize = 54.0
	captionSize = 22.0
	centerSize  = 17.0
	outerSize   = 15.0
)

var (
	colorGradientStart = color.RGBA{0xfe, 0xf7, 0xff, 0xff}
	colorGradientEnd   = color.RGBA{0xf0, 0xf9, 0xff, 0xff}
	colorHeading       = color.RGBA{0x21, 0x35, 0x47, 0xff}
	colorText          = color.RGBA{0x26, 0x37, 0x4a, 0xff}
	colorGridBG        = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorCenterBG      = color.RGBA{0xee, 0xf6, 0xff, 0xff}
	colorBorder        = color.RGBA{0xb4, 0xd5, 0xf7, 0xff}
)

// Grid is one 3x3 block on the canvas.
type Grid struct {
	X, Y, Size float64
	Caption    string
	Center     string
	Outer      [board.Size]string
}

// Cell is one rounded box of a grid with its text origin.
type Cell struct {
	X, Y, W, H   float64
	TextX, TextY float64
	TextWidth    float64
	Text         string
	Center       bool
}

// Scene is everything drawn on the canvas.
type Scene struct {
	Width, Height int
	Heading       string
	Grids         []Grid
}

// Layout places the overview grid and the eight expansion grids. It reads
// the board and never modifies it.
func Layout(b *board.Board) Scene {
	title := b.Title
	if title == "" {
		title = board.ImageTitleFallback
	}
	center := b.Title
	if center == "" {
		center = board.ImageCenterFallback
	}

	grids := make([]Grid, 0, 1+board.Size)
	grids = append(grids, Grid{
		X: overviewX, Y: overviewY, Size: overviewSize,
		Caption: board.OverviewCaption,
		Center:  center,
		Outer:   b.Goals,
	})

	for i := range b.Goals {
		row := float64(i / 2)
		col := float64(i % 2)
		grids = append(grids, Grid{
			X:       subStartX + col*(subSize+subGapX),
			Y:       subStartY + row*(subSize+subGapY),
			Size:    subSize,
			Caption: board.ExpansionCaption(i),
			Center:  b.GoalText(i),
			Outer:   b.Details[i],
		})
	}

	return Scene{
		Width:   CanvasWidth,
		Height:  CanvasHeight,
		Heading: "새해 만다라트: " + title,
		Grids:   grids,
	}
}

// Cells returns the nine cells of g in scan order.
func (g Grid) Cells() [9]Cell {
	var cells [9]Cell
	cell := g.Size / 3
	for k, pos := range board.ScanOrder {
		x := g.X + float64(pos.Col)*cell
		y := g.Y + float64(pos.Row)*cell
		c := Cell{
			X: x + cellInset, Y: y + cellInset,
			W: cell - 2*cellInset, H: cell - 2*cellInset,
			TextX: x + textPadX, TextY: y + textPadY,
			TextWidth: cell - 2*textPadX,
			Center:    pos.IsCenter(),
		}
		if c.Center {
			c.Text = g.Center
		} else {
			idx, _ := board.OuterIndex(pos)
			c.Text = g.Outer[idx]
		}
		cells[k] = c
	}
	return cells
}
