// Package export renders the board as a shareable image.
//
// The layout is computed once (Layout) and painted by either the raster
// renderer (gg, PNG) or the vector renderer (svgo, SVG). Both wrap cell text
// with the same font metrics, so line breaks match between formats.
package export

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/debug"
	"github.com/vanderheijden86/mandal/pkg/metrics"
)

// FileBase is the fixed export file name without extension.
const FileBase = "mandalart-newyear"

// FileName returns the export file name for format.
func FileName(format string) string {
	return FileBase + "." + strings.ToLower(format)
}

// SupportedFormats lists the image formats in the order "all" expands to.
var SupportedFormats = []string{"png", "svg"}

// Formats expands a format flag value. "all" means every supported format.
func Formats(format string) ([]string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", "png":
		return []string{"png"}, nil
	case "svg":
		return []string{"svg"}, nil
	case "all":
		return append([]string(nil), SupportedFormats...), nil
	}
	return nil, fmt.Errorf("unsupported format %q (want png, svg or all)", format)
}

// SnapshotOptions controls a single export.
type SnapshotOptions struct {
	Path   string       // Output path; format inferred from extension when Format empty
	Format string       // "png" or "svg" (case-insensitive)
	Board  *board.Board // Snapshot to render
	Fonts  *FontSource  // nil uses the embedded fonts
}

// SaveSnapshot renders the board to opts.Path.
func SaveSnapshot(opts SnapshotOptions) error {
	defer debug.LogEnterExit("export.SaveSnapshot")()

	if opts.Board == nil {
		return fmt.Errorf("no board to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		default:
			format = "png"
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want png or svg)", format)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}

	switch format {
	case "svg":
		err = RenderSVG(file, opts.Board, opts.Fonts)
	default:
		err = RenderPNG(file, opts.Board, opts.Fonts)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// SaveAll writes one file per format into dir concurrently and returns the
// written paths in format order.
func SaveAll(ctx context.Context, b *board.Board, dir string, formats []string, fonts *FontSource) ([]string, error) {
	start := time.Now()
	snapshot := b.Clone()
	paths := make([]string, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		path := filepath.Join(dir, FileName(format))
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return SaveSnapshot(SnapshotOptions{
				Path:   path,
				Format: format,
				Board:  snapshot,
				Fonts:  fonts,
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	debug.LogTiming("export "+strings.Join(formats, ","), time.Since(start))
	return paths, nil
}

// --- raster ----------------------------------------------------------------

// RenderPNG paints the board and encodes it as PNG.
func RenderPNG(w io.Writer, b *board.Board, fonts *FontSource) error {
	dc, err := paint(b, fonts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func paint(b *board.Board, fonts *FontSource) (*gg.Context, error) {
	defer metrics.Timer(metrics.ImageRender)()
	if fonts == nil {
		fonts = DefaultFonts()
	}
	faces, err := fonts.faces()
	if err != nil {
		return nil, err
	}
	defer faces.Close()

	scene := Layout(b)
	dc := gg.NewContext(scene.Width, scene.Height)

	grad := gg.NewLinearGradient(0, 0, float64(scene.Width), float64(scene.Height))
	grad.AddColorStop(0, colorGradientStart)
	grad.AddColorStop(1, colorGradientEnd)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(scene.Width), float64(scene.Height))
	dc.Fill()

	dc.SetColor(colorHeading)
	dc.SetFontFace(faces.heading)
	dc.DrawString(scene.Heading, headingX, headingY)

	for _, g := range scene.Grids {
		drawGrid(dc, g, faces)
	}
	return dc, nil
}

func drawGrid(dc *gg.Context, g Grid, faces *faceSet) {
	dc.SetColor(colorGridBG)
	dc.DrawRectangle(g.X, g.Y, g.Size, g.Size)
	dc.Fill()

	dc.SetColor(colorText)
	dc.SetFontFace(faces.caption)
	dc.DrawString(g.Caption, g.X, g.Y-captionLift)

	for _, c := range g.Cells() {
		drawCell(dc, c, faces.cellFace(c.Center))
	}
}

func drawCell(dc *gg.Context, c Cell, face font.Face) {
	if c.Center {
		dc.SetColor(colorCenterBG)
	} else {
		dc.SetColor(colorGridBG)
	}
	dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, cellRadius)
	dc.Fill()
	dc.SetColor(colorBorder)
	dc.SetLineWidth(cellStroke)
	dc.DrawRoundedRectangle(c.X, c.Y, c.W, c.H, cellRadius)
	dc.Stroke()

	dc.SetFontFace(face)
	dc.SetColor(colorText)
	for i, line := range WrapText(c.Text, c.TextWidth, measurer(face)) {
		dc.DrawString(line, c.TextX, c.TextY+float64(i)*lineHeight)
	}
}

// --- vector ----------------------------------------------------------------

// RenderSVG writes the board as an SVG document.
func RenderSVG(w io.Writer, b *board.Board, fonts *FontSource) error {
	defer metrics.Timer(metrics.ImageRender)()
	if fonts == nil {
		fonts = DefaultFonts()
	}
	faces, err := fonts.faces()
	if err != nil {
		return err
	}
	defer faces.Close()

	scene := Layout(b)
	canvas := svg.New(w)
	canvas.Start(scene.Width, scene.Height)
	canvas.Def()
	canvas.LinearGradient("bg", 0, 0, 100, 100, []svg.Offcolor{
		{Offset: 0, Color: css(colorGradientStart), Opacity: 1},
		{Offset: 100, Color: css(colorGradientEnd), Opacity: 1},
	})
	canvas.DefEnd()
	canvas.Rect(0, 0, scene.Width, scene.Height, "fill:url(#bg)")
	canvas.Text(int(headingX), int(headingY), scene.Heading,
		fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;font-weight:bold", css(colorHeading), int(headingSize)))

	for _, g := range scene.Grids {
		canvas.Rect(int(g.X), int(g.Y), int(g.Size), int(g.Size), fmt.Sprintf("fill:%s", css(colorGridBG)))
		canvas.Text(int(g.X), int(g.Y-captionLift), g.Caption,
			fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;font-weight:bold", css(colorText), int(captionSize)))

		for _, c := range g.Cells() {
			fill := colorGridBG
			textStyle := fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif", css(colorText), int(outerSize))
			if c.Center {
				fill = colorCenterBG
				textStyle = fmt.Sprintf("fill:%s;font-size:%dpx;font-family:sans-serif;font-weight:600", css(colorText), int(centerSize))
			}
			canvas.Roundrect(int(c.X), int(c.Y), int(c.W), int(c.H), int(cellRadius), int(cellRadius),
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", css(fill), css(colorBorder), int(cellStroke)))

			for i, line := range WrapText(c.Text, c.TextWidth, measurer(faces.cellFace(c.Center))) {
				canvas.Text(int(c.TextX), int(c.TextY+float64(i)*lineHeight), line, textStyle)
			}
		}
	}

	canvas.End()
	return nil
}

// --- helpers ---------------------------------------------------------------

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
