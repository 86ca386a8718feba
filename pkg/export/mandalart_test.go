package export

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/vanderheijden86/mandal/pkg/board"
)

// runeWidth measures every rune as 10px, making wrap points predictable.
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"empty", "", 100, nil},
		{"fits", "run daily", 100, []string{"run daily"}},
		{"wraps", "aaa bbb ccc", 70, []string{"aaa bbb", "ccc"}},
		{"exact fit stays", "aaa bbb", 70, []string{"aaa bbb"}},
		{"long word alone", "supercalifragilistic x", 50, []string{"supercalifragilistic", "x"}},
		{"clips to four", "a b c d e f", 10, []string{"a", "b", "c", "d"}},
		{"newlines become spaces", "one\ntwo", 100, []string{"one two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.width, runeWidth)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("WrapText(%q, %v) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapText_NeverExceedsMaxLines(t *testing.T) {
	text := strings.Repeat("word ", 200)
	if got := WrapText(text, 30, runeWidth); len(got) != MaxLines {
		t.Errorf("expected %d lines, got %d", MaxLines, len(got))
	}
}

func TestLayout_Geometry(t *testing.T) {
	b := board.New()
	scene := Layout(b)

	if scene.Width != 2100 || scene.Height != 2800 {
		t.Fatalf("canvas %dx%d", scene.Width, scene.Height)
	}
	if len(scene.Grids) != 1+board.Size {
		t.Fatalf("expected 9 grids, got %d", len(scene.Grids))
	}
	if scene.Heading != "새해 만다라트: 나의 목표" {
		t.Errorf("heading: %q", scene.Heading)
	}

	overview := scene.Grids[0]
	if overview.X != 80 || overview.Y != 180 || overview.Size != 900 {
		t.Errorf("overview placement: %+v", overview)
	}
	if overview.Center != "올해 목표" || overview.Caption != "기본 만다라트" {
		t.Errorf("overview labels: %q %q", overview.Center, overview.Caption)
	}

	wantXY := [][2]float64{
		{1040, 180}, {1396, 180},
		{1040, 570}, {1396, 570},
		{1040, 960}, {1396, 960},
		{1040, 1350}, {1396, 1350},
	}
	for i, xy := range wantXY {
		g := scene.Grids[1+i]
		if g.X != xy[0] || g.Y != xy[1] || g.Size != 320 {
			t.Errorf("sub grid %d at (%v,%v) size %v, want (%v,%v)", i, g.X, g.Y, g.Size, xy[0], xy[1])
		}
		if g.Center != board.GoalLabel(i) {
			t.Errorf("sub grid %d center %q", i, g.Center)
		}
		if g.Caption != board.ExpansionCaption(i) {
			t.Errorf("sub grid %d caption %q", i, g.Caption)
		}
	}
}

func TestLayout_UsesBoardText(t *testing.T) {
	b := board.New()
	b.Title = "Grow"
	b.Goals[4] = "Health"
	b.Details[4][7] = "Sleep early"

	scene := Layout(b)
	if scene.Heading != "새해 만다라트: Grow" || scene.Grids[0].Center != "Grow" {
		t.Errorf("title not used: %q / %q", scene.Heading, scene.Grids[0].Center)
	}
	if scene.Grids[0].Outer[4] != "Health" {
		t.Errorf("overview outer[4]: %q", scene.Grids[0].Outer[4])
	}
	sub := scene.Grids[5]
	if sub.Center != "Health" || sub.Outer[7] != "Sleep early" {
		t.Errorf("sub grid 4: %+v", sub)
	}
}

func TestGridCells_MapOuterIndices(t *testing.T) {
	g := Grid{X: 0, Y: 0, Size: 300, Center: "C"}
	for i := range g.Outer {
		g.Outer[i] = board.DetailLabel(i)
	}
	cells := g.Cells()
	for k, pos := range board.ScanOrder {
		c := cells[k]
		if pos.IsCenter() {
			if !c.Center || c.Text != "C" {
				t.Errorf("center cell: %+v", c)
			}
			continue
		}
		idx, _ := board.OuterIndex(pos)
		if c.Text != board.DetailLabel(idx) {
			t.Errorf("cell %v text %q, want %q", pos, c.Text, board.DetailLabel(idx))
		}
		if c.X != float64(pos.Col)*100+6 || c.W != 88 {
			t.Errorf("cell %v geometry: %+v", pos, c)
		}
		if c.TextX != float64(pos.Col)*100+16 || c.TextY != float64(pos.Row)*100+20 || c.TextWidth != 68 {
			t.Errorf("cell %v text origin: %+v", pos, c)
		}
	}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -3 && d <= 3
}

func assertColor(t *testing.T, got color.Color, want color.RGBA, where string) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	if !near(uint8(r>>8), want.R) || !near(uint8(g>>8), want.G) || !near(uint8(b>>8), want.B) {
		t.Errorf("%s: got %02x%02x%02x, want %s", where, r>>8, g>>8, b>>8, css(want))
	}
}

func TestRenderPNG(t *testing.T) {
	b := board.New()
	b.Title = "Focus"
	b.Goals[0] = "Health and energy for the whole year"

	var buf bytes.Buffer
	if err := RenderPNG(&buf, b, nil); err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != CanvasWidth || img.Bounds().Dy() != CanvasHeight {
		t.Fatalf("bounds %v", img.Bounds())
	}

	assertColor(t, img.At(0, 0), colorGradientStart, "gradient start")
	assertColor(t, img.At(CanvasWidth-1, CanvasHeight-1), colorGradientEnd, "gradient end")
	assertColor(t, img.At(600, 700), colorCenterBG, "overview center cell")
	assertColor(t, img.At(230, 430), colorGridBG, "overview outer cell")
}

func TestRenderPNG_DoesNotMutateBoard(t *testing.T) {
	b := board.New()
	b.Goals[1] = "x"
	b.ActiveGoal = 3
	before := *b
	if err := RenderPNG(io.Discard, b, DefaultFonts()); err != nil {
		t.Fatal(err)
	}
	if *b != before {
		t.Error("render mutated the board")
	}
}

func TestRenderSVG(t *testing.T) {
	b := board.New()
	b.Goals[2] = "Read <books> & more"
	b.Details[2][0] = "one"

	var buf bytes.Buffer
	if err := RenderSVG(&buf, b, nil); err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<svg`,
		`width="2100"`,
		`fill:url(#bg)`,
		"새해 만다라트: 나의 목표",
		"3번 확장",
		"Read &lt;books&gt; &amp; more",
		">one<",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if got := strings.Count(out, "<rect"); got < 1+9*9 {
		t.Errorf("expected at least %d rects, got %d", 1+9*9, got)
	}
}

func TestSaveSnapshot_Formats(t *testing.T) {
	dir := t.TempDir()
	b := board.New()

	pngPath := filepath.Join(dir, "a", "board.png")
	if err := SaveSnapshot(SnapshotOptions{Path: pngPath, Board: b}); err != nil {
		t.Fatalf("png: %v", err)
	}
	data, _ := os.ReadFile(pngPath)
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}

	svgPath := filepath.Join(dir, "board.svg")
	if err := SaveSnapshot(SnapshotOptions{Path: svgPath, Board: b}); err != nil {
		t.Fatalf("svg: %v", err)
	}
	data, _ = os.ReadFile(svgPath)
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("expected svg document")
	}

	if err := SaveSnapshot(SnapshotOptions{Path: svgPath, Format: "gif", Board: b}); err == nil {
		t.Error("expected unsupported format error")
	}
	if err := SaveSnapshot(SnapshotOptions{Path: svgPath}); err == nil {
		t.Error("expected error without board")
	}
	if err := SaveSnapshot(SnapshotOptions{Board: b}); err == nil {
		t.Error("expected error without path")
	}
}

func TestSaveAll(t *testing.T) {
	dir := t.TempDir()
	paths, err := SaveAll(context.Background(), board.New(), dir, []string{"png", "svg"}, nil)
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	want := []string{filepath.Join(dir, "mandalart-newyear.png"), filepath.Join(dir, "mandalart-newyear.svg")}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("path %d: got %s, want %s", i, paths[i], p)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SaveAll(ctx, board.New(), dir, []string{"png"}, nil); err == nil {
		t.Error("expected cancelled context error")
	}
}

// withFontDirs points the system font search at dirs for one test.
func withFontDirs(t *testing.T, dirs ...string) {
	t.Helper()
	old := FontDirs
	FontDirs = dirs
	t.Cleanup(func() { FontDirs = old })
}

func writeFont(t *testing.T, path string, ttf []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, ttf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFonts(t *testing.T) {
	withFontDirs(t)

	if _, err := LoadFonts(filepath.Join(t.TempDir(), "missing.ttf"), ""); err == nil {
		t.Error("expected error for missing font")
	}
	bad := filepath.Join(t.TempDir(), "bad.ttf")
	_ = os.WriteFile(bad, []byte("not a font"), 0o644)
	if _, err := LoadFonts(bad, ""); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadFonts("", bad); err == nil {
		t.Error("expected parse error for bold font")
	}

	src, err := LoadFonts("", "")
	if err != nil {
		t.Fatal(err)
	}
	if src.RegularPath != "" || src.BoldPath != "" {
		t.Errorf("expected embedded fonts, got %q / %q", src.RegularPath, src.BoldPath)
	}
	faces, err := src.faces()
	if err != nil {
		t.Fatal(err)
	}
	defer faces.Close()
	if w := measurer(faces.center)("MMMM"); w <= measurer(faces.outer)("MMMM") {
		t.Errorf("center font should be wider than outer: %v", w)
	}
}

func TestLoadFonts_RegularReusedForBold(t *testing.T) {
	withFontDirs(t)
	path := filepath.Join(t.TempDir(), "custom.ttf")
	writeFont(t, path, goregular.TTF)

	src, err := LoadFonts(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if src.RegularPath != path || src.BoldPath != path {
		t.Errorf("paths = %q / %q, want %q for both", src.RegularPath, src.BoldPath, path)
	}
}

func TestDefaultFonts_LackHangul(t *testing.T) {
	if DefaultFonts().HasHangul() {
		t.Error("embedded Go fonts unexpectedly cover Hangul")
	}
}

func TestFindSystemFonts(t *testing.T) {
	root := t.TempDir()
	nanum := filepath.Join(root, "truetype", "nanum")
	writeFont(t, filepath.Join(nanum, "NanumGothic.ttf"), goregular.TTF)
	writeFont(t, filepath.Join(nanum, "NanumGothicBold.ttf"), gobold.TTF)

	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string)
		wantRegular string
		wantBold    string
		wantOK      bool
	}{
		{
			name:   "nothing installed",
			setup:  func(t *testing.T, dir string) {},
			wantOK: false,
		},
		{
			name: "pair found in a nested dir",
			setup: func(t *testing.T, dir string) {
				writeFont(t, filepath.Join(dir, "a", "b", "NanumGothic.ttf"), goregular.TTF)
				writeFont(t, filepath.Join(dir, "a", "NanumGothicBold.ttf"), gobold.TTF)
			},
			wantRegular: filepath.Join("a", "b", "NanumGothic.ttf"),
			wantBold:    filepath.Join("a", "NanumGothicBold.ttf"),
			wantOK:      true,
		},
		{
			name: "preferred family wins, missing bold stays empty",
			setup: func(t *testing.T, dir string) {
				writeFont(t, filepath.Join(dir, "NanumGothic.ttf"), goregular.TTF)
				writeFont(t, filepath.Join(dir, "noto", "NotoSansKR-Regular.ttf"), goregular.TTF)
			},
			wantRegular: filepath.Join("noto", "NotoSansKR-Regular.ttf"),
			wantOK:      true,
		},
		{
			name: "names match case-insensitively",
			setup: func(t *testing.T, dir string) {
				writeFont(t, filepath.Join(dir, "MALGUN.TTF"), goregular.TTF)
			},
			wantRegular: "MALGUN.TTF",
			wantOK:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			regular, bold, ok := findSystemFonts([]string{filepath.Join(dir, "missing"), dir})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if regular != filepath.Join(dir, tt.wantRegular) {
				t.Errorf("regular = %q, want %q", regular, tt.wantRegular)
			}
			wantBold := ""
			if tt.wantBold != "" {
				wantBold = filepath.Join(dir, tt.wantBold)
			}
			if bold != wantBold {
				t.Errorf("bold = %q, want %q", bold, wantBold)
			}
		})
	}

	withFontDirs(t, root)
	src, err := LoadFonts("", "")
	if err != nil {
		t.Fatal(err)
	}
	if src.RegularPath != filepath.Join(nanum, "NanumGothic.ttf") || src.BoldPath != filepath.Join(nanum, "NanumGothicBold.ttf") {
		t.Errorf("system fonts = %q / %q", src.RegularPath, src.BoldPath)
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", []string{"png"}, false},
		{"PNG", []string{"png"}, false},
		{"svg", []string{"svg"}, false},
		{" all ", []string{"png", "svg"}, false},
		{"jpeg", nil, true},
	}
	for _, tt := range tests {
		got, err := Formats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Formats(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Formats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
