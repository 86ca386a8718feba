package export

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/vanderheijden86/mandal/pkg/debug"
)

// FontSource holds the parsed fonts used for rendering. A parsed font may be
// shared between renders; each render builds its own faces.
type FontSource struct {
	regular *opentype.Font
	bold    *opentype.Font

	// RegularPath and BoldPath name the loaded files. Empty means the
	// embedded Go font, which has no Hangul glyphs.
	RegularPath string
	BoldPath    string
}

// DefaultFonts returns the embedded Go fonts.
func DefaultFonts() *FontSource {
	return &FontSource{regular: mustParse(goregular.TTF), bold: mustParse(gobold.TTF)}
}

func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("embedded font: %v", err))
	}
	return f
}

// cjkFonts lists Hangul-capable system fonts in order of preference. An
// empty bold name reuses the regular file.
var cjkFonts = []struct{ regular, bold string }{
	{"NotoSansCJK-Regular.ttc", "NotoSansCJK-Bold.ttc"},
	{"NotoSansCJKkr-Regular.otf", "NotoSansCJKkr-Bold.otf"},
	{"NotoSansKR-Regular.ttf", "NotoSansKR-Bold.ttf"},
	{"NotoSansKR-Regular.otf", "NotoSansKR-Bold.otf"},
	{"NanumGothic.ttf", "NanumGothicBold.ttf"},
	{"AppleSDGothicNeo.ttc", ""},
	{"malgun.ttf", "malgunbd.ttf"},
}

// FontDirs are searched for a Hangul-capable font when none is configured.
var FontDirs = defaultFontDirs()

func defaultFontDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/System/Library/Fonts",
		"/Library/Fonts",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".local", "share", "fonts"),
			filepath.Join(home, ".fonts"),
			filepath.Join(home, "Library", "Fonts"),
		)
	}
	if win := os.Getenv("WINDIR"); win != "" {
		dirs = append(dirs, filepath.Join(win, "Fonts"))
	}
	return dirs
}

// LoadFonts reads font files. With both paths empty it looks for a
// Hangul-capable font in FontDirs and falls back to the embedded Go fonts.
// A regular path without a bold path reuses the regular font for bold.
func LoadFonts(regularPath, boldPath string) (*FontSource, error) {
	if regularPath == "" && boldPath == "" {
		return systemFonts(FontDirs), nil
	}

	src := DefaultFonts()
	if regularPath != "" {
		f, err := readFont(regularPath)
		if err != nil {
			return nil, err
		}
		src.regular, src.bold = f, f
		src.RegularPath, src.BoldPath = regularPath, regularPath
	}
	if boldPath != "" {
		f, err := readFont(boldPath)
		if err != nil {
			return nil, err
		}
		src.bold = f
		src.BoldPath = boldPath
	}
	if !src.HasHangul() {
		debug.Log("export font %q has no Hangul glyphs; labels will render as boxes", regularPath)
	}
	return src, nil
}

func systemFonts(dirs []string) *FontSource {
	if regular, bold, ok := findSystemFonts(dirs); ok {
		src, err := LoadFonts(regular, bold)
		if err == nil {
			debug.Log("export font: %s", src.RegularPath)
			return src
		}
		debug.Error("load system font", err)
	}
	debug.Log("no Hangul-capable font found; set export.font_regular in the config")
	return DefaultFonts()
}

// findSystemFonts walks dirs and returns the most preferred cjkFonts entry
// present. File names match case-insensitively.
func findSystemFonts(dirs []string) (regular, bold string, ok bool) {
	wanted := make(map[string]bool)
	for _, c := range cjkFonts {
		wanted[strings.ToLower(c.regular)] = true
		if c.bold != "" {
			wanted[strings.ToLower(c.bold)] = true
		}
	}

	found := make(map[string]string)
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			name := strings.ToLower(d.Name())
			if _, seen := found[name]; wanted[name] && !seen {
				found[name] = path
			}
			return nil
		})
	}

	for _, c := range cjkFonts {
		r, ok := found[strings.ToLower(c.regular)]
		if !ok {
			continue
		}
		return r, found[strings.ToLower(c.bold)], true
	}
	return "", "", false
}

// readFont parses a TrueType/OpenType file. Collections (.ttc, .otc) use
// their first font.
func readFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing font %s: %w", path, err)
		}
		f, err := coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("parsing font %s: %w", path, err)
		}
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return f, nil
}

// HasHangul reports whether both fonts can draw the fixed Korean labels.
func (src *FontSource) HasHangul() bool {
	return coversHangul(src.regular) && coversHangul(src.bold)
}

func coversHangul(f *opentype.Font) bool {
	var buf sfnt.Buffer
	for _, r := range "새해만다라트핵심계획" {
		i, err := f.GlyphIndex(&buf, r)
		if err != nil || i == 0 {
			return false
		}
	}
	return true
}

// faceSet is one render's worth of faces. Faces are not safe for concurrent
// use, so every render builds its own.
type faceSet struct {
	heading, caption, center, outer font.Face
}

func (src *FontSource) faces() (*faceSet, error) {
	newFace := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	var err error
	set := &faceSet{}
	if set.heading, err = newFace(src.bold, headingSize); err != nil {
		return nil, err
	}
	if set.caption, err = newFace(src.bold, captionSize); err != nil {
		return nil, err
	}
	if set.center, err = newFace(src.bold, centerSize); err != nil {
		return nil, err
	}
	if set.outer, err = newFace(src.regular, outerSize); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *faceSet) cellFace(center bool) font.Face {
	if center {
		return s.center
	}
	return s.outer
}

func (s *faceSet) Close() {
	for _, f := range []font.Face{s.heading, s.caption, s.center, s.outer} {
		if f != nil {
			f.Close()
		}
	}
}

// measurer returns the advance width of a string in pixels.
func measurer(face font.Face) func(string) float64 {
	return func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}
}
