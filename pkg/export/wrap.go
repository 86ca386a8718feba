package export

import "strings"

// MaxLines is the most lines a cell shows. Extra lines are dropped without
// an ellipsis.
const MaxLines = 4

// WrapText greedily packs space-separated words into lines no wider than
// maxWidth. A word that does not fit on a non-empty line starts a new one;
// a single word wider than maxWidth still gets its own line.
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	text = strings.NewReplacer("\r\n", " ", "\n", " ").Replace(text)

	var lines []string
	line := ""
	for _, word := range strings.Split(text, " ") {
		test := word
		if line != "" {
			test = line + " " + word
		}
		if measure(test) > maxWidth && line != "" {
			lines = append(lines, line)
			line = word
		} else {
			line = test
		}
	}
	if line != "" {
		lines = append(lines, line)
	}

	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	return lines
}
