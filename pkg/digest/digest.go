// Package digest flattens a board into a plain-text outline for pasting into
// a reminders or notes app, and into markdown for previews.
package digest

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/mandal/pkg/board"
	"github.com/vanderheijden86/mandal/pkg/metrics"
)

// Build returns the text digest:
//
//	📌 {title}
//
//	1. {goal}
//	   - {detail}
//
// Goals without any filled detail get a single placeholder line. Every goal
// block ends with a blank line.
func Build(b *board.Board) string {
	defer metrics.Timer(metrics.DigestBuild)()
	return strings.Join(Lines(b), "\n")
}

// Lines is Build before joining.
func Lines(b *board.Board) []string {
	title := b.Title
	if title == "" {
		title = board.DigestTitleFallback
	}

	lines := make([]string, 0, 2+board.Size*(board.Size+2))
	lines = append(lines, "📌 "+title, "")

	for i := range b.Goals {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, b.GoalText(i)))
		filled := b.FilledDetails(i)
		if len(filled) == 0 {
			lines = append(lines, "   - "+board.NoDetailsLine)
		} else {
			for _, d := range filled {
				lines = append(lines, "   - "+d)
			}
		}
		lines = append(lines, "")
	}
	return lines
}

// Markdown renders the same content as a markdown document.
func Markdown(b *board.Board) string {
	title := b.Title
	if title == "" {
		title = board.DigestTitleFallback
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escape(title))
	for i := range b.Goals {
		marker := ""
		if i == b.ActiveGoal {
			marker = " ◀"
		}
		fmt.Fprintf(&sb, "## %d. %s%s\n\n", i+1, escape(b.GoalText(i)), marker)
		filled := b.FilledDetails(i)
		if len(filled) == 0 {
			fmt.Fprintf(&sb, "- _%s_\n\n", board.NoDetailsLine)
			continue
		}
		for _, d := range filled {
			fmt.Fprintf(&sb, "- %s\n", escape(d))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"#", `\#`,
	"`", "\\`",
	"\n", " ",
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
