package display

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Zip places right beside left line by line. Right lines start at column
// cells; left lines are padded using their visible width so ANSI sequences
// do not shift the text. The shorter side is padded with empty lines.
// An empty left side returns right unchanged, without indentation.
func Zip(left, right []string, column int) []string {
	if len(left) == 0 {
		return append([]string(nil), right...)
	}

	rows := max(len(left), len(right))
	lines := make([]string, rows)
	for i := 0; i < rows; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}

		if r == "" {
			lines[i] = l
			continue
		}

		pad := max(column-ansi.StringWidth(l), 1)
		lines[i] = l + strings.Repeat(" ", pad) + r
	}
	return lines
}
