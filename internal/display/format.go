package display

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/x/ansi"
)

// FormatNumber abbreviates counts in the compact style used by the card,
// e.g. 1234 -> 1.2k and 2500000 -> 2.5M
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%d.%dM", n/1_000_000, (n%1_000_000)/100_000)
	case n > 999:
		return fmt.Sprintf("%d.%dk", n/1000, (n%1000)/100)
	default:
		return strconv.Itoa(n)
	}
}

// Truncate shortens s to at most width terminal cells, ending it with "..."
// when it had to be cut
func Truncate(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}
