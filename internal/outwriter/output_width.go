package outwriter

import (
	"os"

	"golang.org/x/term"
)

// Text column bounds for table output.
const (
	minTextWidth = 15
	maxTextWidth = 70
)

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return width
}

// maxTextColumnWidth returns the room left for one free-text column after reserving
// fixedWidth for the other columns, borders and padding.
func maxTextColumnWidth(termWidth, fixedWidth int) int {
	available := termWidth - fixedWidth
	if available < minTextWidth {
		return minTextWidth
	}
	if available > maxTextWidth {
		return maxTextWidth
	}
	return available
}
