package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth reports the printable width of text accounting for wide runes.
// Zero-width runes count as one column so they never collapse a layout.
func DisplayWidth(text string) int {
	width := 0
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}

// PadRight appends spaces until text occupies width columns.
func PadRight(text string, width int) string {
	if pad := width - DisplayWidth(text); pad > 0 {
		return text + strings.Repeat(" ", pad)
	}
	return text
}
