// Package textutil prepares untrusted text, mostly file names, for display in
// a terminal cell grid.
package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// formatLabels names the invisible runes most often used to disguise a file
// name. Other format runes are shown by code point.
var formatLabels = map[rune]string{
	0x00AD: "SHY",
	0x061C: "ALM",
	0x180E: "MVS",
	0x200B: "ZWSP",
	0x200C: "ZWNJ",
	0x200D: "ZWJ",
	0x200E: "LRM",
	0x200F: "RLM",
	0x2028: "LSEP",
	0x2029: "PSEP",
	0x202A: "LRE",
	0x202B: "RLE",
	0x202C: "PDF",
	0x202D: "LRO",
	0x202E: "RLO",
	0x2060: "WJ",
	0x2066: "LRI",
	0x2067: "RLI",
	0x2068: "FSI",
	0x2069: "PDI",
	0xFEFF: "BOM",
}

// SanitizeTerminalText makes text safe to draw. Line breaks and tabs become
// spaces, C0 and C1 controls become '?' and invisible format runes are
// replaced by a visible ⟪label⟫, so a name can neither emit escape sequences
// nor reorder the row it is drawn on.
func SanitizeTerminalText(text string) string {
	if strings.IndexFunc(text, unsafeRune) < 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case unicode.IsControl(r):
			b.WriteByte('?')
		case isFormat(r):
			b.WriteString("⟪")
			if label, ok := formatLabels[r]; ok {
				b.WriteString(label)
			} else {
				fmt.Fprintf(&b, "U+%04X", r)
			}
			b.WriteString("⟫")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unsafeRune(r rune) bool {
	return unicode.IsControl(r) || isFormat(r)
}

func isFormat(r rune) bool {
	if _, ok := formatLabels[r]; ok {
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
