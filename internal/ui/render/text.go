package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru < 128 {
		r.runeWidthCacheMu.RLock()
		width := r.runeWidthCache[ru]
		r.runeWidthCacheMu.RUnlock()

		if width == 0 && ru != 0 {
			actualWidth := runewidth.RuneWidth(ru)
			if actualWidth < 0 {
				actualWidth = 0
			}
			r.runeWidthCacheMu.Lock()
			r.runeWidthCache[ru] = actualWidth + 1
			r.runeWidthCacheMu.Unlock()
			return actualWidth
		}
		return width - 1
	}

	if cached, ok := r.runeWidthWide.Load(ru); ok {
		return cached.(int)
	}

	width := runewidth.RuneWidth(ru)
	if width < 0 {
		width = 0
	}
	r.runeWidthWide.Store(ru, width)
	return width
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += max(r.cachedRuneWidth(ru), 0)
	}
	return width
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}

	if r.measureTextWidth(text) <= maxWidth {
		return text
	}

	const ellipsis = '…'
	ellipsisWidth := max(r.cachedRuneWidth(ellipsis), 1)
	if maxWidth <= ellipsisWidth {
		return string(ellipsis)
	}

	available := maxWidth - ellipsisWidth
	var builder strings.Builder
	currentWidth := 0

	for _, ru := range text {
		runeWidth := max(r.cachedRuneWidth(ru), 0)
		if currentWidth+runeWidth > available {
			break
		}
		builder.WriteRune(ru)
		currentWidth += runeWidth
	}

	builder.WriteRune(ellipsis)
	return builder.String()
}

// truncateLeftToWidth keeps the tail of text, which is the informative end
// of a long path.
func (r *Renderer) truncateLeftToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}
	if r.measureTextWidth(text) <= maxWidth {
		return text
	}

	const ellipsis = '…'
	ellipsisWidth := max(r.cachedRuneWidth(ellipsis), 1)
	if maxWidth <= ellipsisWidth {
		return string(ellipsis)
	}

	runes := []rune(text)
	available := maxWidth - ellipsisWidth
	start := len(runes)
	width := 0
	for start > 0 {
		rw := max(r.cachedRuneWidth(runes[start-1]), 0)
		if width+rw > available {
			break
		}
		width += rw
		start--
	}
	return string(ellipsis) + string(runes[start:])
}

func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		if x-startX >= maxWidth {
			break
		}

		mainc := runes[i]
		i++

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) <= 0 {
			combc = append(combc, runes[i])
			i++
		}

		w := max(r.cachedRuneWidth(mainc), 0)
		if x-startX+w > maxWidth {
			break
		}
		r.screen.SetContent(x, y, mainc, combc, style)
		x += w
	}

	return x
}

// fillLine pads row y from startX to endX with spaces.
func (r *Renderer) fillLine(startX, endX, y int, style tcell.Style) {
	for x := startX; x < endX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
