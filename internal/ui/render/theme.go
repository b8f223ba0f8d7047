package render

import "github.com/gdamore/tcell/v2"

// ColorTheme defines application colors.
type ColorTheme struct {
	Background  tcell.Color
	Foreground  tcell.Color
	SelectionBg tcell.Color
	SelectionFg tcell.Color
	DirectoryFg tcell.Color
	FileFg      tcell.Color
	CheckedFg   tcell.Color
	PartialFg   tcell.Color
	MutedFg     tcell.Color
	FooterBg    tcell.Color
	FooterFg    tcell.Color
	ErrorFg     tcell.Color
	FlashBg     tcell.Color
	FlashFg     tcell.Color
}

// GetColorTheme returns the default color scheme.
func GetColorTheme() ColorTheme {
	return ColorTheme{
		Background:  tcell.ColorDefault,
		Foreground:  tcell.ColorDefault,
		SelectionBg: tcell.Color33,
		SelectionFg: tcell.ColorWhite,
		DirectoryFg: tcell.Color33,
		FileFg:      tcell.ColorDefault,
		CheckedFg:   tcell.Color42,  // green box for fully selected rows
		PartialFg:   tcell.Color214, // amber box for partly selected directories
		MutedFg:     tcell.ColorLightSlateGray,
		FooterBg:    tcell.ColorDefault,
		FooterFg:    tcell.ColorDefault,
		ErrorFg:     tcell.ColorRed,
		FlashBg:     tcell.ColorGreen,
		FlashFg:     tcell.ColorBlack,
	}
}
