package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette is the slice of the ui theme the modals draw with.
type Palette struct {
	Title lipgloss.Style
	Help  lipgloss.Style

	Primary   color.Color
	Secondary color.Color
	Text      color.Color
	Muted     color.Color
	Inverse   color.Color // text on a Primary background
	Warning   color.Color

	Width          int
	InputWidth     int
	InputCharLimit int
	HelpMaxVisible int
}

// pal is replaced wholesale by SetPalette whenever the theme changes.
var pal = Palette{
	Width:          60,
	InputWidth:     50,
	InputCharLimit: 512,
	HelpMaxVisible: 14,
}

// SetPalette installs the palette used by modals created from now on.
func SetPalette(p Palette) {
	pal = p
}
