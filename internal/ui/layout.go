package ui

// Layout is the panel geometry for one terminal size.
type Layout struct {
	Width, Height int

	ContentHeight int // between header and footer
	SidebarWidth  int
	ChatWidth     int
}

// ComputeLayout splits a width x height terminal into header, sidebar, chat
// and footer. Tiny terminals are treated as MinTerminalWidth x MinTerminalHeight.
func ComputeLayout(width, height int) Layout {
	width = max(width, MinTerminalWidth)
	height = max(height, MinTerminalHeight)

	sidebar := width / SidebarWidthRatio
	sidebar = min(max(sidebar, MinSidebarWidth), MaxSidebarWidth)

	return Layout{
		Width:         width,
		Height:        height,
		ContentHeight: height - HeaderHeight - FooterHeight,
		SidebarWidth:  sidebar,
		ChatWidth:     width - sidebar,
	}
}

// innerSize strips the panel border from an outer dimension.
func innerSize(outer int) int {
	return max(0, outer-BorderSize)
}
