package modals

import (
	"github.com/mattn/go-runewidth"
)

// TruncatePath truncates a path from the beginning with ellipsis
func TruncatePath(path string, maxWidth int) string {
	if runewidth.StringWidth(path) <= maxWidth {
		return path
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(path, maxWidth, "")
	}
	runes := []rune(path)
	for i := range runes {
		tail := string(runes[i:])
		if runewidth.StringWidth(tail)+3 <= maxWidth {
			return "..." + tail
		}
	}
	return "..."
}

// TruncateString truncates a string from the end with ellipsis
func TruncateString(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "...")
}
