package session

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TitleMaxLength is the number of characters kept from the first message.
const TitleMaxLength = 30

// TitleEllipsis marks a truncated title.
const TitleEllipsis = "..."

// TitleFromMessage derives a session title from a user message: the first
// TitleMaxLength characters, followed by TitleEllipsis when anything was cut.
// Characters are grapheme clusters, so combining marks and emoji sequences
// are never split.
func TitleFromMessage(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ""
	}

	var sb strings.Builder
	count := 0
	g := uniseg.NewGraphemes(msg)
	for g.Next() {
		if count == TitleMaxLength {
			return sb.String() + TitleEllipsis
		}
		sb.WriteString(g.Str())
		count++
	}
	return sb.String()
}
