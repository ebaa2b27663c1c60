package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// appTitle is shown at the left of the header.
const appTitle = " RTI Assistant"

// Header represents the top header bar
type Header struct {
	width        int
	sessionTitle string
	backendURL   string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetSessionTitle sets the active session's title
func (h *Header) SetSessionTitle(title string) {
	h.sessionTitle = strings.Join(strings.Fields(title), " ")
}

// SessionTitle returns the displayed session title
func (h *Header) SessionTitle() string {
	return h.sessionTitle
}

// SetBackendURL sets the backend shown muted after the title
func (h *Header) SetBackendURL(url string) {
	h.backendURL = url
}

// View renders the header
func (h *Header) View() string {
	var right string
	var muted string
	if h.backendURL != "" {
		muted = "(" + h.backendURL + ")"
	}

	room := h.width - runewidth.StringWidth(appTitle) - 2
	title := h.sessionTitle
	if muted != "" && runewidth.StringWidth(title)+1+runewidth.StringWidth(muted) > room {
		muted = ""
	}
	if muted != "" {
		title = runewidth.Truncate(title, max(0, room-1-runewidth.StringWidth(muted)), "…")
		right = title + " " + muted + " "
	} else if title != "" {
		right = runewidth.Truncate(title, max(0, room), "…") + " "
	}

	padding := max(0, h.width-runewidth.StringWidth(appTitle)-runewidth.StringWidth(right))
	content := appTitle + strings.Repeat(" ", padding) + right
	return h.renderGradient(content, muted)
}

// parseHexColor parses a hex color string (e.g., "#F97316") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content on a background fading from the theme's
// primary color to its background. The muted suffix, when present, is
// drawn in the muted text color.
func (h *Header) renderGradient(content, muted string) string {
	if content == "" {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)
	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	runes := []rune(content)
	mutedStart := -1
	if muted != "" {
		if idx := strings.LastIndex(content, muted); idx >= 0 {
			mutedStart = len([]rune(content[:idx]))
		}
	}
	titleLen := len([]rune(appTitle))

	var result strings.Builder
	for i, r := range runes {
		t := float64(i) / float64(len(runes))
		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < titleLen).
			Foreground(textColor)
		if mutedStart >= 0 && i >= mutedStart {
			style = style.Foreground(mutedColor)
		}
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}
