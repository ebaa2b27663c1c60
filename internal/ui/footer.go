package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the color of a flash message
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// FlashTickMsg is sent when a flash message may have expired
type FlashTickMsg time.Time

// FlashTick returns a command that fires once FlashDuration has passed
func FlashTick() tea.Cmd {
	return tea.Tick(FlashDuration, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width          int
	sidebarFocused bool
	hasDraft       bool
	waiting        bool
	searchMode     bool

	flashText    string
	flashType    FlashType
	flashExpires time.Time
	now          func() time.Time
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{now: time.Now}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(sidebarFocused, hasDraft, waiting, searchMode bool) {
	f.sidebarFocused = sidebarFocused
	f.hasDraft = hasDraft
	f.waiting = waiting
	f.searchMode = searchMode
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows text in place of the bindings until FlashDuration passes
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.flashText = text
	f.flashType = flashType
	f.flashExpires = f.now().Add(FlashDuration)
}

// ClearFlash removes the flash message
func (f *Footer) ClearFlash() {
	f.flashText = ""
}

// ClearIfExpired removes the flash message once it has been shown long
// enough. A newer flash set after the tick was scheduled survives.
func (f *Footer) ClearIfExpired() {
	if f.flashText != "" && !f.now().Before(f.flashExpires) {
		f.flashText = ""
	}
}

// HasFlash reports whether a flash message is shown
func (f *Footer) HasFlash() bool {
	return f.flashText != ""
}

// FlashText returns the current flash message
func (f *Footer) FlashText() string {
	return f.flashText
}

// Bindings returns the shortcuts shown for the current context
func (f *Footer) Bindings() []KeyBinding {
	switch {
	case f.searchMode:
		return []KeyBinding{
			{Key: "enter", Desc: "keep filter"},
			{Key: "esc", Desc: "clear"},
			{Key: "↑/↓", Desc: "navigate"},
		}
	case f.sidebarFocused:
		return []KeyBinding{
			{Key: "enter", Desc: "open"},
			{Key: "ctrl+n", Desc: "new chat"},
			{Key: "/", Desc: "filter"},
			{Key: "tab", Desc: "chat"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		}
	}

	bindings := []KeyBinding{{Key: "enter", Desc: "send"}}
	if f.waiting {
		bindings = []KeyBinding{{Key: "…", Desc: "waiting for reply"}}
	}
	if f.hasDraft {
		bindings = append(bindings,
			KeyBinding{Key: "ctrl+s", Desc: "download draft"},
			KeyBinding{Key: "ctrl+y", Desc: "copy draft"},
		)
	}
	return append(bindings,
		KeyBinding{Key: "ctrl+n", Desc: "new chat"},
		KeyBinding{Key: "tab", Desc: "sessions"},
		KeyBinding{Key: "pgup/dn", Desc: "scroll"},
	)
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashText != "" {
		return FooterStyle.Width(f.width).Render(f.flashStyle().Render(f.flashText))
	}

	var parts []string
	for _, b := range f.Bindings() {
		parts = append(parts, FooterKeyStyle.Render(b.Key)+FooterDescStyle.Render(": "+b.Desc))
	}
	sep := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "
	content := ansi.Truncate(strings.Join(parts, sep), max(0, f.width-2), "…")
	return FooterStyle.Width(f.width).Render(content)
}

func (f *Footer) flashStyle() lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch f.flashType {
	case FlashSuccess:
		return style.Foreground(ColorSuccess)
	case FlashWarning:
		return style.Foreground(ColorWarning)
	case FlashError:
		return style.Foreground(ColorError)
	default:
		return style.Foreground(ColorInfo)
	}
}
