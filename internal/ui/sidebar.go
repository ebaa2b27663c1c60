package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/rtiagent/rtichat/internal/keys"
	"github.com/rtiagent/rtichat/internal/session"
)

// sidebarSpinnerFrames animate next to sessions waiting on a reply
var sidebarSpinnerFrames = []string{"·", "✺", "✹", "✸", "✷", "✶", "✵", "✴", "✳", "✲", "✱", "✧", "✦", "·"}

// SidebarTickMsg is sent to advance the spinner animation
type SidebarTickMsg time.Time

// sidebarItemHeight is the number of lines one entry takes: title and age.
const sidebarItemHeight = 2

// Sidebar represents the left panel with the recent session list
type Sidebar struct {
	entries      []session.Entry
	filtered     []session.Entry
	selectedIdx  int
	scrollOffset int
	width        int
	height       int
	focused      bool

	inFlight     map[string]bool
	spinnerFrame int

	searchMode  bool
	searchInput textinput.Model

	now func() time.Time
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 64
	ti.Prompt = "/ "

	return &Sidebar{
		inFlight:    make(map[string]bool),
		searchInput: ti,
		now:         time.Now,
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.searchInput.SetWidth(max(1, innerSize(width)-4))
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetEntries replaces the listed sessions. The selection follows the active
// session when there is one.
func (s *Sidebar) SetEntries(entries []session.Entry) {
	s.entries = entries
	if s.searchMode || s.filtered != nil {
		s.applyFilter(s.searchInput.Value())
	}
	for i, e := range s.displayEntries() {
		if e.Active {
			s.selectedIdx = i
			return
		}
	}
	s.clampSelection()
}

// Entries returns the listed sessions.
func (s *Sidebar) Entries() []session.Entry {
	return s.entries
}

// SelectedID returns the id of the highlighted session, or "".
func (s *Sidebar) SelectedID() string {
	display := s.displayEntries()
	if s.selectedIdx < 0 || s.selectedIdx >= len(display) {
		return ""
	}
	return display[s.selectedIdx].ID
}

// SetInFlight marks a session as waiting on a reply.
func (s *Sidebar) SetInFlight(id string, waiting bool) {
	if waiting {
		s.inFlight[id] = true
	} else {
		delete(s.inFlight, id)
	}
}

// IsWaiting reports whether any session is waiting on a reply.
func (s *Sidebar) IsWaiting() bool {
	return len(s.inFlight) > 0
}

// SidebarTick returns a command that sends a tick message after a delay
func SidebarTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return SidebarTickMsg(t)
	})
}

// EnterSearchMode activates the title filter
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.applyFilter("")
	return s.searchInput.Focus()
}

// ExitSearchMode deactivates the filter and clears it
func (s *Sidebar) ExitSearchMode() {
	s.searchMode = false
	s.searchInput.Blur()
	s.searchInput.SetValue("")
	s.filtered = nil
	s.clampSelection()
}

// IsSearchMode returns whether search mode is active
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// IsFiltered reports whether a title filter is narrowing the list.
func (s *Sidebar) IsFiltered() bool {
	return s.filtered != nil
}

func (s *Sidebar) applyFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		s.filtered = nil
		s.clampSelection()
		return
	}
	s.filtered = []session.Entry{}
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Title), query) {
			s.filtered = append(s.filtered, e)
		}
	}
	s.selectedIdx = 0
	s.scrollOffset = 0
}

func (s *Sidebar) displayEntries() []session.Entry {
	if s.filtered != nil {
		return s.filtered
	}
	return s.entries
}

func (s *Sidebar) clampSelection() {
	n := len(s.displayEntries())
	if s.selectedIdx >= n {
		s.selectedIdx = n - 1
	}
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	switch msg := msg.(type) {
	case SidebarTickMsg:
		if !s.IsWaiting() {
			return s, nil
		}
		s.spinnerFrame = (s.spinnerFrame + 1) % len(sidebarSpinnerFrames)
		return s, SidebarTick()

	case tea.KeyPressMsg:
		if !s.focused {
			return s, nil
		}

		if s.searchMode {
			switch msg.String() {
			case keys.Escape:
				s.ExitSearchMode()
				return s, nil
			case keys.Enter:
				// Keep the filter, hand Enter back to navigation.
				s.searchMode = false
				s.searchInput.Blur()
				return s, nil
			case keys.Up:
				s.move(-1)
				return s, nil
			case keys.Down:
				s.move(1)
				return s, nil
			default:
				var cmd tea.Cmd
				s.searchInput, cmd = s.searchInput.Update(msg)
				s.applyFilter(s.searchInput.Value())
				return s, cmd
			}
		}

		switch msg.String() {
		case keys.Up, "k":
			s.move(-1)
		case keys.Down, "j":
			s.move(1)
		case keys.Home, "g":
			s.selectedIdx = 0
		case keys.End, "G":
			s.selectedIdx = max(0, len(s.displayEntries())-1)
		}
	}
	return s, nil
}

func (s *Sidebar) move(delta int) {
	n := len(s.displayEntries())
	next := s.selectedIdx + delta
	if next >= 0 && next < n {
		s.selectedIdx = next
	}
}

// formatAge renders how long ago a session was created.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// sidebarTitle flattens a title onto one line and fits it to width cells.
func sidebarTitle(title string, width int) string {
	title = strings.Join(strings.Fields(title), " ")
	return runewidth.Truncate(title, max(1, width), "…")
}

// View renders the sidebar
func (s *Sidebar) View() string {
	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := innerSize(s.width)
	innerHeight := innerSize(s.height)

	var lines []string
	lines = append(lines, PanelTitleStyle.Render("Recent chats"))

	if s.searchMode || s.filtered != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorSecondary).Render(s.searchInput.View()))
	}

	display := s.displayEntries()
	if len(display) == 0 {
		empty := EmptySidebarText
		if s.filtered != nil {
			empty = "No matching chats."
		}
		lines = append(lines, ChatNoticeStyle.Padding(0, 1).Render(empty))
		return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
	}

	// Keep the selection inside the visible window.
	visible := max(1, (innerHeight-len(lines))/sidebarItemHeight)
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+visible {
		s.scrollOffset = s.selectedIdx - visible + 1
	}

	// Item styles pad one cell each side; the marker takes two more.
	titleWidth := innerWidth - 4
	now := s.now()
	end := min(len(display), s.scrollOffset+visible)
	for i := s.scrollOffset; i < end; i++ {
		e := display[i]

		marker := "  "
		switch {
		case s.inFlight[e.ID]:
			marker = sidebarSpinnerFrames[s.spinnerFrame] + " "
		case e.Active:
			marker = "● "
		}

		itemStyle := SidebarItemStyle
		switch {
		case i == s.selectedIdx && s.focused:
			itemStyle = SidebarSelectedStyle
		case e.Active:
			itemStyle = SidebarActiveStyle
		}

		lines = append(lines,
			itemStyle.Width(innerWidth).Render(marker+sidebarTitle(e.Title, titleWidth)),
			"   "+SidebarTimeStyle.Render(formatAge(now.Sub(e.CreatedAt))),
		)
	}

	return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
}
