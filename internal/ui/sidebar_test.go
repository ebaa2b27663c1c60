package ui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/rtiagent/rtichat/internal/session"
	"github.com/rtiagent/rtichat/internal/store"
)

var sidebarNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func entry(id, title string, age time.Duration, active bool) session.Entry {
	return session.Entry{
		Session: store.Session{ID: id, Title: title, CreatedAt: sidebarNow.Add(-age)},
		Active:  active,
	}
}

func newTestSidebar(entries ...session.Entry) *Sidebar {
	s := NewSidebar()
	s.now = func() time.Time { return sidebarNow }
	s.SetSize(30, 20)
	s.SetEntries(entries)
	return s
}

func TestSidebar_Empty(t *testing.T) {
	s := newTestSidebar()
	if s.SelectedID() != "" {
		t.Error("empty sidebar should have no selection")
	}
	if !strings.Contains(ansi.Strip(s.View()), EmptySidebarText) {
		t.Error("empty sidebar should show the placeholder")
	}
}

func TestSidebar_SelectionFollowsActive(t *testing.T) {
	s := newTestSidebar(
		entry("c", "Newest", time.Minute, false),
		entry("b", "Middle", time.Hour, true),
		entry("a", "Oldest", 2*time.Hour, false),
	)
	if got := s.SelectedID(); got != "b" {
		t.Errorf("SelectedID() = %q, want active session b", got)
	}
}

func TestSidebar_Navigation(t *testing.T) {
	s := newTestSidebar(
		entry("c", "Newest", time.Minute, true),
		entry("b", "Middle", time.Hour, false),
		entry("a", "Oldest", 2*time.Hour, false),
	)
	s.SetFocused(true)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if got := s.SelectedID(); got != "b" {
		t.Errorf("after down: %q, want b", got)
	}
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if got := s.SelectedID(); got != "a" {
		t.Errorf("down past the end should stop at the last entry, got %q", got)
	}
	s.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	if got := s.SelectedID(); got != "b" {
		t.Errorf("after k: %q, want b", got)
	}
}

func TestSidebar_IgnoresKeysWhenUnfocused(t *testing.T) {
	s := newTestSidebar(
		entry("b", "First", time.Minute, true),
		entry("a", "Second", time.Hour, false),
	)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.SelectedID() != "b" {
		t.Error("unfocused sidebar should not move")
	}
}

func TestSidebar_View(t *testing.T) {
	s := newTestSidebar(
		entry("b", "Fees for RTI", 5*time.Minute, true),
		entry("a", "Line one\nline two", 3*time.Hour, false),
	)
	view := ansi.Strip(s.View())

	for _, want := range []string{"Fees for RTI", "5m ago", "3h ago", "Line one line two", "●"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSidebar_Filter(t *testing.T) {
	s := newTestSidebar(
		entry("b", "Fees for RTI", time.Minute, true),
		entry("a", "Appeal process", time.Hour, false),
	)
	s.SetFocused(true)
	s.EnterSearchMode()

	for _, r := range "appeal" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if got := s.SelectedID(); got != "a" {
		t.Errorf("filtered selection = %q, want a", got)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.IsSearchMode() {
		t.Error("esc should leave search mode")
	}
	if len(s.displayEntries()) != 2 || s.IsFiltered() {
		t.Error("esc should clear the filter")
	}
}

func TestSidebar_EnterKeepsFilter(t *testing.T) {
	s := newTestSidebar(
		entry("b", "Fees for RTI", time.Minute, true),
		entry("a", "Appeal process", time.Hour, false),
	)
	s.SetFocused(true)
	s.EnterSearchMode()
	for _, r := range "fees" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.IsSearchMode() {
		t.Error("enter should leave search mode")
	}
	if !s.IsFiltered() || s.SelectedID() != "b" {
		t.Errorf("filter should stay applied, selected = %q", s.SelectedID())
	}
}

func TestSidebar_InFlightSpinner(t *testing.T) {
	s := newTestSidebar(entry("a", "Waiting", time.Minute, true))

	if _, cmd := s.Update(SidebarTickMsg(time.Now())); cmd != nil {
		t.Error("tick with nothing in flight should stop")
	}

	s.SetInFlight("a", true)
	if !s.IsWaiting() {
		t.Fatal("IsWaiting() should be true")
	}
	if _, cmd := s.Update(SidebarTickMsg(time.Now())); cmd == nil {
		t.Error("tick while waiting should reschedule")
	}

	s.SetInFlight("a", false)
	if s.IsWaiting() {
		t.Error("SetInFlight(false) should clear the marker")
	}
}

func TestSidebarTitle(t *testing.T) {
	if got := sidebarTitle("a\n\tb   c", 20); got != "a b c" {
		t.Errorf("sidebarTitle collapsed whitespace = %q", got)
	}
	if got := sidebarTitle("What is the process to file", 10); got != "What is t…" {
		t.Errorf("sidebarTitle truncated = %q", got)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{42 * time.Minute, "42m ago"},
		{23*time.Hour + 59*time.Minute, "23h ago"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
