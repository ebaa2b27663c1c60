package app

import (
	"testing"
	"time"

	"github.com/rtiagent/rtichat/internal/keys"
	"github.com/rtiagent/rtichat/internal/session"
	"github.com/rtiagent/rtichat/internal/store"
)

func TestShortcutRegistry_UniqueKeys(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range ShortcutRegistry {
		if seen[s.Key] {
			t.Errorf("duplicate shortcut key %q", s.Key)
		}
		seen[s.Key] = true
		if s.Handler == nil {
			t.Errorf("shortcut %q has no handler", s.Key)
		}
		if s.Description == "" {
			t.Errorf("shortcut %q has no description", s.Key)
		}
	}
	if seen[helpShortcut.Key] {
		t.Error("help must stay outside the registry")
	}
}

func TestTabTogglesFocus(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())
	if m.focus != FocusChat {
		t.Fatal("chat input should start focused")
	}

	sendKey(m, keys.Tab)
	if m.focus != FocusSidebar || !m.sidebar.IsFocused() || m.chat.IsFocused() {
		t.Error("tab should focus the sidebar")
	}
	sendKey(m, keys.Tab)
	if m.focus != FocusChat {
		t.Error("tab should focus the chat again")
	}
}

func TestEscapeLeavesInput(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())

	sendKey(m, keys.Escape)
	if m.focus != FocusSidebar {
		t.Error("esc in the input should focus the session list")
	}
}

func TestSidebarKeysAreGuarded(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())

	// In the input, q and / are text.
	typeText(m, "q/")
	if m.chat.GetInput() != "q/" {
		t.Errorf("input = %q, want q/", m.chat.GetInput())
	}
	if m.sidebar.IsSearchMode() {
		t.Error("/ in the input should not open the filter")
	}

	sendKey(m, keys.Tab)
	sendKey(m, "/")
	if !m.sidebar.IsSearchMode() {
		t.Error("/ in the sidebar should open the filter")
	}
}

func TestSidebarEnterOpensSession(t *testing.T) {
	clock := time.Now()
	st := store.NewMemory(store.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	client := newFakeClient()
	m := testModel(t, st, client, WithControllerOptions(session.WithClock(func() time.Time { return clock })))
	first := m.controller.ActiveID()
	sendKey(m, keys.CtrlN)
	second := m.controller.ActiveID()

	sendKey(m, keys.Tab)
	if m.sidebar.SelectedID() != second {
		t.Fatalf("selection = %q, want the active session", m.sidebar.SelectedID())
	}
	sendKey(m, keys.Down)
	if m.sidebar.SelectedID() != first {
		t.Fatalf("selection = %q, want the older session", m.sidebar.SelectedID())
	}

	cmd := sendKey(m, keys.Enter)
	if m.controller.ActiveID() != first {
		t.Errorf("active = %q, want %q", m.controller.ActiveID(), first)
	}
	if m.focus != FocusChat {
		t.Error("opening a session should focus the input")
	}
	if cmd == nil {
		t.Fatal("opening a session should fetch its history")
	}
	if _, ok := cmd().(HistoryLoadedMsg); !ok {
		t.Error("expected a history fetch")
	}

	var active int
	for _, e := range m.sidebar.Entries() {
		if e.Active {
			active++
			if e.ID != first {
				t.Errorf("sidebar highlights %q, want %q", e.ID, first)
			}
		}
	}
	if active != 1 {
		t.Errorf("%d highlighted entries, want 1", active)
	}
}

func TestSidebarFilterKeepsKeysFromShortcuts(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())
	sendKey(m, keys.Tab)
	sendKey(m, "/")

	sendKey(m, "q")
	if m.ctx.Err() != nil {
		t.Fatal("q in the filter must not quit")
	}

	// Enter keeps the filter, esc afterwards clears it.
	sendKey(m, keys.Enter)
	if m.sidebar.IsSearchMode() || !m.sidebar.IsFiltered() {
		t.Fatal("enter should keep the filter")
	}
	sendKey(m, keys.Escape)
	if m.sidebar.IsFiltered() {
		t.Error("esc should clear the kept filter")
	}
}

func TestHelpSections_FollowFocus(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())

	has := func(key string) bool {
		for _, sec := range m.getApplicableHelpSections(helpRegistry(), nil) {
			for _, s := range sec.Shortcuts {
				if s.Key == key {
					return true
				}
			}
		}
		return false
	}

	if has("q") || has("/") {
		t.Error("sidebar-only shortcuts should be hidden while typing")
	}
	if has(keys.CtrlS) {
		t.Error("draft shortcuts should be hidden without a draft")
	}
	if !has(keys.CtrlN) {
		t.Error("ctrl+n should always be listed")
	}

	m.setFocus(FocusSidebar)
	if !has("q") || !has("?") {
		t.Error("sidebar shortcuts should be listed when the sidebar is focused")
	}
}
