package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/rtiagent/rtichat/internal/draft"
	"github.com/rtiagent/rtichat/internal/keys"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/ui"
	"github.com/rtiagent/rtichat/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key             string                              // The key binding (e.g., "/", "ctrl+n")
	DisplayKey      string                              // Display name in help; defaults to Key
	Description     string                              // Human-readable description
	Category        string                              // Section for help modal grouping
	RequiresDraft   bool                                // The thread must hold an RTI draft
	RequiresSidebar bool                                // Must not be in chat focus
	Handler         func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition       func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation = "Navigation"
	CategorySessions   = "Chats"
	CategoryDraft      = "RTI Draft"
	CategoryGeneral    = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategorySessions,
	CategoryDraft,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of all keyboard shortcuts.
// Add new shortcuts here and they will automatically appear in the help modal
// and be executable from both direct key presses and the help modal.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         keys.Tab,
		Description: "Switch between chats and input",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:             "/",
		Description:     "Filter chats by title",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         shortcutSearch,
	},

	// Chats
	{
		Key:         keys.CtrlN,
		Description: "Start a new chat",
		Category:    CategorySessions,
		Handler:     shortcutNewChat,
	},
	{
		Key:         keys.CtrlL,
		Description: "Reload this chat from the server",
		Category:    CategorySessions,
		Handler:     shortcutReload,
		Condition:   func(m *Model) bool { return !m.controller.InFlight(m.controller.ActiveID()) },
	},

	// RTI Draft
	{
		Key:           keys.CtrlS,
		Description:   "Download the latest draft",
		Category:      CategoryDraft,
		RequiresDraft: true,
		Handler:       shortcutSaveDraft,
	},
	{
		Key:           keys.CtrlY,
		Description:   "Copy the latest draft",
		Category:      CategoryDraft,
		RequiresDraft: true,
		Handler:       shortcutCopyDraft,
	},

	// General
	// Note: "?" (help) is handled specially in ExecuteShortcut to avoid init cycle
	{
		Key:         keys.CtrlT,
		Description: "Settings",
		Category:    CategoryGeneral,
		Handler:     shortcutSettings,
	},
	{
		Key:             "q",
		Description:     "Quit",
		Category:        CategoryGeneral,
		RequiresSidebar: true,
		Handler:         shortcutQuit,
	},
}

// helpShortcut is defined separately to avoid initialization cycle.
// It references ShortcutRegistry, so it can't be in the registry itself.
var helpShortcut = Shortcut{
	Key:             "?",
	Description:     "Show this help",
	Category:        CategoryGeneral,
	RequiresSidebar: true,
}

// DisplayOnlyShortcuts are shown in help but not executable from the help modal.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Move through chats", Category: CategoryNavigation},
	{DisplayKey: "pgup/pgdn", Description: "Scroll the conversation", Category: CategoryNavigation},
	{DisplayKey: "enter", Description: "Open chat / Send message", Category: CategoryNavigation},
	{DisplayKey: "shift+enter", Description: "New line in message", Category: CategoryNavigation},
	{DisplayKey: "esc", Description: "Back to chats / Clear filter", Category: CategoryNavigation},
	{DisplayKey: "ctrl+/", Description: "Show this help from anywhere", Category: CategoryGeneral},
	{DisplayKey: "ctrl+c", Description: "Quit from anywhere", Category: CategoryGeneral},
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.focus == FocusChat {
		return false
	}
	if s.RequiresDraft && m.chat.LastDraft() == "" {
		return false
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	// Let keys reach the filter input while it is open
	if m.sidebar.IsSearchMode() {
		return m, nil, false
	}

	// Help is defined outside the registry
	if key == "?" || key == keys.CtrlSlash {
		if key == "?" && !m.isShortcutApplicable(helpShortcut) {
			return m, nil, false
		}
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			logger.WithComponent("shortcuts").Debug("shortcut guard failed", "key", key, "focus", m.focus)
			return m, nil, false
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections generates help modal sections from shortcuts that are
// applicable in the current application state.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	for _, s := range registry {
		if !m.isShortcutApplicable(s) {
			continue
		}
		displayKey := s.DisplayKey
		if displayKey == "" {
			displayKey = s.Key
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey,
			Desc: s.Description,
		})
	}

	for _, s := range displayOnly {
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  s.DisplayKey,
			Desc: s.Description,
		})
	}

	var sections []modals.HelpSection
	for _, cat := range categoryOrder {
		if shortcuts := categories[cat]; len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{
				Title:     cat,
				Shortcuts: shortcuts,
			})
		}
	}
	return sections
}

// =============================================================================
// Shortcut Handlers
// =============================================================================

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutSearch(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.EnterSearchMode()
}

func shortcutNewChat(m *Model) (tea.Model, tea.Cmd) {
	return m, m.newChat()
}

func shortcutReload(m *Model) (tea.Model, tea.Cmd) {
	return m, m.reloadHistory()
}

func shortcutSaveDraft(m *Model) (tea.Model, tea.Cmd) {
	dir := m.settings.DownloadDir
	if dir == "" {
		dir = draft.DefaultDir()
	}
	m.modal.Show(modals.NewSaveDraftState(dir, draft.FileName, m.chat.LastDraft()))
	return m, nil
}

func shortcutCopyDraft(m *Model) (tea.Model, tea.Cmd) {
	if err := m.copyText(m.chat.LastDraft()); err != nil {
		logger.WithComponent("clipboard").Warn("copy draft failed", "error", err)
		return m, m.flash("Clipboard unavailable", ui.FlashError)
	}
	return m, m.flash("RTI draft copied to clipboard", ui.FlashSuccess)
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	names := ui.ThemeNames()
	themes := make([]string, len(names))
	labels := make([]string, len(names))
	for i, n := range names {
		themes[i] = string(n)
		labels[i] = ui.GetTheme(n).Name
	}
	m.modal.Show(modals.NewSettingsState(themes, labels, string(ui.CurrentThemeName()), m.settings.Notifications))
	return m, nil
}

// helpRegistry is the registry plus the help shortcut itself.
func helpRegistry() []Shortcut {
	return append(ShortcutRegistry[:len(ShortcutRegistry):len(ShortcutRegistry)], helpShortcut)
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	sections := m.getApplicableHelpSections(helpRegistry(), DisplayOnlyShortcuts)
	m.modal.Show(modals.NewHelpStateFromSections(sections))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, m.quit()
}
