package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/rtiagent/rtichat/internal/keys"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/ui"
	"github.com/rtiagent/rtichat/internal/ui/modals"
)

// handleModalKey routes modal key events to the appropriate handler based on modal state type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *modals.SaveDraftState:
		return m.handleSaveDraftModal(key, msg, s)
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleHelpModal handles key events for the Help modal.
func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	// While filtering, forward all keys to the list (Esc cancels filter, Enter applies)
	if state.IsFiltering() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}

	switch key {
	case keys.Escape, "?", "q", keys.CtrlSlash:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		shortcut := state.GetSelectedShortcut()
		if shortcut == nil {
			return m, nil
		}
		m.modal.Hide()
		return m, func() tea.Msg {
			return modals.HelpShortcutTriggeredMsg{Key: shortcut.Key}
		}
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleHelpShortcutTrigger runs the shortcut picked in the help modal.
func (m *Model) handleHelpShortcutTrigger(displayKey string) (tea.Model, tea.Cmd) {
	key := registryKey(displayKey)
	if key == "" {
		return m, nil
	}
	result, cmd, _ := m.ExecuteShortcut(key)
	return result, cmd
}

// registryKey maps a key as shown in the help modal back to an executable
// key. Display-only entries map to "".
func registryKey(displayKey string) string {
	if displayKey == helpShortcut.Key {
		return helpShortcut.Key
	}
	for _, s := range ShortcutRegistry {
		if s.Key == displayKey || (s.DisplayKey != "" && s.DisplayKey == displayKey) {
			return s.Key
		}
	}
	return ""
}

// handleSettingsModal applies and persists the theme and notification choice.
func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if state.ThemeChanged() {
			ui.SetThemeByName(state.GetSelectedTheme())
			m.settings.Theme = state.GetSelectedTheme()
			m.chat.RefreshStyles()
		}
		m.settings.Notifications = state.GetNotificationsEnabled()

		if err := m.savePrefs(m.settings.DataDir, m.settings.Theme, m.settings.Notifications); err != nil {
			logger.WithComponent("config").Error("failed to save settings", "error", err)
			m.modal.SetError("Failed to save: " + err.Error())
			return m, nil
		}
		m.modal.Hide()
		return m, m.flash("Settings saved", ui.FlashSuccess)
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleSaveDraftModal writes the latest draft into the chosen directory.
func (m *Model) handleSaveDraftModal(key string, msg tea.KeyPressMsg, state *modals.SaveDraftState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if err := state.Validate(); err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		path, err := m.saveDraft(state.GetDir(), m.chat.LastDraft())
		if err != nil {
			logger.WithComponent("draft").Error("failed to save draft", "error", err)
			m.modal.SetError(err.Error())
			return m, nil
		}
		logger.WithSession(m.controller.ActiveID()).Info("saved RTI draft", "path", path)
		m.modal.Hide()
		return m, m.flash("Saved "+path, ui.FlashSuccess)
	}

	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}
