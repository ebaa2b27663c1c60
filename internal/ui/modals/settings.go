package modals

import (
	"slices"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

const optionNotifications = "notifications"

// SettingsState edits the theme and the desktop notification toggle.
type SettingsState struct {
	selectedTheme string
	OriginalTheme string
	options       []string

	form *huh.Form
}

func (*SettingsState) modalState() {}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		pal.Title.Render(s.Title()),
		s.form.View(),
		pal.Help.Render(s.Help()),
	)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// GetSelectedTheme returns the selected theme key.
func (s *SettingsState) GetSelectedTheme() string {
	return s.selectedTheme
}

// ThemeChanged returns true if the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.OriginalTheme
}

// GetNotificationsEnabled returns whether notifications are enabled
func (s *SettingsState) GetNotificationsEnabled() bool {
	return slices.Contains(s.options, optionNotifications)
}

// NewSettingsState builds the form. themes and displayNames are parallel.
func NewSettingsState(themes, displayNames []string, currentTheme string, notificationsEnabled bool) *SettingsState {
	s := &SettingsState{
		selectedTheme: currentTheme,
		OriginalTheme: currentTheme,
	}
	if notificationsEnabled {
		s.options = []string{optionNotifications}
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i := range themes {
		themeOptions[i] = huh.NewOption(displayNames[i], themes[i])
	}

	s.form = newForm(pal.Width-6,
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&s.selectedTheme),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(huh.NewOption("Notify when a reply arrives in the background", optionNotifications).
				Selected(notificationsEnabled)).
			Height(1).
			Value(&s.options),
	)
	return s
}
