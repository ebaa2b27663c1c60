package modals

import (
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// helpKeyColumn is the width of the key column in the shortcut list.
const helpKeyColumn = 14

// shortcutItem wraps a HelpShortcut for use in a bubbles list.
type shortcutItem struct {
	shortcut HelpShortcut
}

func (i shortcutItem) FilterValue() string {
	return i.shortcut.Key + " " + i.shortcut.Desc
}

// sectionItem is a non-selectable section header.
type sectionItem struct {
	title string
}

func (i sectionItem) FilterValue() string { return "" }

type shortcutDelegate struct{}

func (d shortcutDelegate) Height() int                             { return 1 }
func (d shortcutDelegate) Spacing() int                            { return 0 }
func (d shortcutDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d shortcutDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	switch i := item.(type) {
	case sectionItem:
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(pal.Secondary).Render(i.title))

	case shortcutItem:
		keyStyle := lipgloss.NewStyle().Foreground(pal.Primary).Bold(true).Width(helpKeyColumn)
		descStyle := lipgloss.NewStyle().Foreground(pal.Text)
		prefix := "  "
		if index == m.Index() {
			keyStyle = keyStyle.Foreground(pal.Inverse).Background(pal.Primary)
			descStyle = descStyle.Foreground(pal.Inverse).Background(pal.Primary)
			prefix = "> "
		}
		fmt.Fprint(w, prefix+keyStyle.Render(i.shortcut.Key)+descStyle.Render(i.shortcut.Desc))
	}
}

// HelpState lists the keyboard shortcuts. Selecting one with Enter
// triggers it through HelpShortcutTriggeredMsg.
type HelpState struct {
	list list.Model
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	if s.list.SettingFilter() {
		return "Type to filter  Enter: apply  Esc: cancel"
	}
	return "/: filter  up/down: navigate  Enter: trigger  Esc: close"
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		pal.Title.Render(s.Title()),
		s.list.View(),
		pal.Help.Render(s.Help()),
	)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// SetSize fits the list between the title and the help line.
func (s *HelpState) SetSize(width, height int) {
	const chrome = 4
	s.list.SetSize(width, max(1, height-chrome))
}

// GetSelectedShortcut returns the selected shortcut, or nil when a
// section header is selected or the list is empty.
func (s *HelpState) GetSelectedShortcut() *HelpShortcut {
	if si, ok := s.list.SelectedItem().(shortcutItem); ok {
		return &si.shortcut
	}
	return nil
}

// IsFiltering returns whether the user is currently typing in the filter.
func (s *HelpState) IsFiltering() bool {
	return s.list.SettingFilter()
}

// NewHelpStateFromSections creates a HelpState from pre-built sections.
func NewHelpStateFromSections(sections []HelpSection) *HelpState {
	var items []list.Item
	for _, section := range sections {
		items = append(items, sectionItem{title: section.Title})
		for _, sc := range section.Shortcuts {
			items = append(items, shortcutItem{shortcut: sc})
		}
	}

	l := list.New(items, shortcutDelegate{}, pal.Width, pal.HelpMaxVisible)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(true)

	for i, item := range items {
		if _, ok := item.(shortcutItem); ok {
			l.Select(i)
			break
		}
	}

	return &HelpState{list: l}
}
