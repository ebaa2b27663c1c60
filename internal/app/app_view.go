package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
// This is useful for testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.modal.IsVisible() {
		return m.modal.View(m.width, m.height)
	}

	// Update footer context for conditional bindings
	m.updateFooterContext()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebar.View(),
		m.chat.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)
}

// updateFooterContext updates the footer with current context for conditional bindings
func (m *Model) updateFooterContext() {
	m.footer.SetContext(
		m.focus == FocusSidebar,
		m.chat.LastDraft() != "",
		m.controller.InFlight(m.controller.ActiveID()),
		m.sidebar.IsSearchMode(),
	)
}

// updateSizes lays the panels out for the current terminal size.
func (m *Model) updateSizes() {
	l := ui.ComputeLayout(m.width, m.height)
	logger.WithComponent("ui").Debug("terminal resized",
		"width", m.width,
		"height", m.height,
		"sidebarWidth", l.SidebarWidth,
		"chatWidth", l.ChatWidth,
	)

	m.header.SetWidth(l.Width)
	m.footer.SetWidth(l.Width)
	m.sidebar.SetSize(l.SidebarWidth, l.ContentHeight)
	m.chat.SetSize(l.ChatWidth, l.ContentHeight)
}
