package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/rtiagent/rtichat/internal/errors"
	"github.com/rtiagent/rtichat/internal/keys"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/ui"
	"github.com/rtiagent/rtichat/internal/ui/modals"
)

// WaitingForReplyText is flashed when a send is refused because the active
// session already has a request outstanding.
const WaitingForReplyText = "Waiting for reply..."

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, sessionsRefreshTick())
		}

	case tea.FocusMsg:
		m.windowFocused = true

	case tea.BlurMsg:
		m.windowFocused = false

	case tea.KeyPressMsg:
		if result, cmd := m.handleKeyPress(msg); result != nil {
			return result, cmd
		}
		// Key not handled by handleKeyPress, let it fall through to focused panel

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case ChatReplyMsg:
		return m.handleChatReply(msg)

	case NotificationSentMsg:
		if msg.Err != nil {
			logger.WithComponent("notification").Warn("desktop notification failed", "error", msg.Err)
		}
		return m, nil

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)

	case SessionsRefreshMsg:
		m.refreshSessionViews()
		return m, sessionsRefreshTick()

	case ui.FlashTickMsg:
		m.footer.ClearIfExpired()
		return m, nil
	}

	// Handle tick messages - both panels need these regardless of focus
	if cmd, handled := m.handleTickMessages(msg); handled {
		return m, cmd
	}

	if m.modal.IsVisible() {
		modal, cmd := m.modal.Update(msg)
		m.modal = modal
		return m, cmd
	}

	// Mouse wheel always scrolls the thread.
	if _, ok := msg.(tea.MouseWheelMsg); ok {
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return m, cmd
	}

	// Update focused panel for other messages
	if m.focus == FocusSidebar {
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		cmds = append(cmds, cmd)
	} else {
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTickMessages(msg tea.Msg) (tea.Cmd, bool) {
	switch msg.(type) {
	case ui.StopwatchTickMsg:
		chat, cmd := m.chat.Update(msg)
		m.chat = chat
		return cmd, true
	case ui.SidebarTickMsg:
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return cmd, true
	}
	return nil, false
}

// handleKeyPress handles all keyboard input.
// Returns (model, cmd) if the key was handled, or (nil, nil) if it should fall through
// to the focused panel for handling.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Handle modal first if visible
	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	// ctrl+c always quits
	if key == keys.CtrlC {
		return m, m.quit()
	}

	// The search input owns every key while it is open, Esc and Enter included.
	if m.sidebar.IsSearchMode() {
		return nil, nil
	}

	if key == keys.Escape {
		if result, cmd, handled := m.handleEscapeKey(); handled {
			return result, cmd
		}
	}

	// Try executing from shortcut registry
	if result, cmd, handled := m.ExecuteShortcut(key); handled {
		return result, cmd
	}

	if key == keys.Enter {
		return m.handleEnterKey()
	}

	return nil, nil
}

// handleEscapeKey clears a kept sidebar filter, or leaves the input for the
// session list.
func (m *Model) handleEscapeKey() (tea.Model, tea.Cmd, bool) {
	if m.focus == FocusSidebar && m.sidebar.IsFiltered() {
		m.sidebar.ExitSearchMode()
		return m, nil, true
	}
	if m.focus == FocusChat {
		m.setFocus(FocusSidebar)
		return m, nil, true
	}
	return m, nil, false
}

// handleEnterKey opens the highlighted session from the sidebar, or sends the
// input from the chat pane.
func (m *Model) handleEnterKey() (tea.Model, tea.Cmd) {
	if m.focus == FocusSidebar {
		return m, m.openSession(m.sidebar.SelectedID())
	}
	return m.sendMessage()
}

// sendMessage posts the input to the backend for the active session.
func (m *Model) sendMessage() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.chat.GetInput())
	if input == "" {
		return m, nil
	}
	if m.controller.ActiveID() == "" {
		m.newChat()
	}

	t, ok := m.controller.BeginRequest()
	if !ok {
		return m, m.flash(WaitingForReplyText, ui.FlashWarning)
	}
	logger.WithSession(t.SessionID).Info("sending message", "length", len(input))

	m.controller.RecordUserMessage(t.SessionID, input)
	m.showLocal(ui.ChatMessage{Kind: ui.KindUser, Content: input})
	m.chat.ClearInput()
	m.sidebar.SetInFlight(t.SessionID, true)

	cmds := []tea.Cmd{m.requestReply(t, input), ui.SidebarTick()}
	if m.chat.AppendLoading() {
		cmds = append(cmds, ui.StopwatchTick())
	}
	return m, tea.Batch(cmds...)
}

// handleChatReply renders a reply, or the failure bubble, when the view it
// was issued for is still shown.
func (m *Model) handleChatReply(msg ChatReplyMsg) (tea.Model, tea.Cmd) {
	id := msg.Ticket.SessionID
	log := logger.WithSession(id)

	m.controller.EndRequest(msg.Ticket)
	m.sidebar.SetInFlight(id, false)

	// The backend recorded the exchange even if the view has moved on.
	if msg.Err == nil && m.controller.RenameOnFirstReply(id) {
		m.refreshSessionViews()
	}

	if !m.controller.IsCurrent(msg.Ticket) {
		log.Info("discarding reply for a view no longer shown", "generation", msg.Ticket.Generation)
		if id == m.controller.ActiveID() {
			// The user came back to this session while waiting; reload so
			// the exchange shows up.
			return m, m.fetchHistory(m.controller.Current())
		}
		return m, nil
	}

	m.chat.RemoveLoading()

	if msg.Err != nil {
		text := ui.ConnectionErrorMessage
		if errors.Is(msg.Err, errors.KindRejected) {
			text = ui.FailureMessage
		}
		m.showLocal(ui.ChatMessage{Kind: ui.KindError, Content: text})
		return m, nil
	}

	reply := msg.Reply
	m.showLocal(ui.ChatMessage{Kind: ui.KindAssistant, Content: reply.Reply, Draft: reply.RTIDraft})

	var cmds []tea.Cmd
	if reply.HasDraft() {
		cmds = append(cmds, m.flash("RTI draft ready: ctrl+s to download, ctrl+y to copy", ui.FlashSuccess))
	}
	cmds = append(cmds, m.notifyReply(m.header.SessionTitle(), reply.Reply, reply.HasDraft()))
	return m, tea.Batch(cmds...)
}

// handleHistoryLoaded replaces the thread with the fetched transcript.
// Entries shown locally after the fetch was issued are kept after it, unless
// the transcript already ends with them.
func (m *Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	id := msg.Ticket.SessionID
	m.controller.RecordHistory(id, msg.Messages)

	if !m.controller.IsCurrent(msg.Ticket) {
		logger.WithSession(id).Debug("discarding history for a view no longer shown")
		return m, nil
	}

	pending := m.local[:0:0]
	for _, lm := range m.local {
		if lm.seq > msg.Since {
			pending = append(pending, lm)
		}
	}
	pending = pending[deliveredPrefix(msg.Messages, pending):]
	m.local = pending

	m.chat.SetHistory(msg.Messages)
	if len(pending) > 0 {
		kept := make([]ui.ChatMessage, len(pending))
		for i, lm := range pending {
			kept[i] = lm.msg
		}
		m.chat.AppendMessages(kept)
	}

	var cmd tea.Cmd
	if m.controller.InFlight(id) && m.chat.AppendLoading() {
		cmd = ui.StopwatchTick()
	}
	m.refreshSessionViews()
	return m, cmd
}

// reloadHistory re-fetches the transcript of the active session.
func (m *Model) reloadHistory() tea.Cmd {
	if m.controller.ActiveID() == "" {
		return nil
	}
	return tea.Batch(
		m.fetchHistory(m.controller.Current()),
		m.flash("Reloading chat...", ui.FlashInfo),
	)
}
