package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/notification"
	"github.com/rtiagent/rtichat/internal/session"
)

// fetchHistory loads the transcript of t's session off the event loop.
func (m *Model) fetchHistory(t session.Ticket) tea.Cmd {
	ctx := m.ctx
	controller := m.controller
	since := m.localSeq
	return func() tea.Msg {
		return HistoryLoadedMsg{
			Ticket:   t,
			Since:    since,
			Messages: controller.FetchHistory(ctx, t.SessionID),
		}
	}
}

// requestReply posts message for t's session off the event loop.
func (m *Model) requestReply(t session.Ticket, message string) tea.Cmd {
	ctx := m.ctx
	client := m.client
	return func() tea.Msg {
		log := logger.WithSession(t.SessionID)
		log.Debug("sending chat request", "length", len(message))
		reply, err := client.Chat(ctx, t.SessionID, message)
		if err != nil {
			log.Warn("chat request failed", "error", err)
			return ChatReplyMsg{Ticket: t, Message: message, Err: err}
		}
		log.Debug("chat reply received", "hasDraft", reply.HasDraft())
		return ChatReplyMsg{Ticket: t, Message: message, Reply: reply}
	}
}

// notifyReply sends a desktop notification for a reply that landed while
// the terminal was not focused.
func (m *Model) notifyReply(title, reply string, hasDraft bool) tea.Cmd {
	if !m.settings.Notifications || m.windowFocused {
		return nil
	}
	return func() tea.Msg {
		var err error
		if hasDraft {
			err = notification.DraftReady(title)
		} else {
			err = notification.ReplyReady(title, reply)
		}
		return NotificationSentMsg{Err: err}
	}
}
