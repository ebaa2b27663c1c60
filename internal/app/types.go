package app

import (
	"time"

	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/session"
)

// HistoryLoadedMsg carries the transcript fetched for a session. Since is
// the local message number current when the fetch was issued.
type HistoryLoadedMsg struct {
	Ticket   session.Ticket
	Since    uint64
	Messages []backend.Message
}

// ChatReplyMsg carries the outcome of a chat request. Exactly one of Reply
// and Err is set.
type ChatReplyMsg struct {
	Ticket  session.Ticket
	Message string // the user message that was sent
	Reply   *backend.ChatResponse
	Err     error
}

// NotificationSentMsg reports a desktop notification failure, if any.
type NotificationSentMsg struct {
	Err error
}

// SessionsRefreshMsg re-derives the sidebar so ages and the 24h window stay
// current while the app is open.
type SessionsRefreshMsg time.Time
