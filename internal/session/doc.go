// Package session owns the client-side state of the chat: which session is
// active, which sessions have a chat request outstanding, and the one-time
// rename of a session's placeholder title.
//
// # Lifecycle
//
// A session is created by CreateNewChat (or on first launch when no prior
// session exists) with the title "New Chat". It becomes active when created or
// loaded, and the active pointer is persisted so a restart resumes it. After
// the first successful reply its title is replaced by the start of the user's
// first message. That rename happens at most once.
//
// # Tickets
//
// Every history fetch and chat request is issued with a Ticket naming the
// session it belongs to and the view generation it was issued in. The
// generation advances each time the chat pane is reset for a different
// session, so a result whose ticket is no longer current belongs to a view
// the user has already left and must not be rendered.
//
// # Sidebar
//
// RenderHistory lists the sessions created in the last 24 hours, newest
// first, marking the active one. Older sessions stay in storage but are not
// shown.
package session
