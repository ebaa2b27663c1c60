package session

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/errors"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/store"
)

// VisibleWindow is how long after creation a session stays in the sidebar.
const VisibleWindow = 24 * time.Hour

// maxIDAttempts bounds how often CreateNewChat re-draws a colliding id.
const maxIDAttempts = 8

// IDGenerator returns a new opaque session id.
type IDGenerator func() string

// NewUUID returns a random (version 4) UUID string.
func NewUUID() string {
	return uuid.NewString()
}

// Store is the persistence the controller needs. *store.Store satisfies it.
type Store interface {
	ListSessions() []store.Session
	GetSession(id string) *store.Session
	SaveSession(id, title string) bool
	RenameSession(id, newTitle string) bool
	ActiveSessionID() string
	SetActiveSessionID(id string)
}

// HistoryFetcher retrieves a session transcript. *backend.Client satisfies it.
type HistoryFetcher interface {
	History(ctx context.Context, sessionID string) ([]backend.Message, error)
}

// Ticket identifies the view a request was issued for.
type Ticket struct {
	SessionID  string
	Generation uint64
}

// Entry is one row of the sidebar.
type Entry struct {
	store.Session
	Active bool
}

// Controller holds the application's session state. It is not safe for
// concurrent use; all methods except FetchHistory must be called from the UI
// event loop.
type Controller struct {
	store   Store
	history HistoryFetcher
	newID   IDGenerator
	now     func() time.Time

	activeID   string
	generation uint64
	inFlight   map[string]bool
	firstMsg   map[string]string
}

// Option configures a Controller.
type Option func(*Controller)

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *Controller) { c.newID = gen }
}

// WithClock replaces the time source used for the 24 hour window.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller with no active session.
func NewController(st Store, history HistoryFetcher, opts ...Option) *Controller {
	c := &Controller{
		store:    st,
		history:  history,
		newID:    NewUUID,
		now:      time.Now,
		inFlight: make(map[string]bool),
		firstMsg: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ActiveID returns the active session id, or "" when none is active.
func (c *Controller) ActiveID() string {
	return c.activeID
}

// ActiveSession returns the stored record of the active session, or nil.
func (c *Controller) ActiveSession() *store.Session {
	if c.activeID == "" {
		return nil
	}
	return c.store.GetSession(c.activeID)
}

// Resume activates the persisted session if it still exists and has not aged
// out of the sidebar, otherwise it creates a new chat. resumed reports which
// happened.
func (c *Controller) Resume() (t Ticket, resumed bool) {
	log := logger.WithComponent("session")
	if id := c.store.ActiveSessionID(); id != "" {
		switch sess := c.store.GetSession(id); {
		case sess == nil:
			log.Warn("stored active session missing, starting a new chat", "sessionID", id)
		case !c.visible(*sess):
			log.Info("stored active session aged out, starting a new chat", "sessionID", id)
		default:
			if t, err := c.LoadSession(id); err == nil {
				return t, true
			}
		}
	}
	return c.CreateNewChat(), false
}

// CreateNewChat stores a fresh "New Chat" session and makes it active.
func (c *Controller) CreateNewChat() Ticket {
	id := c.uniqueID()
	c.store.SaveSession(id, store.DefaultTitle)
	logger.WithSession(id).Info("created new chat")
	return c.activate(id)
}

// LoadSession makes an existing session active. The returned ticket is used
// to tag the history fetch that repopulates the chat pane.
func (c *Controller) LoadSession(id string) (Ticket, error) {
	if c.store.GetSession(id) == nil {
		return Ticket{}, errors.SessionNotFound(id)
	}
	logger.WithSession(id).Info("loading session")
	return c.activate(id), nil
}

func (c *Controller) activate(id string) Ticket {
	c.activeID = id
	c.generation++
	c.store.SetActiveSessionID(id)
	return c.ticket()
}

// Current returns the ticket of the view now shown.
func (c *Controller) Current() Ticket {
	return c.ticket()
}

func (c *Controller) ticket() Ticket {
	return Ticket{SessionID: c.activeID, Generation: c.generation}
}

// uniqueID draws ids until one is not already stored.
func (c *Controller) uniqueID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := c.newID()
		if id != "" && c.store.GetSession(id) == nil {
			return id
		}
		logger.WithComponent("session").Warn("generated session id collides, retrying", "sessionID", id)
	}
	return NewUUID()
}

// IsCurrent reports whether a result tagged with t may still be rendered.
func (c *Controller) IsCurrent(t Ticket) bool {
	return t.SessionID == c.activeID && t.Generation == c.generation
}

// FetchHistory returns the transcript of a session. Failures are logged and
// yield an empty transcript. Safe to call from a tea.Cmd goroutine.
func (c *Controller) FetchHistory(ctx context.Context, id string) []backend.Message {
	msgs, err := c.history.History(ctx, id)
	if err != nil {
		logger.WithSession(id).Warn("failed to fetch history", "error", err)
		return []backend.Message{}
	}
	return msgs
}

// BeginRequest marks a chat request outstanding for the active session. It
// returns false, and no ticket, when one is already outstanding.
func (c *Controller) BeginRequest() (Ticket, bool) {
	if c.activeID == "" || c.inFlight[c.activeID] {
		return Ticket{}, false
	}
	c.inFlight[c.activeID] = true
	return c.ticket(), true
}

// EndRequest clears the outstanding request of t's session.
func (c *Controller) EndRequest(t Ticket) {
	delete(c.inFlight, t.SessionID)
}

// InFlight reports whether a chat request is outstanding for the session.
func (c *Controller) InFlight(id string) bool {
	return c.inFlight[id]
}

// RecordUserMessage remembers the first user message seen for a session,
// either from its history or from a send.
func (c *Controller) RecordUserMessage(id, content string) {
	if _, ok := c.firstMsg[id]; ok || content == "" {
		return
	}
	c.firstMsg[id] = content
}

// RecordHistory records the first user message of a fetched transcript.
func (c *Controller) RecordHistory(id string, msgs []backend.Message) {
	for _, m := range msgs {
		if m.IsUser() {
			c.RecordUserMessage(id, m.Content)
			return
		}
	}
}

// RenameOnFirstReply replaces the placeholder title of a session with the
// start of its first user message. It only acts while the title is still the
// default, so the rename happens at most once.
func (c *Controller) RenameOnFirstReply(id string) bool {
	sess := c.store.GetSession(id)
	if sess == nil || !sess.HasDefaultTitle() {
		return false
	}
	title := TitleFromMessage(c.firstMsg[id])
	if title == "" {
		return false
	}
	if !c.store.RenameSession(id, title) {
		return false
	}
	logger.WithSession(id).Info("renamed session", "title", title)
	return true
}

// RenderHistory returns the sidebar rows: sessions created within
// VisibleWindow of now, newest first. The active session is always listed,
// so one that ages out while shown keeps its highlight.
func (c *Controller) RenderHistory() []Entry {
	var entries []Entry
	for _, sess := range c.store.ListSessions() {
		if sess.ID != c.activeID && !c.visible(sess) {
			continue
		}
		entries = append(entries, Entry{Session: sess, Active: sess.ID == c.activeID})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

func (c *Controller) visible(sess store.Session) bool {
	return c.now().Sub(sess.CreatedAt) < VisibleWindow
}
