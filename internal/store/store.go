// Package store persists chat session metadata and the active-session pointer.
//
// The store is a thin view over a single JSON file. Every read goes back to
// the file so that it always reflects what is on disk, and every write is a
// read-modify-write followed by an atomic rename. Unreadable or corrupt files
// are treated as empty; failures are logged and never returned to callers.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rtiagent/rtichat/internal/errors"
	"github.com/rtiagent/rtichat/internal/logger"
)

// DefaultTitle is the placeholder title of a session that has not been renamed.
const DefaultTitle = "New Chat"

// Session is the locally tracked metadata of a conversation. Messages live on
// the backend and are never stored here.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"timestamp"`
}

// HasDefaultTitle reports whether the session still carries the placeholder title.
func (s Session) HasDefaultTitle() bool {
	return s.Title == DefaultTitle
}

// document is the on-disk layout.
type document struct {
	Sessions        []Session `json:"sessions"`
	ActiveSessionID string    `json:"active_session_id,omitempty"`
}

// Store reads and writes the session document.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time

	// mem backs the store when path is empty.
	mem document
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp new sessions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a store backed by the JSON file at path. The file is created on
// first write. An empty path keeps everything in memory.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewMemory returns a store that never touches the filesystem.
func NewMemory(opts ...Option) *Store {
	return New("", opts...)
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// ListSessions returns every stored session in stored order.
func (s *Store) ListSessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	sessions := make([]Session, len(doc.Sessions))
	copy(sessions, doc.Sessions)
	return sessions
}

// GetSession returns a copy of the session with the given id, or nil.
func (s *Store) GetSession(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	for i := range doc.Sessions {
		if doc.Sessions[i].ID == id {
			sess := doc.Sessions[i]
			return &sess
		}
	}
	return nil
}

// SaveSession inserts a session stamped with the current time. It is a no-op
// when a session with the same id already exists. Returns true if inserted.
func (s *Store) SaveSession(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	for _, sess := range doc.Sessions {
		if sess.ID == id {
			return false
		}
	}
	doc.Sessions = append(doc.Sessions, Session{ID: id, Title: title, CreatedAt: s.now()})
	s.save(doc)
	return true
}

// RenameSession updates a session's title in place. Unknown ids are ignored.
func (s *Store) RenameSession(id, newTitle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	for i := range doc.Sessions {
		if doc.Sessions[i].ID == id {
			doc.Sessions[i].Title = newTitle
			s.save(doc)
			return true
		}
	}
	return false
}

// ActiveSessionID returns the persisted active-session pointer.
func (s *Store) ActiveSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().ActiveSessionID
}

// SetActiveSessionID persists the active-session pointer.
func (s *Store) SetActiveSessionID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if doc.ActiveSessionID == id {
		return
	}
	doc.ActiveSessionID = id
	s.save(doc)
}

// Clear removes every session and the active pointer. Returns how many
// sessions were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	n := len(doc.Sessions)
	s.save(document{Sessions: []Session{}})
	return n
}

// load reads the document. Must be called with mu held.
func (s *Store) load() document {
	if s.path == "" {
		doc := document{
			Sessions:        make([]Session, len(s.mem.Sessions)),
			ActiveSessionID: s.mem.ActiveSessionID,
		}
		copy(doc.Sessions, s.mem.Sessions)
		return doc
	}

	log := logger.WithComponent("store")

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return document{Sessions: []Session{}}
	}
	if err != nil {
		log.Warn("session file unreadable, treating as empty", "error", errors.StoreLoadFailed(s.path, err))
		return document{Sessions: []Session{}}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn("session file corrupt, treating as empty", "error", errors.StoreLoadFailed(s.path, err))
		return document{Sessions: []Session{}}
	}
	doc.Sessions = sanitize(doc.Sessions)
	return doc
}

// save writes the document atomically. Must be called with mu held.
func (s *Store) save(doc document) {
	if s.path == "" {
		s.mem = doc
		return
	}

	if err := writeFileAtomic(s.path, doc); err != nil {
		logger.WithComponent("store").Warn("failed to persist sessions", "error", errors.StoreSaveFailed(s.path, err))
	}
}

func writeFileAtomic(path string, doc document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// sanitize drops records without an id and later duplicates of an id.
func sanitize(sessions []Session) []Session {
	seen := make(map[string]bool, len(sessions))
	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.ID == "" || seen[sess.ID] {
			continue
		}
		seen[sess.ID] = true
		out = append(out, sess)
	}
	return out
}
