package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/clipboard"
	"github.com/rtiagent/rtichat/internal/config"
	"github.com/rtiagent/rtichat/internal/draft"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/session"
	"github.com/rtiagent/rtichat/internal/ui"
)

// SessionsRefreshInterval is how often the sidebar is re-derived from the
// store while the app is open.
const SessionsRefreshInterval = time.Minute

// Focus represents which panel has focus
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// ChatClient is the backend the app talks to. *backend.Client satisfies it.
type ChatClient interface {
	Chat(ctx context.Context, sessionID, message string) (*backend.ChatResponse, error)
	History(ctx context.Context, sessionID string) ([]backend.Message, error)
	BaseURL() string
}

// Model is the main application model
type Model struct {
	settings   *config.Settings
	client     ChatClient
	controller *session.Controller

	controllerOpts []session.Option

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	width         int
	height        int
	focus         Focus
	windowFocused bool
	refreshing    bool // the sessions refresh tick is running

	// local holds thread entries shown before the backend transcript had
	// them. localSeq numbers them; a history fetch remembers the number it
	// was issued at.
	local    []localMessage
	localSeq uint64

	// ctx is cancelled on quit so outstanding requests stop.
	ctx    context.Context
	cancel context.CancelFunc

	copyText  func(string) error
	saveDraft func(dir, text string) (string, error)
	savePrefs func(dataDir, theme string, notifications bool) error

	version string
}

// Option configures a Model.
type Option func(*Model)

// WithControllerOptions passes options through to the session controller.
func WithControllerOptions(opts ...session.Option) Option {
	return func(m *Model) { m.controllerOpts = append(m.controllerOpts, opts...) }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copyText = write }
}

// WithDraftSaver replaces the function that writes the draft file.
func WithDraftSaver(save func(dir, text string) (string, error)) Option {
	return func(m *Model) { m.saveDraft = save }
}

// WithPreferenceSaver replaces the function that persists settings changed
// from the settings modal.
func WithPreferenceSaver(save func(dataDir, theme string, notifications bool) error) Option {
	return func(m *Model) { m.savePrefs = save }
}

// WithVersion sets the build version reported in the log.
func WithVersion(version string) Option {
	return func(m *Model) { m.version = version }
}

// New creates a new app model. The theme named in settings is applied
// before any component renders.
func New(settings *config.Settings, st session.Store, client ChatClient, opts ...Option) *Model {
	ui.SetThemeByName(settings.Theme)

	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		settings:      settings,
		client:        client,
		header:        ui.NewHeader(),
		footer:        ui.NewFooter(),
		sidebar:       ui.NewSidebar(),
		chat:          ui.NewChat(),
		modal:         ui.NewModal(),
		focus:         FocusChat,
		windowFocused: true,
		ctx:           ctx,
		cancel:        cancel,
		copyText:      clipboard.WriteText,
		saveDraft:     draft.Save,
		savePrefs:     config.SavePreferences,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.controller = session.NewController(st, client, m.controllerOpts...)

	m.chat.SetFocused(true)
	m.header.SetBackendURL(client.BaseURL())
	return m
}

// Init resumes the last active session, or starts a new chat when there is
// none, and loads its history.
func (m *Model) Init() tea.Cmd {
	logger.WithComponent("app").Info("starting", "version", m.version, "backend", m.client.BaseURL())

	t, resumed := m.controller.Resume()
	m.showSession(t)
	if !resumed {
		return nil
	}
	return m.fetchHistory(t)
}

// Controller returns the session controller.
func (m *Model) Controller() *session.Controller {
	return m.controller
}

// showSession resets the chat pane for the session named by t and refreshes
// the header and sidebar around it.
func (m *Model) showSession(t session.Ticket) {
	logger.WithSession(t.SessionID).Debug("showing session", "generation", t.Generation)
	m.chat.Reset()
	m.chat.AddWelcome()
	m.local = nil
	m.refreshSessionViews()
}

// refreshSessionViews re-renders everything derived from the session list.
func (m *Model) refreshSessionViews() {
	m.sidebar.SetEntries(m.controller.RenderHistory())
	if sess := m.controller.ActiveSession(); sess != nil {
		m.header.SetSessionTitle(sess.Title)
	} else {
		m.header.SetSessionTitle("")
	}
}

func sessionsRefreshTick() tea.Cmd {
	return tea.Tick(SessionsRefreshInterval, func(t time.Time) tea.Msg {
		return SessionsRefreshMsg(t)
	})
}

// newChat starts a fresh session and moves focus to the input.
func (m *Model) newChat() tea.Cmd {
	t := m.controller.CreateNewChat()
	m.showSession(t)
	m.setFocus(FocusChat)
	return nil
}

// openSession makes id the active session and loads its history.
func (m *Model) openSession(id string) tea.Cmd {
	if id == "" {
		return nil
	}
	if id == m.controller.ActiveID() {
		m.setFocus(FocusChat)
		return nil
	}
	t, err := m.controller.LoadSession(id)
	if err != nil {
		logger.WithSession(id).Warn("cannot open session", "error", err)
		return m.flash("Session not found", ui.FlashError)
	}
	m.showSession(t)
	m.setFocus(FocusChat)
	return m.fetchHistory(t)
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusChat)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusChat)
	} else {
		m.setFocus(FocusSidebar)
	}
}

// quit cancels outstanding requests and stops the program.
func (m *Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}
