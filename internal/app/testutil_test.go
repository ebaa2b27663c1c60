package app

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/config"
	"github.com/rtiagent/rtichat/internal/keys"
	"github.com/rtiagent/rtichat/internal/logger"
	"github.com/rtiagent/rtichat/internal/store"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)
	code := m.Run()
	logger.Reset()
	os.Exit(code)
}

// fakeClient is a scripted backend.
type fakeClient struct {
	mu      sync.Mutex
	reply   *backend.ChatResponse
	err     error
	history map[string][]backend.Message
	sent    []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		reply:   &backend.ChatResponse{Reply: "The RTI Act was passed in **2005**."},
		history: make(map[string][]backend.Message),
	}
}

func (f *fakeClient) Chat(_ context.Context, sessionID, message string) (*backend.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sessionID+": "+message)
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeClient) History(_ context.Context, sessionID string) ([]backend.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[sessionID], nil
}

func (f *fakeClient) BaseURL() string { return "http://rti.test" }

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	return &config.Settings{
		BackendURL:     "http://rti.test",
		RequestTimeout: time.Minute,
		DataDir:        t.TempDir(),
		DownloadDir:    t.TempDir(),
		Theme:          config.DefaultTheme,
	}
}

// testModel creates an initialized model over an in-memory store. The
// clipboard and preference writes are stubbed out.
func testModel(t *testing.T, st *store.Store, client ChatClient, opts ...Option) *Model {
	t.Helper()
	base := []Option{
		WithClipboard(func(string) error { return nil }),
		WithPreferenceSaver(func(string, string, bool) error { return nil }),
		WithVersion("0.0.0-test"),
	}
	m := New(testSettings(t), st, client, append(base, opts...)...)
	m.Init()
	return m
}

// testModelWithSize creates a test Model and sets its size.
func testModelWithSize(t *testing.T, st *store.Store, client ChatClient, width, height int) *Model {
	t.Helper()
	m := testModel(t, st, client)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlS:
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	case keys.CtrlY:
		return tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}
	case keys.CtrlT:
		return tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}
	case keys.CtrlN:
		return tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	case keys.CtrlL:
		return tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl}
	case keys.CtrlSlash:
		return tea.KeyPressMsg{Code: '/', Mod: tea.ModCtrl}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the command.
func sendKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyPress(key))
	return cmd
}

// typeText simulates typing a string by sending individual character key presses.
func typeText(m *Model, text string) {
	for _, ch := range text {
		sendKey(m, string(ch))
	}
}

// send types text into the input and presses enter.
func send(t *testing.T, m *Model, text string) tea.Cmd {
	t.Helper()
	m.chat.SetInput(text)
	return sendKey(m, keys.Enter)
}

// batchedCmds unpacks a tea.Batch without running the commands inside it,
// so tick commands never sleep in tests.
func batchedCmds(t *testing.T, cmd tea.Cmd) []tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batch of commands")
	}
	return batch
}
