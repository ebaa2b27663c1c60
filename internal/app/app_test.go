package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/errors"
	"github.com/rtiagent/rtichat/internal/keys"
	"github.com/rtiagent/rtichat/internal/session"
	"github.com/rtiagent/rtichat/internal/store"
	"github.com/rtiagent/rtichat/internal/ui"
)

func TestInit_StartsNewChatWhenNoneStored(t *testing.T) {
	st := store.NewMemory()
	m := New(testSettings(t), st, newFakeClient())

	if cmd := m.Init(); cmd != nil {
		t.Error("a new chat has no history to fetch")
	}

	id := m.controller.ActiveID()
	if id == "" {
		t.Fatal("Init should leave a session active")
	}
	if st.ActiveSessionID() != id {
		t.Errorf("persisted active id = %q, want %q", st.ActiveSessionID(), id)
	}

	msgs := m.chat.Messages()
	if len(msgs) != 1 || msgs[0].Kind != ui.KindWelcome {
		t.Errorf("thread = %+v, want only the welcome message", msgs)
	}
	if m.header.SessionTitle() != store.DefaultTitle {
		t.Errorf("header title = %q, want %q", m.header.SessionTitle(), store.DefaultTitle)
	}
	if len(m.sidebar.Entries()) != 1 {
		t.Errorf("sidebar has %d entries, want 1", len(m.sidebar.Entries()))
	}
}

func TestInit_ResumesStoredSession(t *testing.T) {
	st := store.NewMemory()
	st.SaveSession("s1", "Fees for RTI")
	st.SetActiveSessionID("s1")

	client := newFakeClient()
	client.history["s1"] = []backend.Message{
		{Role: backend.RoleUser, Content: "What is the fee?"},
		{Role: backend.RoleAssistant, Content: "Rs. 10."},
	}
	m := New(testSettings(t), st, client)

	cmd := m.Init()
	if m.controller.ActiveID() != "s1" {
		t.Fatalf("active = %q, want s1", m.controller.ActiveID())
	}
	if cmd == nil {
		t.Fatal("resuming should fetch history")
	}
	m.Update(cmd())

	msgs := m.chat.Messages()
	if len(msgs) != 3 {
		t.Fatalf("thread has %d messages, want welcome plus 2", len(msgs))
	}
	if msgs[1].Kind != ui.KindUser || msgs[2].Kind != ui.KindAssistant {
		t.Errorf("history rendered out of order: %+v", msgs)
	}
}

func TestInit_StaleStoredSessionStartsNewChat(t *testing.T) {
	st := store.NewMemory(store.WithClock(func() time.Time { return time.Now().Add(-25 * time.Hour) }))
	st.SaveSession("old", "Fees for RTI")
	st.SetActiveSessionID("old")

	m := New(testSettings(t), st, newFakeClient())
	if cmd := m.Init(); cmd != nil {
		t.Error("a new chat has no history to fetch")
	}

	id := m.controller.ActiveID()
	if id == "old" {
		t.Fatal("a session past the sidebar window must not be resumed")
	}
	entries := m.sidebar.Entries()
	if len(entries) != 1 || entries[0].ID != id || !entries[0].Active {
		t.Errorf("sidebar entries = %+v, want the active new chat highlighted", entries)
	}
}

func TestSendMessage_EmptyInputIsNoop(t *testing.T) {
	client := newFakeClient()
	m := testModel(t, store.NewMemory(), client)

	for _, input := range []string{"", "   ", "\n\t"} {
		if cmd := send(t, m, input); cmd != nil {
			t.Errorf("send(%q) returned a command", input)
		}
	}
	if len(m.chat.Messages()) != 1 {
		t.Error("empty input should not add a bubble")
	}
	if m.chat.HasLoading() || m.controller.InFlight(m.controller.ActiveID()) {
		t.Error("empty input should not start a request")
	}
}

func TestSendMessage_ShowsBubbleAndLoading(t *testing.T) {
	client := newFakeClient()
	m := testModel(t, store.NewMemory(), client)

	cmds := batchedCmds(t, send(t, m, "  What is RTI?  "))

	msgs := m.chat.Messages()
	last := msgs[len(msgs)-1]
	if last.Kind != ui.KindUser || last.Content != "What is RTI?" {
		t.Errorf("last message = %+v, want the trimmed user text", last)
	}
	if m.chat.GetInput() != "" {
		t.Error("input should be cleared after sending")
	}
	if !m.chat.HasLoading() {
		t.Error("loading indicator should be shown")
	}
	if !m.controller.InFlight(m.controller.ActiveID()) {
		t.Error("request should be in flight")
	}

	reply, ok := cmds[0]().(ChatReplyMsg)
	if !ok {
		t.Fatal("first command should post the message")
	}
	if reply.Message != "What is RTI?" || reply.Ticket.SessionID != m.controller.ActiveID() {
		t.Errorf("request = %+v", reply)
	}
	if len(client.sent) != 1 {
		t.Errorf("client saw %d requests, want 1", len(client.sent))
	}
}

func TestSendMessage_RefusedWhileWaiting(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())
	send(t, m, "first question")

	m.chat.SetInput("second question")
	sendKey(m, keys.Enter)

	if m.chat.GetInput() != "second question" {
		t.Error("refused send should keep the input")
	}
	if m.footer.FlashText() != WaitingForReplyText {
		t.Errorf("flash = %q, want %q", m.footer.FlashText(), WaitingForReplyText)
	}
	users := 0
	for _, msg := range m.chat.Messages() {
		if msg.Kind == ui.KindUser {
			users++
		}
	}
	if users != 1 {
		t.Errorf("got %d user bubbles, want 1", users)
	}
}

func TestChatReply_SuccessRendersAndRenames(t *testing.T) {
	st := store.NewMemory()
	m := testModel(t, st, newFakeClient())
	id := m.controller.ActiveID()

	cmds := batchedCmds(t, send(t, m, "How do I file an RTI application online?"))
	m.Update(cmds[0]())

	if m.chat.HasLoading() {
		t.Error("loading should be removed")
	}
	msgs := m.chat.Messages()
	if last := msgs[len(msgs)-1]; last.Kind != ui.KindAssistant {
		t.Errorf("last message = %+v, want the reply", last)
	}
	if m.controller.InFlight(id) {
		t.Error("request should be finished")
	}

	want := "How do I file an RTI applicati..."
	if got := st.GetSession(id).Title; got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
	if m.header.SessionTitle() != want {
		t.Errorf("header = %q, want %q", m.header.SessionTitle(), want)
	}

	// A second reply never renames again.
	cmds = batchedCmds(t, send(t, m, "Another question"))
	m.Update(cmds[0]())
	if got := st.GetSession(id).Title; got != want {
		t.Errorf("title after second reply = %q, want %q", got, want)
	}
}

func TestChatReply_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rejected",
			err:  errors.RequestRejected("backend.Chat", "http://rti.test/chat", 500),
			want: ui.FailureMessage,
		},
		{
			name: "transport",
			err:  errors.RequestFailed("backend.Chat", "http://rti.test/chat", errors.E("connection refused")),
			want: ui.ConnectionErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			client := newFakeClient()
			client.err = tt.err
			m := testModel(t, st, client)
			id := m.controller.ActiveID()

			cmds := batchedCmds(t, send(t, m, "What is RTI?"))
			m.Update(cmds[0]())

			if m.chat.HasLoading() {
				t.Error("loading should be removed")
			}
			msgs := m.chat.Messages()
			last := msgs[len(msgs)-1]
			if last.Kind != ui.KindError || last.Content != tt.want {
				t.Errorf("last message = %+v, want error %q", last, tt.want)
			}
			if m.chat.LastDraft() != "" {
				t.Error("a failure must not offer a draft")
			}
			if st.GetSession(id).Title != store.DefaultTitle {
				t.Error("a failed request must not rename the session")
			}
			if m.controller.InFlight(id) {
				t.Error("request should be finished")
			}
		})
	}
}

func TestChatReply_StaleReplyIsDiscarded(t *testing.T) {
	st := store.NewMemory()
	m := testModel(t, st, newFakeClient())
	first := m.controller.ActiveID()

	cmds := batchedCmds(t, send(t, m, "Question for the first chat"))
	reply := cmds[0]()

	sendKey(m, keys.CtrlN)
	if m.controller.ActiveID() == first {
		t.Fatal("ctrl+n should start a new chat")
	}

	_, cmd := m.Update(reply)
	if cmd != nil {
		t.Error("a reply for another session should not trigger anything")
	}
	if len(m.chat.Messages()) != 1 {
		t.Errorf("new chat thread = %+v, want only the welcome", m.chat.Messages())
	}
	if m.controller.InFlight(first) {
		t.Error("the first session's request should be finished")
	}
	if st.GetSession(first).HasDefaultTitle() {
		t.Error("a discarded reply still renames its own session")
	}
}

func TestChatReply_ReturningToSessionReloadsIt(t *testing.T) {
	st := store.NewMemory()
	client := newFakeClient()
	m := testModel(t, st, client)
	first := m.controller.ActiveID()

	cmds := batchedCmds(t, send(t, m, "Question"))
	reply := cmds[0]()

	sendKey(m, keys.CtrlN)
	if cmd := m.openSession(first); cmd == nil {
		t.Fatal("opening a session should fetch its history")
	}

	client.history[first] = []backend.Message{
		{Role: backend.RoleUser, Content: "Question"},
		{Role: backend.RoleAssistant, Content: "Answer"},
	}
	_, cmd := m.Update(reply)
	if cmd == nil {
		t.Fatal("a reply for an earlier view of the active session should reload it")
	}
	m.Update(cmd())

	msgs := m.chat.Messages()
	if len(msgs) != 3 || msgs[2].Content != "Answer" {
		t.Errorf("thread = %+v, want the reloaded exchange", msgs)
	}
	if m.chat.HasLoading() {
		t.Error("loading should be gone once the reply has landed")
	}
}

func TestChatReply_Draft(t *testing.T) {
	client := newFakeClient()
	client.reply = &backend.ChatResponse{
		Reply:    "Here is your draft.",
		RTIDraft: "To,\nThe Public Information Officer\n\tSubject: ration cards\n",
	}
	m := testModel(t, store.NewMemory(), client)

	cmds := batchedCmds(t, send(t, m, "draft an RTI"))
	m.Update(cmds[0]())

	if m.chat.LastDraft() != client.reply.RTIDraft {
		t.Errorf("LastDraft() = %q", m.chat.LastDraft())
	}
	if !strings.Contains(m.footer.FlashText(), "ctrl+s") {
		t.Errorf("flash = %q, want the download hint", m.footer.FlashText())
	}
}

func TestHistoryLoaded_KeepsMessagesSentMeanwhile(t *testing.T) {
	st := store.NewMemory()
	st.SaveSession("s1", "Old chat")
	st.SetActiveSessionID("s1")
	client := newFakeClient()
	client.history["s1"] = []backend.Message{
		{Role: backend.RoleUser, Content: "earlier"},
		{Role: backend.RoleAssistant, Content: "earlier answer"},
	}
	m := New(testSettings(t), st, client)
	fetch := m.Init()

	send(t, m, "typed before history arrived")
	m.Update(fetch())

	msgs := m.chat.Messages()
	if len(msgs) != 4 {
		t.Fatalf("thread has %d messages, want 4: %+v", len(msgs), msgs)
	}
	if msgs[3].Content != "typed before history arrived" {
		t.Errorf("local message should follow the history, got %+v", msgs)
	}
	if !m.chat.HasLoading() {
		t.Error("loading should survive the history reload while waiting")
	}
}

func TestHistoryLoaded_StaleIsDiscarded(t *testing.T) {
	st := store.NewMemory()
	st.SaveSession("s1", "Old chat")
	st.SetActiveSessionID("s1")
	client := newFakeClient()
	client.history["s1"] = []backend.Message{{Role: backend.RoleUser, Content: "old"}}
	m := New(testSettings(t), st, client)
	fetch := m.Init()

	sendKey(m, keys.CtrlN)
	m.Update(fetch())

	if len(m.chat.Messages()) != 1 {
		t.Errorf("history of a session left behind must not render: %+v", m.chat.Messages())
	}
}

func TestReloadHistory(t *testing.T) {
	st := store.NewMemory()
	client := newFakeClient()
	m := testModel(t, st, client)
	id := m.controller.ActiveID()
	client.history[id] = []backend.Message{
		{Role: backend.RoleUser, Content: "from another device"},
		{Role: backend.RoleAssistant, Content: "reply"},
	}

	cmds := batchedCmds(t, sendKey(m, keys.CtrlL))
	m.Update(cmds[0]())

	if got := len(m.chat.Messages()); got != 3 {
		t.Errorf("thread has %d messages after reload, want 3", got)
	}
}

func TestReloadHistory_KeepsMessageSentWhileReloading(t *testing.T) {
	st := store.NewMemory()
	st.SaveSession("s1", "Old chat")
	st.SetActiveSessionID("s1")
	client := newFakeClient()
	client.history["s1"] = []backend.Message{
		{Role: backend.RoleUser, Content: "earlier"},
		{Role: backend.RoleAssistant, Content: "earlier answer"},
	}
	m := New(testSettings(t), st, client)
	m.Update(m.Init()())

	reload := batchedCmds(t, sendKey(m, keys.CtrlL))[0]
	sent := batchedCmds(t, send(t, m, "typed while reload pending"))
	m.Update(reload())

	msgs := m.chat.Messages()
	if len(msgs) != 4 {
		t.Fatalf("thread has %d messages, want 4: %+v", len(msgs), msgs)
	}
	if msgs[3].Kind != ui.KindUser || msgs[3].Content != "typed while reload pending" {
		t.Errorf("the sent message must survive the reload, got %+v", msgs)
	}
	if !m.chat.HasLoading() {
		t.Error("loading should come back while the reply is outstanding")
	}

	m.Update(sent[0]())
	msgs = m.chat.Messages()
	if len(msgs) != 5 || msgs[3].Kind != ui.KindUser || msgs[4].Kind != ui.KindAssistant {
		t.Errorf("reply should follow its question, got %+v", msgs)
	}
}

func TestHistoryLoaded_SkipsExchangeAlreadyInTranscript(t *testing.T) {
	st := store.NewMemory()
	st.SaveSession("s1", "Old chat")
	st.SetActiveSessionID("s1")
	client := newFakeClient()
	client.history["s1"] = []backend.Message{
		{Role: backend.RoleUser, Content: "earlier"},
		{Role: backend.RoleAssistant, Content: "earlier answer"},
	}
	m := New(testSettings(t), st, client)
	fetch := m.Init()

	m.Update(batchedCmds(t, send(t, m, "asked meanwhile"))[0]())

	// The backend served the transcript after it had recorded the exchange.
	client.history["s1"] = append(client.history["s1"],
		backend.Message{Role: backend.RoleUser, Content: "asked meanwhile"},
		backend.Message{Role: backend.RoleAssistant, Content: client.reply.Reply},
	)
	m.Update(fetch())

	msgs := m.chat.Messages()
	if len(msgs) != 5 {
		t.Fatalf("thread has %d messages, want welcome plus 4 without repeats: %+v", len(msgs), msgs)
	}
	if msgs[3].Content != "asked meanwhile" || msgs[4].Content != client.reply.Reply {
		t.Errorf("unexpected thread %+v", msgs)
	}
	if m.chat.HasLoading() {
		t.Error("no reply is outstanding")
	}
}

func TestDeliveredPrefix(t *testing.T) {
	fetched := []backend.Message{
		{Role: backend.RoleUser, Content: "q1"},
		{Role: backend.RoleAssistant, Content: "a1"},
		{Role: backend.RoleUser, Content: "q2"},
	}
	local := func(msgs ...ui.ChatMessage) []localMessage {
		out := make([]localMessage, len(msgs))
		for i, msg := range msgs {
			out[i] = localMessage{seq: uint64(i + 1), msg: msg}
		}
		return out
	}
	user := func(s string) ui.ChatMessage { return ui.ChatMessage{Kind: ui.KindUser, Content: s} }
	assistant := func(s string) ui.ChatMessage { return ui.ChatMessage{Kind: ui.KindAssistant, Content: s} }

	tests := []struct {
		name    string
		pending []localMessage
		want    int
	}{
		{"nothing pending", nil, 0},
		{"last entry delivered", local(user("q2")), 1},
		{"delivered then new", local(user("q2"), assistant("a2")), 1},
		{"longer overlap", local(assistant("a1"), user("q2")), 2},
		{"not delivered", local(user("q3")), 0},
		{"same text other role", local(assistant("q2")), 0},
		{"errors never match", local(ui.ChatMessage{Kind: ui.KindError, Content: "q2"}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deliveredPrefix(fetched, tt.pending); got != tt.want {
				t.Errorf("deliveredPrefix() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReloadHistory_BlockedWhileWaiting(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())
	send(t, m, "question")

	sendKey(m, keys.CtrlL)
	if m.footer.FlashText() == "Reloading chat..." {
		t.Error("reload should wait for the outstanding reply")
	}
	if !m.chat.HasLoading() {
		t.Error("the pending reply's loading indicator should stay")
	}
}

func TestNotifyReply(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())

	if m.notifyReply("t", "r", false) != nil {
		t.Error("notifications are off by default")
	}

	m.settings.Notifications = true
	if m.notifyReply("t", "r", false) != nil {
		t.Error("no notification while the terminal is focused")
	}

	m.Update(tea.BlurMsg{})
	if m.notifyReply("t", "r", false) == nil {
		t.Error("expected a notification while unfocused")
	}
}

func TestQuitCancelsRequests(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())

	if cmd := sendKey(m, keys.CtrlC); cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel outstanding requests")
	}
}

func TestView(t *testing.T) {
	m := testModel(t, store.NewMemory(), newFakeClient())
	if got := m.RenderToString(); got != "Loading..." {
		t.Errorf("unsized view = %q, want Loading...", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	view := ansi.Strip(m.RenderToString())
	for _, want := range []string{"RTI Assistant", "Recent chats", store.DefaultTitle, "Namaste"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSessionsRefresh_AgesOutWhileOpen(t *testing.T) {
	start := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	storeClock := start.Add(-23*time.Hour - 30*time.Minute)
	st := store.NewMemory(store.WithClock(func() time.Time { return storeClock }))
	st.SaveSession("yesterday", "Ration card RTI")
	storeClock = start

	now := start
	m := testModel(t, st, newFakeClient(), WithControllerOptions(session.WithClock(func() time.Time { return now })))
	if got := len(m.sidebar.Entries()); got != 2 {
		t.Fatalf("sidebar has %d entries, want 2", got)
	}

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd == nil || !m.refreshing {
		t.Fatal("the first resize should start the sessions refresh tick")
	}

	now = start.Add(time.Hour)
	_, cmd = m.Update(SessionsRefreshMsg(now))
	if cmd == nil {
		t.Error("the refresh tick should re-arm itself")
	}
	entries := m.sidebar.Entries()
	if len(entries) != 1 || entries[0].ID != m.controller.ActiveID() {
		t.Errorf("sidebar entries = %+v, want only the active chat", entries)
	}
}
