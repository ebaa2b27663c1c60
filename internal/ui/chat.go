package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/keys"
)

// StopwatchTickMsg is sent to update the loading indicator's stopwatch
type StopwatchTickMsg time.Time

// MessageKind identifies how a thread entry is rendered.
type MessageKind int

const (
	KindWelcome MessageKind = iota
	KindUser
	KindAssistant
	KindError
)

// ChatMessage is one entry of the thread.
type ChatMessage struct {
	Kind    MessageKind
	Content string
	Draft   string // RTI draft attached to an assistant reply
}

// Chat represents the right panel with the message thread and input
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	messages     []ChatMessage
	loading      bool
	loadingStart time.Time
	lastDraft    string
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = InputCharLimit
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	ti.KeyMap.InsertNewline.SetKeys(keys.ShiftEnter, keys.AltEnter, keys.CtrlJ)

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport: vp,
		input:    ti,
	}
	c.updateContent()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	threadHeight := height - InputTotalHeight
	c.viewport.SetWidth(innerSize(width))
	c.viewport.SetHeight(max(1, innerSize(threadHeight)))
	c.input.SetWidth(innerSize(width) - InputPaddingWidth)

	c.updateContent()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// Reset empties the thread. The input is left alone.
func (c *Chat) Reset() {
	c.messages = nil
	c.loading = false
	c.lastDraft = ""
	c.updateContent()
}

// AddWelcome appends the fixed greeting.
func (c *Chat) AddWelcome() {
	c.messages = append(c.messages, ChatMessage{Kind: KindWelcome, Content: WelcomeMessage})
	c.updateContent()
}

// AddUserMessage appends a right-aligned user bubble.
func (c *Chat) AddUserMessage(content string) {
	c.messages = append(c.messages, ChatMessage{Kind: KindUser, Content: content})
	c.updateContent()
}

// AddAssistantMessage appends a reply. A non-empty draft becomes the
// draft offered for download and copy.
func (c *Chat) AddAssistantMessage(reply, draft string) {
	c.messages = append(c.messages, ChatMessage{Kind: KindAssistant, Content: reply, Draft: draft})
	if draft != "" {
		c.lastDraft = draft
	}
	c.updateContent()
}

// AddError appends an error bubble.
func (c *Chat) AddError(text string) {
	c.messages = append(c.messages, ChatMessage{Kind: KindError, Content: text})
	c.updateContent()
}

// SetHistory replaces the thread with the greeting followed by msgs.
func (c *Chat) SetHistory(msgs []backend.Message) {
	c.messages = c.messages[:0]
	c.loading = false
	c.lastDraft = ""
	c.messages = append(c.messages, ChatMessage{Kind: KindWelcome, Content: WelcomeMessage})
	for _, m := range msgs {
		kind := KindAssistant
		if m.IsUser() {
			kind = KindUser
		}
		c.messages = append(c.messages, ChatMessage{Kind: kind, Content: m.Content})
	}
	c.updateContent()
}

// AppendMessages appends entries as they are, e.g. ones kept across a
// history reload.
func (c *Chat) AppendMessages(msgs []ChatMessage) {
	for _, m := range msgs {
		if m.Draft != "" {
			c.lastDraft = m.Draft
		}
		c.messages = append(c.messages, m)
	}
	c.updateContent()
}

// Messages returns a copy of the thread.
func (c *Chat) Messages() []ChatMessage {
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// LastDraft returns the most recent RTI draft in the thread, or "".
func (c *Chat) LastDraft() string {
	return c.lastDraft
}

// AppendLoading shows the loading indicator. It returns false, and does
// nothing, when one is already shown.
func (c *Chat) AppendLoading() bool {
	if c.loading {
		return false
	}
	c.loading = true
	c.loadingStart = time.Now()
	c.updateContent()
	return true
}

// RemoveLoading hides the loading indicator if present.
func (c *Chat) RemoveLoading() {
	if !c.loading {
		return
	}
	c.loading = false
	c.updateContent()
}

// HasLoading reports whether the loading indicator is shown.
func (c *Chat) HasLoading() bool {
	return c.loading
}

// GetInput returns the current input text
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// ClearInput clears the input field
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// SetInput sets the input field value
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// RefreshStyles re-renders the thread after a theme change.
func (c *Chat) RefreshStyles() {
	c.updateContent()
}

// StopwatchTick returns a command that sends a tick message after a delay
func StopwatchTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return StopwatchTickMsg(t)
	})
}

// formatElapsed formats a duration as a stopwatch string (e.g., "1.2s", "1:23")
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func (c *Chat) wrapWidth() int {
	if w := c.viewport.Width(); w > 0 {
		return w
	}
	return DefaultWrapWidth
}

// bubbleInnerWidth is the text width inside a bubble: the bubble cap
// minus border and padding.
func (c *Chat) bubbleInnerWidth() int {
	return max(10, c.wrapWidth()*BubbleMaxWidthPercent/100-4)
}

func (c *Chat) renderUser(content string) string {
	// User text is never interpreted as markup.
	literal := ansi.Wrap(ansi.Strip(strings.TrimRight(content, "\n")), c.bubbleInnerWidth(), "")
	block := lipgloss.JoinVertical(lipgloss.Right,
		ChatUserLabelStyle.Render("You"),
		ChatUserBubbleStyle.Render(literal),
	)
	return lipgloss.PlaceHorizontal(c.wrapWidth(), lipgloss.Right, block)
}

func (c *Chat) renderAssistant(content, draft string) string {
	body := RenderMarkdown(strings.TrimSpace(content), c.bubbleInnerWidth())
	parts := []string{
		ChatAssistantLabelStyle.Render("RTI Assistant"),
		ChatAssistantBubble.Render(body),
	}
	if draft != "" {
		parts = append(parts, c.renderDraft(draft))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderDraft shows the head of the draft with tabs expanded for display.
func (c *Chat) renderDraft(draft string) string {
	lines := strings.Split(strings.ReplaceAll(strings.TrimRight(draft, "\n"), "\r\n", "\n"), "\n")
	more := len(lines) > DraftPreviewMaxLines
	if more {
		lines = lines[:DraftPreviewMaxLines]
	}
	width := c.bubbleInnerWidth()
	for i, l := range lines {
		lines[i] = ansi.Truncate(strings.ReplaceAll(l, "\t", "    "), width, "…")
	}
	if more {
		lines = append(lines, DraftHintStyle.Render("…"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		DraftTitleStyle.Render("RTI Draft"),
		strings.Join(lines, "\n"),
		DraftHintStyle.Render("ctrl+s download  ctrl+y copy"),
	)
	return DraftBoxStyle.Render(content)
}

func (c *Chat) updateContent() {
	var sb strings.Builder

	if len(c.messages) == 0 && !c.loading {
		sb.WriteString(ChatNoticeStyle.Render("Start a conversation..."))
	}

	for i, msg := range c.messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch msg.Kind {
		case KindUser:
			sb.WriteString(c.renderUser(msg.Content))
		case KindError:
			sb.WriteString(ChatErrorBubbleStyle.Render(ansi.Wrap(msg.Content, c.bubbleInnerWidth(), "")))
		default:
			sb.WriteString(c.renderAssistant(msg.Content, msg.Draft))
		}
	}

	if c.loading {
		if len(c.messages) > 0 {
			sb.WriteString("\n\n")
		}
		stopwatch := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		sb.WriteString(ChatAssistantLabelStyle.Render("RTI Assistant"))
		sb.WriteString("\n")
		sb.WriteString(StatusLoadingStyle.Render(LoadingText + " "))
		sb.WriteString(stopwatch.Render(formatElapsed(time.Since(c.loadingStart))))
	}

	c.viewport.SetContent(sb.String())
	c.viewport.GotoBottom()
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	if _, ok := msg.(StopwatchTickMsg); ok {
		if !c.loading {
			return c, nil
		}
		c.updateContent()
		return c, StopwatchTick()
	}

	var cmds []tea.Cmd
	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
		switch keyMsg.String() {
		case keys.PgUp, keys.PgDown, keys.Home, keys.End, keys.CtrlUp, keys.CtrlDown:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}
		if !c.focused {
			return c, nil
		}
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	if c.focused {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	inputStyle := ChatInputStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
		inputStyle = ChatInputFocusedStyle
	}

	thread := panelStyle.Width(c.width).Height(c.height - InputTotalHeight).Render(c.viewport.View())
	inputArea := inputStyle.Width(c.width).Render(c.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, thread, inputArea)
}
