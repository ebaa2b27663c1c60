// Package backend is the HTTP client for the RTI assistant service.
//
// Two calls are made: POST /chat to send a user message and
// GET /chat/{session_id}/history to restore a session's transcript.
// Failures are reported as structured errors of kind KindNetwork (the request
// never completed), KindTimeout, KindRejected (non-2xx) or KindDecode.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rtiagent/rtichat/internal/errors"
	"github.com/rtiagent/rtichat/internal/logger"
)

// Roles used in history entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxErrorBody bounds how much of a rejected response is drained before closing.
const maxErrorBody = 64 << 10

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Reply    string `json:"reply"`
	RTIDraft string `json:"rti_draft,omitempty"`
}

// HasDraft reports whether the reply carries a generated RTI draft.
func (r *ChatResponse) HasDraft() bool {
	return r != nil && r.RTIDraft != ""
}

// Message is one turn of a session transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// IsUser reports whether the message was authored by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    Doer
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout bounds every request. Zero disables the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat posts a user message for a session and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*ChatResponse, error) {
	const op = errors.Op("backend.Chat")
	endpoint := c.baseURL + "/chat"

	body, err := json.Marshal(ChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, errors.E(op, errors.KindInvalid, err)
	}

	var resp ChatResponse
	if err := c.do(ctx, op, http.MethodPost, endpoint, bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	logger.WithSession(sessionID).Debug("chat reply received",
		"replyLen", len(resp.Reply),
		"hasDraft", resp.HasDraft(),
	)
	return &resp, nil
}

// History returns the ordered transcript of a session.
func (c *Client) History(ctx context.Context, sessionID string) ([]Message, error) {
	const op = errors.Op("backend.History")
	endpoint := fmt.Sprintf("%s/chat/%s/history", c.baseURL, url.PathEscape(sessionID))

	var msgs []Message
	if err := c.do(ctx, op, http.MethodGet, endpoint, nil, &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs, nil
}

func (c *Client) do(ctx context.Context, op errors.Op, method, endpoint string, body io.Reader, out any) error {
	log := logger.WithComponent("backend")

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.E(op, errors.KindInvalid, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "method", method, "url", endpoint, "error", err)
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.RequestTimedOut(op, endpoint, err)
		}
		return errors.RequestFailed(op, endpoint, err)
	}
	defer resp.Body.Close()

	log.Debug("response received",
		"method", method,
		"url", endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return errors.RequestRejected(op, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.DecodeFailed(op, endpoint, err)
	}
	return nil
}
