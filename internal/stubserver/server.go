// Package stubserver is an in-memory stand-in for the RTI assistant backend.
//
// It serves the same /chat and /chat/{session_id}/history contract as the real
// service so the client can be developed and tested without the inference
// stack. Replies are canned; a formal RTI application draft is attached when
// the user asks for one.
package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rtiagent/rtichat/internal/backend"
	"github.com/rtiagent/rtichat/internal/logger"
)

// Responder produces the reply (and optional draft) for a user message.
type Responder func(message string, history []backend.Message) backend.ChatResponse

// Server holds per-session transcripts in memory.
type Server struct {
	mu        sync.Mutex
	history   map[string][]backend.Message
	respond   Responder
	delay     time.Duration
	failAfter int // reject every chat call after this many, 0 disables
	calls     int
}

// Option configures a Server.
type Option func(*Server)

// WithResponder replaces the canned reply logic.
func WithResponder(r Responder) Option {
	return func(s *Server) { s.respond = r }
}

// WithDelay makes every chat call wait before answering.
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithFailAfter makes chat calls fail with 500 once n calls have succeeded.
func WithFailAfter(n int) Option {
	return func(s *Server) { s.failAfter = n }
}

// New returns an empty stub backend.
func New(opts ...Option) *Server {
	s := &Server{
		history: make(map[string][]backend.Message),
		respond: DefaultResponder,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleHealth)
	r.Route("/chat", func(cr chi.Router) {
		cr.Post("/", s.handleChat)
		cr.Get("/{sessionID}/history", s.handleHistory)
	})
	return r
}

// Seed stores a transcript for a session, replacing any existing one.
func (s *Server) Seed(sessionID string, msgs []backend.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[sessionID] = append([]backend.Message(nil), msgs...)
}

// History returns a copy of the stored transcript for a session.
func (s *Server) History(sessionID string) []backend.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]backend.Message(nil), s.history[sessionID]...)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "RTI Agent API is running"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req backend.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	s.calls++
	if s.failAfter > 0 && s.calls > s.failAfter {
		s.mu.Unlock()
		respondError(w, http.StatusInternalServerError, "upstream model unavailable")
		return
	}
	// Unknown sessions are created on first use.
	prior := append([]backend.Message(nil), s.history[req.SessionID]...)
	s.mu.Unlock()

	resp := s.respond(req.Message, prior)

	s.mu.Lock()
	s.history[req.SessionID] = append(s.history[req.SessionID],
		backend.Message{Role: backend.RoleUser, Content: req.Message},
		backend.Message{Role: backend.RoleAssistant, Content: resp.Reply},
	)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	respondJSON(w, http.StatusOK, s.History(sessionID))
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.WithComponent("stubserver").Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"requestID", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start),
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithComponent("stubserver").Warn("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}

// DefaultResponder answers with general RTI guidance and attaches a draft
// application when the message asks for one.
func DefaultResponder(message string, history []backend.Message) backend.ChatResponse {
	if wantsDraft(message) {
		return backend.ChatResponse{
			Reply:    "I have prepared a draft RTI application based on your request. Fill in the placeholders before filing it with the **Public Information Officer**.",
			RTIDraft: Draft(message, time.Now()),
		}
	}

	var sb strings.Builder
	sb.WriteString("## Filing an RTI application\n\n")
	sb.WriteString("Under the **Right to Information Act, 2005** you can request information from any public authority:\n\n")
	sb.WriteString("1. Write your application to the *Public Information Officer* of the department.\n")
	sb.WriteString("2. Pay the application fee of `Rs. 10` (waived for BPL applicants).\n")
	sb.WriteString("3. Expect a reply within **30 days** under Section 7(1).\n\n")
	if n := len(history) / 2; n > 0 {
		sb.WriteString(fmt.Sprintf("_This is message %d in our conversation._ ", n+1))
	}
	sb.WriteString("Ask me to *draft* an application when you are ready.")
	return backend.ChatResponse{Reply: sb.String()}
}

func wantsDraft(message string) bool {
	return strings.Contains(strings.ToLower(message), "draft")
}

// Draft renders a formal RTI application with placeholders for the
// applicant's details.
func Draft(subject string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("To,\n")
	sb.WriteString("The Public Information Officer,\n")
	sb.WriteString("[Public Authority Name]\n")
	sb.WriteString("[Address of Public Authority]\n\n")
	sb.WriteString("Subject: Application under Section 6(1) of the Right to Information Act, 2005\n\n")
	sb.WriteString("Sir/Madam,\n\n")
	sb.WriteString("I request the following information under the RTI Act, 2005:\n\n")
	sb.WriteString("    1. " + strings.TrimSpace(subject) + "\n\n")
	sb.WriteString("I have paid the application fee of Rs. 10 by [Mode of Payment].\n\n")
	sb.WriteString("Applicant details:\n")
	sb.WriteString("\tName:    [Your Full Name]\n")
	sb.WriteString("\tAddress: [Your Address]\n")
	sb.WriteString("\tDate:    " + now.Format("02 January 2006") + "\n")
	return sb.String()
}
