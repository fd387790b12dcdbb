// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-process fake of the chatbot backend.
//
// The fake implements the four endpoints the client uses with the same
// request and response shapes as the real service. Tests seed accounts,
// script chat replies, inject failures and count calls per path.
//
//	srv := apitest.New(t)
//	srv.AddUser("alice", "s3cret!!", "alice@example.com")
//	client := apiclient.NewClient(&apiclient.ClientConfig{BaseURL: srv.URL})
package apitest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Paths served by the fake. They mirror apiclient's constants.
const (
	PathLogin    = "/api/login/"
	PathRegister = "/api/register/"
	PathUser     = "/api/user/"
	PathChat     = "/api/chat/"
)

// ChatFunc produces the status and JSON body for a chat message.
type ChatFunc func(username, message string) (status int, body interface{})

// Failure is a scripted response returned instead of the normal handler.
type Failure struct {
	Status int
	// Body is encoded as JSON. A nil Body sends an empty response.
	Body interface{}
	// Raw, when set, is written verbatim instead of Body.
	Raw string
}

type account struct {
	id       int64
	password string
	email    string
}

// Server is a fake backend bound to a local port.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int64
	accounts map[string]account
	tokens   map[string]string
	chat     ChatFunc
	failures map[string][]Failure
	gates    map[string]chan struct{}
	calls    map[string]int
	headers  map[string]http.Header
	messages []string
}

// New starts a fake backend and closes it when t finishes.
func New(t testing.TB) *Server {
	s := &Server{
		nextID:   1,
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		failures: make(map[string][]Failure),
		gates:    make(map[string]chan struct{}),
		calls:    make(map[string]int),
		headers:  make(map[string]http.Header),
		chat:     EchoChat,
	}
	s.Server = httptest.NewServer(s.routes())
	if t != nil {
		t.Cleanup(s.Close)
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login/", s.handleLogin)
		r.Post("/register/", s.handleRegister)
		r.With(s.requireToken).Get("/user/", s.handleUser)
		r.With(s.requireToken).Post("/chat/", s.handleChat)
	})
	return r
}

// EchoChat replies with the message text in plain format.
func EchoChat(username, message string) (int, interface{}) {
	return http.StatusOK, map[string]string{"response": "You said: " + message}
}

// =============================================================================
// SCRIPTING
// =============================================================================

// AddUser creates an account and returns its id.
func (s *Server) AddUser(username, password, email string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(username, password, email)
}

func (s *Server) addUserLocked(username, password, email string) int64 {
	id := s.nextID
	s.nextID++
	s.accounts[username] = account{id: id, password: password, email: email}
	return id
}

// IssueToken creates a valid token for an existing user.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.tokens[token] = username
	return token
}

// RevokeToken makes token invalid; later requests using it get 401.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// HasUser reports whether username is registered.
func (s *Server) HasUser(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[username]
	return ok
}

// SetChat replaces the chat handler.
func (s *Server) SetChat(fn ChatFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = fn
}

// SetChatReply makes every chat call return response with the given format tag.
func (s *Server) SetChatReply(response, format string) {
	s.SetChat(func(string, string) (int, interface{}) {
		body := map[string]string{"response": response}
		if format != "" {
			body["format"] = format
		}
		return http.StatusOK, body
	})
}

// FailNext queues a scripted response for the next request to path.
func (s *Server) FailNext(path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], f)
}

// Hold makes requests to path wait until the returned release func is called.
func (s *Server) Hold(path string) (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates[path] = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gates[path] == gate {
				delete(s.gates, path)
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many requests reached path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// LastHeader returns the headers of the most recent request to path.
func (s *Server) LastHeader(path string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[path].Clone()
}

// Messages returns every chat message received, in order.
func (s *Server) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// record counts the request, then applies any gate and scripted failure.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		s.mu.Lock()
		s.calls[path]++
		s.headers[path] = r.Header.Clone()
		gate := s.gates[path]
		var failure *Failure
		if queue := s.failures[path]; len(queue) > 0 {
			failure = &queue[0]
			s.failures[path] = queue[1:]
		}
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		if failure != nil {
			writeFailure(w, *failure)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxKey struct{}

// requireToken rejects requests without a known "Token" authorization.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Token ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		s.mu.Lock()
		username, known := s.tokens[token]
		s.mu.Unlock()
		if !known {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}

		next.ServeHTTP(w, r.WithContext(withUsername(r, username)))
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok || acct.password != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	token := s.IssueToken(req.Username)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"username": req.Username,
		"email":    acct.email,
		"user_id":  acct.id,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	switch {
	case req.Username == "" || req.Email == "" || req.Password == "":
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "All fields are required"})
		return
	case req.Password != req.ConfirmPassword:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Passwords do not match"})
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Username]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Username already exists"})
		return
	}
	s.addUserLocked(req.Username, req.Password, req.Email)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "User created successfully",
		"username": req.Username,
	})
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r)

	s.mu.Lock()
	acct := s.accounts[username]
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       acct.id,
		"username": username,
		"email":    acct.email,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	s.messages = append(s.messages, req.Message)
	fn := s.chat
	s.mu.Unlock()

	status, body := fn(usernameFrom(r), req.Message)
	writeJSON(w, status, body)
}

// =============================================================================
// HELPERS
// =============================================================================

func withUsername(r *http.Request, username string) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, username)
}

func usernameFrom(r *http.Request) string {
	username, _ := r.Context().Value(ctxKey{}).(string)
	return username
}

func writeFailure(w http.ResponseWriter, f Failure) {
	if f.Raw != "" {
		w.WriteHeader(f.Status)
		w.Write([]byte(f.Raw))
		return
	}
	if f.Body == nil {
		w.WriteHeader(f.Status)
		return
	}
	writeJSON(w, f.Status, f.Body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}
