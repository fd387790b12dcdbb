// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/jeranaias/chatbot-tui/internal/apiclient"
	"github.com/jeranaias/chatbot-tui/internal/model"
	"github.com/jeranaias/chatbot-tui/internal/session"
)

// Bot messages appended on failure.
const (
	MsgSessionExpired = "Session expired. Please login again."
	MsgSendFailed     = "Sorry, something went wrong."
)

// DefaultTimeout bounds one chat request.
const DefaultTimeout = 30 * time.Second

// =============================================================================
// OUTCOMES
// =============================================================================

// Outcome classifies the result of Send.
type Outcome int

const (
	// OutcomeIgnored means the input was blank; nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeLoginRequired means no session; history is unchanged.
	OutcomeLoginRequired
	// OutcomeBusy means another send is in flight; nothing changed.
	OutcomeBusy
	// OutcomeReplied means the bot's reply was appended.
	OutcomeReplied
	// OutcomeExpired means the token was rejected and the session dropped.
	OutcomeExpired
	// OutcomeFailed means a generic failure message was appended.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeLoginRequired:
		return "login_required"
	case OutcomeBusy:
		return "busy"
	case OutcomeReplied:
		return "replied"
	case OutcomeExpired:
		return "expired"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NeedsLogin reports whether the caller should open the login form.
func (o Outcome) NeedsLogin() bool {
	return o == OutcomeLoginRequired || o == OutcomeExpired
}

// Result is returned by Send.
type Result struct {
	Outcome Outcome
	// Reply is the bot message appended by this send, if any.
	Reply *model.Message
	// Err is the underlying error for OutcomeExpired and OutcomeFailed.
	Err error
}

// =============================================================================
// SESSION
// =============================================================================

// Client is the backend call a chat session needs.
type Client interface {
	Chat(ctx context.Context, token, message string) (*apiclient.ChatReply, error)
}

// Auth is the part of the session manager a chat session needs.
type Auth interface {
	RequireToken() (string, error)
	Invalidate(ctx context.Context, reason string) string
}

// Session is one conversation thread. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	history  []model.Message
	epoch    uint64
	onAppend []func(model.Message)

	client  Client
	auth    Auth
	timeout time.Duration
	sem     *semaphore.Weighted
}

// New creates an empty conversation. A zero timeout uses DefaultTimeout.
func New(client Client, auth Auth, timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Session{
		client:  client,
		auth:    auth,
		timeout: timeout,
		sem:     semaphore.NewWeighted(1),
	}
}

// OnAppend registers fn to run after every appended message.
func (s *Session) OnAppend(fn func(model.Message)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAppend = append(s.onAppend, fn)
}

// History returns a copy of the thread in display order.
func (s *Session) History() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of messages in the thread.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Reset empties the thread. Replies to sends started before Reset are
// not appended.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.epoch++
}

// Send submits one user message.
func (s *Session) Send(ctx context.Context, raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Outcome: OutcomeIgnored}
	}

	token, err := s.auth.RequireToken()
	if err != nil {
		return Result{Outcome: OutcomeLoginRequired, Err: err}
	}

	if !s.sem.TryAcquire(1) {
		return Result{Outcome: OutcomeBusy}
	}
	defer s.sem.Release(1)

	epoch := s.append(model.NewUserMessage(raw), 0, false)

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.client.Chat(reqCtx, token, raw)
	if err != nil {
		return s.fail(ctx, epoch, err, time.Since(start))
	}

	msg := model.NewBotMessage(reply.Text, reply.Format)
	s.append(msg, epoch, true)

	log.Debug().
		Str("format", reply.Format.String()).
		Int("chars", len(reply.Text)).
		Dur("elapsed", time.Since(start)).
		Msg("chat reply")

	return Result{Outcome: OutcomeReplied, Reply: &msg}
}

func (s *Session) fail(ctx context.Context, epoch uint64, err error, elapsed time.Duration) Result {
	log.Info().
		Str("error_type", apiclient.TypeOf(err).String()).
		Dur("elapsed", elapsed).
		Msg("chat send failed")

	if apiclient.IsUnauthorized(err) {
		s.auth.Invalidate(ctx, session.ReasonExpired)
		msg := model.NewBotMessage(MsgSessionExpired, model.FormatPlain)
		s.append(msg, epoch, true)
		return Result{Outcome: OutcomeExpired, Reply: &msg, Err: err}
	}

	msg := model.NewBotMessage(MsgSendFailed, model.FormatPlain)
	s.append(msg, epoch, true)
	return Result{Outcome: OutcomeFailed, Reply: &msg, Err: err}
}

// append adds msg and runs hooks outside the lock. With checkEpoch set the
// message is dropped if Reset ran since epoch. It returns the current epoch.
func (s *Session) append(msg model.Message, epoch uint64, checkEpoch bool) uint64 {
	s.mu.Lock()
	if checkEpoch && s.epoch != epoch {
		current := s.epoch
		s.mu.Unlock()
		return current
	}
	s.history = append(s.history, msg)
	current := s.epoch
	hooks := append([]func(model.Message){}, s.onAppend...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(msg)
	}
	return current
}

// =============================================================================
// SESSION LISTENER
// =============================================================================

// SessionChanged implements session.Listener.
func (s *Session) SessionChanged(state session.State, user *model.User) {}

// SessionExpired implements session.Listener. It reports a stored token
// that was rejected at startup.
func (s *Session) SessionExpired(reason string) {
	s.append(model.NewBotMessage(MsgSessionExpired, model.FormatPlain), 0, false)
}
