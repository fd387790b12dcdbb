// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatbot-tui/internal/apiclient"
	"github.com/jeranaias/chatbot-tui/internal/credstore"
	"github.com/jeranaias/chatbot-tui/internal/model"
)

// ReasonExpired is the invalidation reason for a token the backend rejected.
const ReasonExpired = "expired"

// ReasonLogout is reported when the user signs out.
const ReasonLogout = "logout"

// ErrNoToken is returned when an operation needs an authenticated session.
var ErrNoToken = errors.New("not logged in")

// =============================================================================
// STATE
// =============================================================================

// State is the authentication state of a session.
type State int

const (
	// StateUnknown is the state before Bootstrap completes.
	StateUnknown State = iota
	// StateAnonymous means no token is held.
	StateAnonymous
	// StateAuthenticated means a token and user profile are held.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Verifier checks a stored token with the backend.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

// Listener observes the manager. Methods are called outside the manager's
// lock, on the goroutine that caused the change.
type Listener interface {
	SessionChanged(state State, user *model.User)
	SessionExpired(reason string)
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Config holds configuration for the session manager.
type Config struct {
	// VerifyTimeout bounds the token check during Bootstrap (default: 5 seconds)
	VerifyTimeout time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{VerifyTimeout: 5 * time.Second}
}

// Manager tracks who is logged in and keeps the credential store in sync.
type Manager struct {
	// transMu serialises transitions so the store write and the in-memory
	// change land together. Lock order: transMu, then mu.
	transMu sync.Mutex
	mu      sync.Mutex

	store         credstore.Store
	verifier      Verifier
	verifyTimeout time.Duration

	// Session tracking
	sessionID string
	state     State
	token     string
	user      *model.User
	since     time.Time

	// generation increments on every transition so a slow Bootstrap
	// cannot overwrite a login or logout that finished first.
	generation uint64

	listeners []Listener
}

// NewManager creates a session manager in StateUnknown.
func NewManager(store credstore.Store, verifier Verifier, cfg Config) *Manager {
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = DefaultConfig().VerifyTimeout
	}
	return &Manager{
		store:         store,
		verifier:      verifier,
		verifyTimeout: cfg.VerifyTimeout,
		sessionID:     generateSessionID(),
		state:         StateUnknown,
		since:         time.Now(),
	}
}

// Subscribe registers a listener for state changes and expiry.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionID returns the identifier of this client run.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Authenticated reports whether a token is held.
func (m *Manager) Authenticated() bool {
	return m.State() == StateAuthenticated
}

// Token returns the current token. ok is false when not authenticated.
func (m *Manager) Token() (token string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return "", false
	}
	return m.token, true
}

// RequireToken returns the current token or ErrNoToken.
func (m *Manager) RequireToken() (string, error) {
	token, ok := m.Token()
	if !ok {
		return "", ErrNoToken
	}
	return token, nil
}

// User returns a copy of the logged-in profile, or nil.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Bootstrap settles the initial state from the credential store.
//
// With no stored token the session becomes anonymous without touching the
// network. A stored token is verified with a bounded timeout; any failure
// clears it. A 401 additionally notifies listeners with ReasonExpired.
func (m *Manager) Bootstrap(ctx context.Context) State {
	m.mu.Lock()
	gen := m.generation
	m.mu.Unlock()

	token, ok, err := m.store.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session bootstrap: credential store unreadable")
		m.settleAnonymous(ctx, gen, "")
		return m.State()
	}
	if !ok || token == "" {
		log.Info().Str("session_id", m.SessionID()).Msg("session bootstrap: no stored token")
		m.settleAnonymous(ctx, gen, "")
		return m.State()
	}

	verifyCtx, cancel := context.WithTimeout(ctx, m.verifyTimeout)
	defer cancel()

	user, err := m.verifier.VerifyToken(verifyCtx, token)
	if err != nil {
		reason := ""
		if apiclient.IsUnauthorized(err) {
			reason = ReasonExpired
		}
		log.Info().
			Str("session_id", m.SessionID()).
			Str("error_type", apiclient.TypeOf(err).String()).
			Msg("session bootstrap: token verification failed")
		m.settleAnonymous(ctx, gen, reason)
		return m.State()
	}

	m.transMu.Lock()
	m.mu.Lock()
	if m.generation != gen {
		state := m.state
		m.mu.Unlock()
		m.transMu.Unlock()
		return state
	}
	m.generation++
	m.state = StateAuthenticated
	m.token = token
	m.user = user
	m.since = time.Now()
	listeners := m.snapshotListeners()
	m.mu.Unlock()
	m.transMu.Unlock()

	log.Info().
		Str("session_id", m.SessionID()).
		Str("user", user.Username).
		Msg("session bootstrap: token verified")

	for _, l := range listeners {
		l.SessionChanged(StateAuthenticated, userCopy(user))
	}
	return StateAuthenticated
}

// settleAnonymous finishes a failed Bootstrap unless a newer transition won.
func (m *Manager) settleAnonymous(ctx context.Context, gen uint64, expiredReason string) {
	m.becomeAnonymous(ctx, expiredReason, &gen)
}

// CompleteLogin stores token and marks the session authenticated.
// The in-memory session is authenticated even if persisting fails; the
// store error is returned so the caller can report it.
func (m *Manager) CompleteLogin(ctx context.Context, token string, user model.User) error {
	m.transMu.Lock()
	storeErr := m.store.Set(ctx, token)

	m.mu.Lock()
	m.generation++
	m.state = StateAuthenticated
	m.token = token
	m.user = &user
	m.since = time.Now()
	sessionID := m.sessionID
	listeners := m.snapshotListeners()
	m.mu.Unlock()
	m.transMu.Unlock()

	if storeErr != nil {
		log.Warn().Err(storeErr).Msg("session login: token not persisted")
	}
	log.Info().Str("session_id", sessionID).Str("user", user.Username).Msg("session login")

	for _, l := range listeners {
		l.SessionChanged(StateAuthenticated, userCopy(&user))
	}
	return storeErr
}

// Logout clears the token and makes the session anonymous.
func (m *Manager) Logout(ctx context.Context) error {
	log.Info().Str("session_id", m.SessionID()).Msg("session logout")
	return m.becomeAnonymous(ctx, "", nil)
}

// Invalidate drops the session after the backend rejected its token and
// returns reason. Listeners see a state change but no expiry notification;
// the caller reports the expiry itself.
func (m *Manager) Invalidate(ctx context.Context, reason string) string {
	log.Info().Str("session_id", m.SessionID()).Str("reason", reason).Msg("session invalidated")
	m.becomeAnonymous(ctx, "", nil)
	return reason
}

// becomeAnonymous clears memory and store. With a non-nil gen the transition
// is skipped if another one finished since gen was read. A non-empty
// expiredReason is delivered to listeners after the state change.
func (m *Manager) becomeAnonymous(ctx context.Context, expiredReason string, gen *uint64) error {
	m.transMu.Lock()
	m.mu.Lock()
	if gen != nil && m.generation != *gen {
		m.mu.Unlock()
		m.transMu.Unlock()
		return nil
	}
	m.generation++
	changed := m.state != StateAnonymous
	m.state = StateAnonymous
	m.token = ""
	m.user = nil
	m.since = time.Now()
	listeners := m.snapshotListeners()
	m.mu.Unlock()

	err := m.store.Clear(ctx)
	m.transMu.Unlock()
	if err != nil {
		log.Warn().Err(err).Msg("session: credential store not cleared")
	}

	if changed {
		for _, l := range listeners {
			l.SessionChanged(StateAnonymous, nil)
		}
	}
	if expiredReason != "" {
		for _, l := range listeners {
			l.SessionExpired(expiredReason)
		}
	}
	return err
}

// snapshotListeners must be called with mu held.
func (m *Manager) snapshotListeners() []Listener {
	return append([]Listener(nil), m.listeners...)
}

func userCopy(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique session ID.
func generateSessionID() string {
	return "sess_" + formatTimestamp(time.Now())
}

// formatTimestamp formats a time for use in IDs.
func formatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status represents the current session status.
type Status struct {
	SessionID string        `json:"session_id"`
	State     string        `json:"state"`
	Username  string        `json:"username,omitempty"`
	Email     string        `json:"email,omitempty"`
	Since     time.Time     `json:"since"`
	Duration  time.Duration `json:"duration_ns"`
}

// Status returns a snapshot for display. The token is never included.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		SessionID: m.sessionID,
		State:     m.state.String(),
		Since:     m.since,
		Duration:  time.Since(m.since),
	}
	if m.user != nil {
		st.Username = m.user.Username
		st.Email = m.user.Email
	}
	return st
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return strconv.Itoa(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
