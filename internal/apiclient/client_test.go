// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbot-tui/internal/apitest"
	"github.com/jeranaias/chatbot-tui/internal/config"
	"github.com/jeranaias/chatbot-tui/internal/model"
)

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	client := NewClient(&ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, UserAgent: "chatbot/test"})
	return client, srv
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil)
	assert.Equal(t, "http://localhost:8000", client.BaseURL())
	assert.Nil(t, client.limiter)

	client = NewClient(&ClientConfig{BaseURL: "http://example.test/", RateLimit: 0.5})
	assert.Equal(t, "http://example.test", client.BaseURL())
	require.NotNil(t, client.limiter)
	assert.Equal(t, 1, client.limiter.Burst())
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Default()
	cfg.API.BaseURL = "https://chat.example.com"
	cfg.API.TimeoutSecs = 12
	cfg.API.RateLimit = 3

	cc := ConfigFrom(cfg, "1.2.3")
	assert.Equal(t, "https://chat.example.com", cc.BaseURL)
	assert.Equal(t, 12*time.Second, cc.Timeout)
	assert.Equal(t, 3.0, cc.RateLimit)
	assert.Equal(t, "chatbot/1.2.3", cc.UserAgent)
}

// =============================================================================
// LOGIN / REGISTER TESTS
// =============================================================================

func TestLogin(t *testing.T) {
	client, srv := newTestClient(t)
	id := srv.AddUser("alice", "password1", "alice@example.com")

	resp, err := client.Login(context.Background(), "alice", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.User{ID: id, Username: "alice", Email: "alice@example.com"}, resp.User())
}

func TestLoginRejected(t *testing.T) {
	client, srv := newTestClient(t)
	srv.AddUser("alice", "password1", "")

	_, err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", ServerMessage(err))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLoginMissingToken(t *testing.T) {
	client, srv := newTestClient(t)
	srv.FailNext(PathLogin, apitest.Failure{Status: http.StatusOK, Body: map[string]string{"username": "alice"}})

	_, err := client.Login(context.Background(), "alice", "x")
	assert.Equal(t, ErrTypeInvalidResponse, TypeOf(err))
}

func TestRegister(t *testing.T) {
	client, srv := newTestClient(t)

	resp, err := client.Register(context.Background(), RegisterRequest{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)
	assert.True(t, srv.HasUser("bob"))

	_, err = client.Register(context.Background(), RegisterRequest{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	})
	require.Error(t, err)
	assert.Equal(t, ErrTypeServer, TypeOf(err))
	assert.Equal(t, "Username already exists", ServerMessage(err))
}

func TestRegisterEmptyBody(t *testing.T) {
	client, srv := newTestClient(t)
	srv.FailNext(PathRegister, apitest.Failure{Status: http.StatusCreated})

	_, err := client.Register(context.Background(), RegisterRequest{Username: "x"})
	assert.NoError(t, err)
}

// =============================================================================
// VERIFY / CHAT TESTS
// =============================================================================

func TestVerifyToken(t *testing.T) {
	client, srv := newTestClient(t)
	srv.AddUser("alice", "pw", "alice@example.com")
	token := srv.IssueToken("alice")

	user, err := client.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Token "+token, srv.LastHeader(PathUser).Get("Authorization"))

	srv.RevokeToken(token)
	_, err = client.VerifyToken(context.Background(), token)
	assert.True(t, IsUnauthorized(err))
}

func TestChat(t *testing.T) {
	tests := []struct {
		name   string
		tag    string
		format model.Format
	}{
		{"no format", "", model.FormatPlain},
		{"list", "list", model.FormatList},
		{"math", "math-steps", model.FormatMathSteps},
		{"unknown", "table", model.FormatPlain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(t)
			srv.AddUser("alice", "pw", "")
			token := srv.IssueToken("alice")
			srv.SetChatReply("1. a\n2. b", tt.tag)

			reply, err := client.Chat(context.Background(), token, "hi")
			require.NoError(t, err)
			assert.Equal(t, "1. a\n2. b", reply.Text)
			assert.Equal(t, tt.format, reply.Format)
			assert.Equal(t, tt.tag, reply.RawFormat)
			assert.Equal(t, []string{"hi"}, srv.Messages())
		})
	}
}

func TestChatHeaders(t *testing.T) {
	client, srv := newTestClient(t)
	srv.AddUser("alice", "pw", "")
	token := srv.IssueToken("alice")

	_, err := client.Chat(context.Background(), token, "hi")
	require.NoError(t, err)

	h := srv.LastHeader(PathChat)
	assert.Equal(t, "chatbot/test", h.Get("User-Agent"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	_, err = uuid.Parse(h.Get(RequestIDHeader))
	assert.NoError(t, err, "request id should be a uuid")
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name     string
		failure  apitest.Failure
		wantType ErrorType
		wantMsg  string
	}{
		{"unauthorized", apitest.Failure{Status: 401, Body: map[string]string{"detail": "Invalid token."}}, ErrTypeUnauthorized, "Invalid token."},
		{"server error", apitest.Failure{Status: 500, Body: map[string]string{"error": "boom"}}, ErrTypeServer, "boom"},
		{"server no body", apitest.Failure{Status: 503}, ErrTypeServer, ""},
		{"bad json", apitest.Failure{Status: 200, Raw: "<html>"}, ErrTypeInvalidResponse, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(t)
			srv.AddUser("alice", "pw", "")
			token := srv.IssueToken("alice")
			srv.FailNext(PathChat, tt.failure)

			_, err := client.Chat(context.Background(), token, "hi")
			require.Error(t, err)
			assert.Equal(t, tt.wantType, TypeOf(err))
			assert.Equal(t, tt.wantMsg, ServerMessage(err))
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := apitest.New(t)
	url := srv.URL
	srv.Close()

	client := NewClient(&ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := client.Chat(context.Background(), "token", "hi")
	require.Error(t, err)
	assert.Equal(t, ErrTypeNetwork, TypeOf(err))
	assert.True(t, IsNetwork(err))
	assert.False(t, IsUnauthorized(err))
}

func TestTimeout(t *testing.T) {
	client, srv := newTestClient(t)
	release := srv.Hold(PathUser)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.VerifyToken(ctx, "token")
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.True(t, IsNetwork(err))
}

func TestClientErrorMessage(t *testing.T) {
	err := &ClientError{Type: ErrTypeServer, Status: 500, Message: "request failed", ServerMessage: "boom"}
	assert.Equal(t, "request failed (status 500): boom", err.Error())
	assert.Equal(t, "server", ErrTypeServer.String())
}

// endlessBody never reaches EOF.
type endlessBody struct {
	read   int64
	closed bool
}

func (b *endlessBody) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	b.read += int64(len(p))
	return len(p), nil
}

func (b *endlessBody) Close() error {
	b.closed = true
	return nil
}

func TestDrainAndCloseIsBounded(t *testing.T) {
	body := &endlessBody{}
	drainAndClose(body)

	assert.True(t, body.closed)
	assert.LessOrEqual(t, body.read, int64(maxErrorBody))
}
