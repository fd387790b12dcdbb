// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbot-tui/internal/apiclient"
	"github.com/jeranaias/chatbot-tui/internal/apitest"
	"github.com/jeranaias/chatbot-tui/internal/authflow"
	convo "github.com/jeranaias/chatbot-tui/internal/chat"
	"github.com/jeranaias/chatbot-tui/internal/config"
	"github.com/jeranaias/chatbot-tui/internal/credstore"
	"github.com/jeranaias/chatbot-tui/internal/session"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// testEnv isolates the config directory and starts a fake backend.
func testEnv(t *testing.T) (*apitest.Server, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CHATBOT_HOME", home)
	t.Setenv("CHATBOT_API_URL", "")
	t.Setenv("CHATBOT_TOKEN_STORE", "")
	t.Setenv("CHATBOT_PASSWORD_POLICY", "")
	ForceColorsEnabled(false)

	srv := apitest.New(t)
	srv.AddUser("alice", "password1", "alice@example.com")
	return srv, home
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func status(t *testing.T, srv *apitest.Server, extra ...string) StatusOutput {
	t.Helper()
	args := append([]string{"--api-url", srv.URL}, extra...)
	args = append(args, "status", "--json")
	out, err := run(t, "", args...)
	require.NoError(t, err)

	var st StatusOutput
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	return st
}

// scriptedInput feeds the REPL from a fixed list of lines.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) next(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) ReadInput(prompt string) (string, error) { return s.next(prompt) }
func (s *scriptedInput) Ask(prompt string) (string, error)       { return s.next(prompt) }
func (s *scriptedInput) Password(prompt string) (string, error)  { return s.next(prompt) }
func (s *scriptedInput) Close()                                  {}

func newTestApp(t *testing.T, srv *apitest.Server) *App {
	t.Helper()
	app, err := NewApp(Options{APIURL: srv.URL})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

// =============================================================================
// ACCOUNT COMMAND TESTS
// =============================================================================

func TestLoginStatusLogout(t *testing.T) {
	srv, home := testEnv(t)

	out, err := run(t, "alice\npassword1\n", "--api-url", srv.URL, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")
	assert.NotContains(t, out, "password1")

	data, err := os.ReadFile(filepath.Join(home, "credentials.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "token")

	st := status(t, srv)
	assert.Equal(t, "authenticated", st.Session.State)
	assert.Equal(t, "alice", st.Session.Username)
	assert.Equal(t, srv.URL, st.APIURL)

	out, err = run(t, "", "--api-url", srv.URL, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	st = status(t, srv)
	assert.Equal(t, "anonymous", st.Session.State)
	assert.Empty(t, st.Session.Username)
}

func TestLoginWithUsernameFlag(t *testing.T) {
	srv, _ := testEnv(t)

	out, err := run(t, "password1\n", "--api-url", srv.URL, "login", "-u", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv, home := testEnv(t)

	_, err := run(t, "alice\nwrong\n", "--api-url", srv.URL, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), authflow.MsgInvalidCredentials)
	assert.Equal(t, ExitAuthError, ExitCode(err))

	_, statErr := os.Stat(filepath.Join(home, "credentials.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoginServerDown(t *testing.T) {
	srv, _ := testEnv(t)
	url := srv.URL
	srv.Close()

	_, err := run(t, "alice\npassword1\n", "--api-url", url, "login")
	require.Error(t, err)
	assert.Contains(t, err.Error(), authflow.MsgLoginNetwork)
	assert.Equal(t, ExitNetworkError, ExitCode(err))
}

func TestStatusClearsRejectedToken(t *testing.T) {
	srv, home := testEnv(t)
	store := credstore.NewFileStore(filepath.Join(home, "credentials.json"))
	require.NoError(t, store.Set(context.Background(), "stale-token"))

	st := status(t, srv)

	assert.Equal(t, "anonymous", st.Session.State)
	_, ok, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEphemeralLoginIsNotPersisted(t *testing.T) {
	srv, home := testEnv(t)

	_, err := run(t, "alice\npassword1\n", "--api-url", srv.URL, "--ephemeral", "login")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(home, "credentials.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSQLiteTokenStore(t *testing.T) {
	srv, home := testEnv(t)
	t.Setenv("CHATBOT_TOKEN_STORE", config.TokenStoreSQLite)

	_, err := run(t, "alice\npassword1\n", "--api-url", srv.URL, "login")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(home, "chatbot.db"))

	st := status(t, srv)
	assert.Equal(t, "authenticated", st.Session.State)
	assert.Equal(t, config.TokenStoreSQLite, st.Store)
}

func TestRegister(t *testing.T) {
	srv, _ := testEnv(t)

	out, err := run(t, "longpassword\nlongpassword\n",
		"--api-url", srv.URL, "register", "-u", "bob", "--email", "bob@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, authflow.MsgRegistered)
	assert.Contains(t, out, "chatbot login -u bob")
	assert.True(t, srv.HasUser("bob"))

	st := status(t, srv)
	assert.Equal(t, "anonymous", st.Session.State, "registration does not log in")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	srv, _ := testEnv(t)

	_, err := run(t, "bob\nbob@example.com\nlongpassword\ndifferent\n", "--api-url", srv.URL, "register")
	require.Error(t, err)
	assert.Contains(t, err.Error(), authflow.MsgPasswordMismatch)
	assert.Equal(t, 0, srv.Calls(apitest.PathRegister))
}

func TestRegisterDuplicate(t *testing.T) {
	srv, _ := testEnv(t)

	_, err := run(t, "alice\nother@example.com\nlongpassword\nlongpassword\n", "--api-url", srv.URL, "register")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username already exists")
}

// =============================================================================
// CONFIG AND VERSION TESTS
// =============================================================================

func TestConfigShow(t *testing.T) {
	testEnv(t)

	out, err := run(t, "", "--api-url", "http://example.test:9000", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "http://example.test:9000")
	assert.Contains(t, out, `"password_policy": "min8"`)
}

func TestConfigPath(t *testing.T) {
	_, home := testEnv(t)

	out, err := run(t, "", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, "config.toml"))
	assert.Contains(t, out, filepath.Join(home, "credentials.json"))
	assert.Contains(t, out, filepath.Join(home, "chatbot.log"))
}

func TestConfigFromFile(t *testing.T) {
	_, home := testEnv(t)
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://file.test\"\n"), 0600))

	out, err := run(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "http://file.test")
}

func TestInvalidConfig(t *testing.T) {
	testEnv(t)
	t.Setenv("CHATBOT_PASSWORD_POLICY", "none")

	_, err := run(t, "", "config", "show")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "chatbot "+Version)
}

func TestUnknownFlag(t *testing.T) {
	_, err := run(t, "", "status", "--bogus")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Message: "bad"}, ExitUsageError},
		{"no session", session.ErrNoToken, ExitAuthError},
		{"unauthorized", &apiclient.ClientError{Type: apiclient.ErrTypeUnauthorized}, ExitAuthError},
		{"timeout", &apiclient.ClientError{Type: apiclient.ErrTypeTimeout}, ExitTimeoutError},
		{"network", &apiclient.ClientError{Type: apiclient.ErrTypeNetwork}, ExitNetworkError},
		{"config", config.ValidateErrors{{Field: "api.base_url", Message: "required"}}, ExitConfigError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

// =============================================================================
// REPL TESTS
// =============================================================================

func TestREPLConversation(t *testing.T) {
	srv, _ := testEnv(t)
	app := newTestApp(t, srv)
	in := &scriptedInput{lines: []string{
		"hello",
		"/login", "alice", "password1",
		"hello",
		"/status",
		"/clear",
		"/logout",
		"/quit",
		"never read",
	}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(app, in, &out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Not logged in.")
	assert.Contains(t, text, "Please log in first with /login")
	assert.Contains(t, text, "Logged in as alice")
	assert.Contains(t, text, "You said: hello")
	assert.Contains(t, text, "authenticated")
	assert.Contains(t, text, "Conversation cleared")
	assert.Contains(t, text, "Logged out")
	assert.NotContains(t, text, "password1")

	assert.Equal(t, []string{"hello"}, srv.Messages())
	assert.Equal(t, 0, app.Chat.Len())
	assert.Equal(t, []string{"never read"}, in.lines)
}

func TestREPLExpiredSession(t *testing.T) {
	srv, _ := testEnv(t)
	app := newTestApp(t, srv)
	in := &scriptedInput{lines: []string{"/login", "alice", "password1"}}
	var out bytes.Buffer
	repl := NewREPL(app, in, &out)
	require.NoError(t, repl.Run(context.Background()))
	require.True(t, app.Session.Authenticated())

	srv.RevokeAll()
	out.Reset()
	repl.send(context.Background(), "hello again")

	assert.Contains(t, out.String(), convo.MsgSessionExpired)
	assert.Equal(t, 1, strings.Count(out.String(), convo.MsgSessionExpired))
	assert.Contains(t, out.String(), "Use /login to continue.")
	assert.False(t, app.Session.Authenticated())
	assert.Equal(t, 2, app.Chat.Len())
}

func TestREPLRegister(t *testing.T) {
	srv, _ := testEnv(t)
	app := newTestApp(t, srv)
	in := &scriptedInput{lines: []string{
		"/register", "carol", "carol@example.com", "longpassword", "longpassword",
		"/unknown",
	}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(app, in, &out).Run(context.Background()))

	assert.True(t, srv.HasUser("carol"))
	assert.Contains(t, out.String(), authflow.MsgRegistered)
	assert.Contains(t, out.String(), "Unknown command /unknown")
}

func TestREPLHelpAndAliases(t *testing.T) {
	srv, _ := testEnv(t)
	app := newTestApp(t, srv)
	in := &scriptedInput{lines: []string{"/h", "/logni", "/s", "/exit", "never read"}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(app, in, &out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Create an account")
	assert.Contains(t, text, "/signup")
	assert.Contains(t, text, "did you mean /login?")
	assert.Contains(t, text, "anonymous")
	assert.Equal(t, []string{"never read"}, in.lines)
}

func TestREPLSendsRawText(t *testing.T) {
	srv, _ := testEnv(t)
	app := newTestApp(t, srv)
	in := &scriptedInput{lines: []string{
		"/login", "alice", "password1",
		"  hello there  ",
	}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(app, in, &out).Run(context.Background()))

	history := app.Chat.History()
	require.Len(t, history, 2)
	assert.Equal(t, "  hello there  ", history[0].Text)
	assert.Equal(t, []string{"  hello there  "}, srv.Messages())
}
