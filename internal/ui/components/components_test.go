// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbot-tui/internal/authflow"
	"github.com/jeranaias/chatbot-tui/internal/model"
	"github.com/jeranaias/chatbot-tui/internal/session"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
)

func plainTheme(t *testing.T) *styles.Theme {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	return styles.NewTheme()
}

func trimLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// =============================================================================
// MESSAGE RENDERER TESTS
// =============================================================================

func TestRenderListReply(t *testing.T) {
	r := NewMessageRenderer(plainTheme(t), RendererOptions{}, 60)

	out := r.Render(model.NewBotMessage("1. apples\n\n2. pears\n", model.FormatList))

	assert.Equal(t, []string{"Bot", "1. apples", "2. pears"}, trimLines(out))
}

func TestRenderMathReply(t *testing.T) {
	r := NewMessageRenderer(plainTheme(t), RendererOptions{}, 60)

	out := r.Render(model.NewBotMessage("Step 1: add\n\nx = 2", model.FormatMathSteps))

	assert.Equal(t, []string{"Bot", "Step 1: add", "", "x = 2"}, trimLines(out))
}

func TestRenderUserMessageIsPlain(t *testing.T) {
	r := NewMessageRenderer(plainTheme(t), RendererOptions{}, 60)

	msg := model.NewUserMessage("1. not a list")
	msg.Format = model.FormatList
	out := r.Render(msg)

	assert.Equal(t, []string{"You", "1. not a list"}, trimLines(out))
}

func TestRenderMarkdownPlainReply(t *testing.T) {
	r := NewMessageRenderer(plainTheme(t), RendererOptions{Markdown: true, MarkdownStyle: "notty"}, 60)
	require.NotNil(t, r.md)

	out := r.Render(model.NewBotMessage("**hello** world", model.FormatPlain))
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")
}

func TestRenderThreadEmpty(t *testing.T) {
	r := NewMessageRenderer(plainTheme(t), RendererOptions{}, 60)
	assert.Contains(t, r.RenderThread(nil), "No messages yet")
}

func TestRenderTimestamps(t *testing.T) {
	r := NewMessageRenderer(plainTheme(t), RendererOptions{ShowTimestamps: true}, 60)
	msg := model.NewBotMessage("hi", model.FormatPlain)

	out := r.Render(msg)
	assert.Contains(t, out, msg.Timestamp.Format("15:04"))
}

func TestSetWidthMinimum(t *testing.T) {
	r := NewMessageRenderer(plainTheme(t), RendererOptions{}, 5)
	assert.Equal(t, 20, r.Width())
}

// =============================================================================
// HEADER / STATUS BAR TESTS
// =============================================================================

func TestHeaderStates(t *testing.T) {
	theme := plainTheme(t)

	h := Header{Title: "chatbot", Width: 60}
	assert.Contains(t, h.View(theme), "checking session")

	h.State = session.StateAnonymous
	assert.Contains(t, h.View(theme), "not logged in")

	h.State = session.StateAuthenticated
	h.Username = "alice"
	view := h.View(theme)
	assert.Contains(t, view, "logged in as alice")
	assert.Equal(t, 60, lipgloss.Width(view))
}

func TestStatusBarPriority(t *testing.T) {
	theme := plainTheme(t)
	bar := StatusBar{Shortcuts: []Shortcut{{"enter", "send"}}, Width: 60}
	assert.Contains(t, bar.View(theme), "enter send")

	bar.Notice = "Logged in"
	assert.Contains(t, bar.View(theme), "Logged in")

	bar.Error = "Boom"
	view := bar.View(theme)
	assert.Contains(t, view, "Boom")
	assert.NotContains(t, view, "Logged in")
}

// =============================================================================
// AUTH FORM TESTS
// =============================================================================

func typeText(f *AuthForm, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestLoginFormTyping(t *testing.T) {
	f := NewLoginForm()
	assert.Equal(t, FormLogin, f.Kind())
	assert.Equal(t, authflow.FieldUsername, f.Focused())

	typeText(f, "alice")
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, authflow.FieldPassword, f.Focused())
	typeText(f, "secret")

	assert.Equal(t, "alice", f.State().Value(authflow.FieldUsername))
	assert.Equal(t, "secret", f.State().Value(authflow.FieldPassword))

	view := f.View(plainTheme(t))
	assert.NotContains(t, view, "secret", "password is masked")
}

func TestRegisterFormFocusWraps(t *testing.T) {
	f := NewRegisterForm("at least 8 characters")
	f.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, authflow.FieldConfirmPassword, f.Focused())
	assert.Contains(t, f.View(plainTheme(t)), "at least 8 characters")
}

func TestAuthFormShowsError(t *testing.T) {
	f := NewLoginForm()
	f.State().Fail(&authflow.ValidationError{Message: authflow.MsgLoginRequired})
	assert.Contains(t, f.View(plainTheme(t)), authflow.MsgLoginRequired)
}

func TestAuthFormSyncAfterReset(t *testing.T) {
	f := NewLoginForm()
	typeText(f, "alice")
	require.True(t, f.State().Begin())
	f.State().Finish(nil)

	f.Sync()
	assert.Empty(t, f.fields[0].input.Value())
}

func TestAuthFormClose(t *testing.T) {
	f := NewLoginForm()
	f.Close()
	assert.True(t, f.State().Closed())
}
