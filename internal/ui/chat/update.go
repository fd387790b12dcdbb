// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbot-tui/internal/authflow"
	convo "github.com/jeranaias/chatbot-tui/internal/chat"
	"github.com/jeranaias/chatbot-tui/internal/commands"
	"github.com/jeranaias/chatbot-tui/internal/session"
	"github.com/jeranaias/chatbot-tui/internal/ui/components"
)

// Layout heights of the fixed rows around the viewport.
const (
	headerHeight    = 1
	inputAreaHeight = 2 // border + input line
	statusBarHeight = 1
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case session.StateChangedMsg:
		m.authState = msg.State
		m.user = msg.User
		m.refresh()
		return m, nil

	case session.ExpiredMsg:
		m.openLogin()
		m.refresh()
		return m, nil

	case HistoryChangedMsg:
		m.refresh()
		return m, nil

	case convo.ReplyMsg:
		return m.handleReply(msg.Result)

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case registerDoneMsg:
		return m.handleRegisterDone(msg)

	case logoutDoneMsg:
		m.authState = session.StateAnonymous
		m.user = nil
		if msg.err != nil {
			m.setError("Logged out, but the saved token could not be removed")
		} else {
			m.setNotice("Logged out")
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.overlay != nil {
		cmd = m.overlay.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	viewportHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = viewportHeight

	// "> " prompt plus container padding
	inputWidth := m.width - 4 - 2
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.theme.SetSize(m.width, m.height)
	m.renderer.SetWidth(m.width - 1)
	m.refresh()
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.closeOverlay()
		return m, tea.Quit
	}

	if m.overlay != nil {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submitInput()
	case key.Matches(msg, m.keyMap.Cancel):
		m.notice, m.errText = "", ""
		return m, nil
	case key.Matches(msg, m.keyMap.Complete):
		m.completeInput()
		return m, nil
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.closeOverlay()
		return m, nil
	case key.Matches(msg, m.keyMap.Submit):
		return m.submitOverlay()
	case key.Matches(msg, m.keyMap.ToRegister) && m.overlay.Kind() == components.FormLogin:
		m.openRegister()
		return m, nil
	case key.Matches(msg, m.keyMap.ToLogin) && m.overlay.Kind() == components.FormRegister:
		m.openLogin()
		return m, nil
	}
	return m, m.overlay.Update(msg)
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return m, nil
	}
	if strings.HasPrefix(trimmed, "/") {
		m.input.Reset()
		return m.runCommand(trimmed)
	}
	if m.sending {
		m.setNotice("Still waiting for the previous reply")
		return m, nil
	}
	if !m.deps.Session.Authenticated() {
		m.setNotice("Please log in to chat")
		m.openLogin()
		return m, nil
	}

	m.sending = true
	m.notice, m.errText = "", ""
	m.input.Reset()
	return m, tea.Batch(m.deps.Chat.SendCmd(m.deps.Context, raw), m.spinner.Tick)
}

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	result := m.parser.Parse(line)
	if result.Error != nil {
		m.setError(result.Error.Error())
		return m, nil
	}

	switch result.Command.Action {
	case commands.ActionLogin:
		if m.deps.Session.Authenticated() {
			m.setNotice("Already logged in; use /logout first")
			return m, nil
		}
		m.openLogin()
		if len(result.Args) > 0 {
			m.overlay.SetValue(authflow.FieldUsername, result.Args[0])
		}
	case commands.ActionRegister:
		m.openRegister()
	case commands.ActionLogout:
		if !m.deps.Session.Authenticated() {
			m.setNotice("Not logged in")
			return m, nil
		}
		return m, m.logoutCmd()
	case commands.ActionClear:
		m.deps.Chat.Reset()
		m.refresh()
		m.setNotice("Conversation cleared")
	case commands.ActionStatus:
		m.setNotice(m.statusLine())
	case commands.ActionHelp:
		m.setNotice(m.commands.HelpLine())
	case commands.ActionQuit:
		return m, tea.Quit
	}
	return m, nil
}

// completeInput replaces a partial slash command with its best completion.
func (m *Model) completeInput() {
	completions := m.completer.Complete(m.input.Value())
	if len(completions) == 0 {
		return
	}
	m.input.SetValue(completions[0].Value + " ")
	m.input.CursorEnd()

	if len(completions) > 1 {
		names := make([]string, 0, len(completions))
		for _, c := range completions {
			names = append(names, c.Value)
		}
		m.setNotice(strings.Join(names, " "))
	}
}

func (m Model) statusLine() string {
	st := m.deps.Session.Status()
	if st.Username == "" {
		return "Not logged in (session " + st.SessionID + ")"
	}
	return "Logged in as " + st.Username + " for " + session.FormatDuration(st.Duration)
}

func (m Model) logoutCmd() tea.Cmd {
	mgr, ctx := m.deps.Session, m.deps.Context
	return func() tea.Msg {
		return logoutDoneMsg{err: mgr.Logout(ctx)}
	}
}

// =============================================================================
// OVERLAY SUBMISSION
// =============================================================================

func (m Model) submitOverlay() (tea.Model, tea.Cmd) {
	form := m.overlay
	if form.State().Loading() {
		return m, nil
	}
	ctx := m.deps.Context

	switch form.Kind() {
	case components.FormLogin:
		flow := m.deps.Login
		return m, tea.Batch(func() tea.Msg {
			user, err := flow.SubmitForm(ctx, form.State())
			return loginDoneMsg{form: form, user: user, err: err}
		}, m.spinner.Tick)

	default:
		flow := m.deps.Register
		username := form.State().Value(authflow.FieldUsername)
		return m, tea.Batch(func() tea.Msg {
			res, err := flow.SubmitForm(ctx, form.State())
			return registerDoneMsg{form: form, username: username, result: res, err: err}
		}, m.spinner.Tick)
	}
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil && msg.user != nil {
		m.authState = session.StateAuthenticated
		m.user = msg.user
		if m.overlay == msg.form {
			m.closeOverlay()
		}
		m.setNotice("Logged in as " + msg.user.Username)
		return m, nil
	}
	if m.overlay == msg.form {
		m.overlay.Sync()
	}
	return m, nil
}

func (m Model) handleRegisterDone(msg registerDoneMsg) (tea.Model, tea.Cmd) {
	if m.overlay != msg.form {
		return m, nil
	}
	if msg.err != nil {
		m.overlay.Sync()
		return m, nil
	}

	m.openLogin()
	m.overlay.SetValue(authflow.FieldUsername, msg.result.Username)
	m.overlay.SetNotice(msg.result.Message)
	return m, nil
}

// =============================================================================
// CHAT REPLIES
// =============================================================================

func (m Model) handleReply(res convo.Result) (tea.Model, tea.Cmd) {
	m.sending = false
	m.refresh()

	switch res.Outcome {
	case convo.OutcomeBusy:
		m.setNotice("Still waiting for the previous reply")
	case convo.OutcomeLoginRequired:
		m.setNotice("Please log in to chat")
		m.openLogin()
	case convo.OutcomeExpired:
		m.authState = session.StateAnonymous
		m.user = nil
		m.openLogin()
	}
	return m, nil
}
