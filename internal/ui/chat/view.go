// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatbot-tui/internal/commands"
	"github.com/jeranaias/chatbot-tui/internal/session"
	"github.com/jeranaias/chatbot-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	h := components.Header{
		Title: m.deps.Title,
		State: m.authState,
		Width: m.width,
	}
	if m.user != nil {
		h.Username = m.user.Username
	}
	return h.View(m.theme)
}

// renderBody shows the thread, or the auth overlay centered over it.
func (m Model) renderBody() string {
	if m.overlay == nil {
		return m.viewport.View()
	}
	return lipgloss.Place(
		m.viewport.Width, m.viewport.Height,
		lipgloss.Center, lipgloss.Center,
		m.overlay.View(m.theme),
	)
}

func (m Model) renderInput() string {
	if m.sending {
		line := m.spinner.View() + " " + m.theme.ThinkingText.Render("Waiting for reply...")
		return m.theme.InputContainer.Width(m.width - 2).Render(line)
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	return components.StatusBar{
		Shortcuts: m.shortcuts(),
		Notice:    m.notice,
		Error:     m.errText,
		Width:     m.width,
	}.View(m.theme)
}

func (m Model) shortcuts() []components.Shortcut {
	if m.overlay != nil {
		return []components.Shortcut{
			{Key: "enter", Desc: "submit"},
			{Key: "tab", Desc: "next field"},
			{Key: "esc", Desc: "close"},
		}
	}

	out := []components.Shortcut{{Key: "enter", Desc: "send"}}
	if m.authState == session.StateAuthenticated {
		out = append(out, components.Shortcut{Key: "/logout", Desc: "sign out"})
	} else {
		out = append(out, components.Shortcut{Key: "/login", Desc: "sign in"})
	}
	if commands.IsCommand(m.input.Value()) {
		out = append(out, components.Shortcut{Key: "tab", Desc: "complete"})
	}
	out = append(out,
		components.Shortcut{Key: "pgup", Desc: "scroll"},
		components.Shortcut{Key: "ctrl+c", Desc: "quit"},
	)
	return out
}
