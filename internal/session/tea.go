// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbot-tui/internal/model"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// StateChangedMsg is sent when the session settles into a new state.
type StateChangedMsg struct {
	State State
	User  *model.User
}

// ExpiredMsg is sent when a stored token was rejected during Bootstrap.
type ExpiredMsg struct {
	Reason string
}

// BootstrapCmd runs Bootstrap off the UI goroutine.
func (m *Manager) BootstrapCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		state := m.Bootstrap(ctx)
		return StateChangedMsg{State: state, User: m.User()}
	}
}

// Sender is the part of *tea.Program a ProgramListener needs.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramListener forwards manager notifications into a Bubble Tea program.
type ProgramListener struct {
	Program Sender
}

func (p ProgramListener) SessionChanged(state State, user *model.User) {
	p.Program.Send(StateChangedMsg{State: state, User: user})
}

func (p ProgramListener) SessionExpired(reason string) {
	p.Program.Send(ExpiredMsg{Reason: reason})
}
