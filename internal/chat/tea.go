// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ReplyMsg carries the result of a send back to the Bubble Tea loop.
type ReplyMsg struct {
	Result Result
}

// SendCmd runs Send off the UI goroutine.
func (s *Session) SendCmd(ctx context.Context, raw string) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: s.Send(ctx, raw)}
	}
}
