// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/chatbot-tui/internal/authflow"
	"github.com/jeranaias/chatbot-tui/internal/model"
	"github.com/jeranaias/chatbot-tui/internal/ui/components"
)

// =============================================================================
// MESSAGES
// =============================================================================

// HistoryChangedMsg asks the view to re-render the thread. It is sent from
// the chat session's append hook.
type HistoryChangedMsg struct{}

// loginDoneMsg carries the result of a login submission.
type loginDoneMsg struct {
	form *components.AuthForm
	user *model.User
	err  error
}

// registerDoneMsg carries the result of a registration submission.
type registerDoneMsg struct {
	form     *components.AuthForm
	username string
	result   *authflow.Registered
	err      error
}

// logoutDoneMsg is sent after the session was cleared.
type logoutDoneMsg struct {
	err error
}
