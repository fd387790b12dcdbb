// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view of the TUI.
//
// Model is a Bubble Tea model that shows the conversation thread, an input
// line and the login/registration overlays. It holds no conversation or
// session state of its own: every network operation runs as a tea.Cmd
// against the shared chat session, session manager and auth flows, and the
// view is re-rendered from their snapshots.
//
// # Slash Commands
//
// Slash commands come from the shared commands registry. Tab completes a
// partially typed command name.
//
//	/login     open the login overlay
//	/register  open the registration overlay (alias /signup)
//	/logout    end the session
//	/status    show who is logged in
//	/clear     clear the conversation
//	/help      list commands
//	/quit      exit (aliases /q, /exit)
package chat
