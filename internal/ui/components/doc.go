// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the UI building blocks of the chatbot TUI.

# Display Components

MessageRenderer (message.go) - Renders chat messages. Bot replies are
formatted into a reply.Tree first: list replies become numbered items,
math-steps replies get step headers and spacers, plain replies are shown
verbatim or, when enabled, through glamour's markdown renderer.

Header (header.go) - Title bar with the session state.
StatusBar (statusbar.go) - Key hints plus a transient notice or error.

# Input Components

AuthForm (authform.go) - The login and registration overlays. The form's
values, loading flag and error live in an authflow.FormState so results
that arrive after the overlay was dismissed are dropped.
*/
package components
