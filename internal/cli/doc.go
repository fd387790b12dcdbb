// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the chatbot command tree.
//
// Running chatbot with no subcommand starts the full-screen TUI. The other
// commands work in plain terminals and scripts.
//
// # Key Types
//
//   - Options: global flags shared by every command
//   - App: the wired client (config, credential store, session, chat)
//   - ChatCLI: line editing and history for the chat REPL
//
// # Commands Overview
//
//   - (none): full-screen chat
//   - chat: line-mode chat REPL
//   - login, logout, register: account management
//   - status: session state, optionally as JSON
//   - config show|path: inspect configuration
//   - version: build information
//
// # Usage
//
//	os.Exit(cli.Execute())
package cli
