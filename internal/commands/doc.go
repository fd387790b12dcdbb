// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command table shared by the chat
// screen and the line-mode REPL.
//
// Commands carry an Action rather than a handler: each frontend decides how
// to log in, clear or quit in its own event model. The registry resolves
// names and aliases, the parser splits input lines, and the completer
// offers command names for Tab completion.
//
// # Usage
//
//	reg := commands.NewRegistry()
//	res := commands.NewParser(reg).Parse(input)
//	if res.IsCommand && res.Command != nil {
//	    switch res.Command.Action { ... }
//	}
package commands
