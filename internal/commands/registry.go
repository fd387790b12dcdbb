// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Action identifies what a command does.
type Action int

const (
	ActionHelp Action = iota
	ActionLogin
	ActionRegister
	ActionLogout
	ActionClear
	ActionStatus
	ActionQuit
)

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Action tells the frontend what to do
	Action Action

	// Category for grouping in help display
	Category string
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias. Lookup ignores case.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// HelpLine lists the primary command names on one line.
func (r *Registry) HelpLine() string {
	names := make([]string, 0, len(r.commands))
	for _, cmd := range r.ordered() {
		names = append(names, cmd.Name)
	}
	return strings.Join(names, " ")
}

// ordered returns commands in registration order for help output.
func (r *Registry) ordered() []*Command {
	order := []string{"/login", "/register", "/logout", "/clear", "/status", "/help", "/quit"}
	out := make([]*Command, 0, len(order))
	for _, name := range order {
		if cmd, ok := r.commands[name]; ok {
			out = append(out, cmd)
		}
	}
	return out
}

// Help returns the commands in display order.
func (r *Registry) Help() []*Command {
	return r.ordered()
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Account commands
	r.Register(&Command{
		Name:        "/login",
		Description: "Log in",
		Action:      ActionLogin,
		Category:    "Account",
	})

	r.Register(&Command{
		Name:        "/register",
		Aliases:     []string{"/signup"},
		Description: "Create an account",
		Action:      ActionRegister,
		Category:    "Account",
	})

	r.Register(&Command{
		Name:        "/logout",
		Description: "End the session",
		Action:      ActionLogout,
		Category:    "Account",
	})

	r.Register(&Command{
		Name:        "/status",
		Aliases:     []string{"/s"},
		Description: "Show the session",
		Action:      ActionStatus,
		Category:    "Account",
	})

	// Conversation commands
	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation",
		Action:      ActionClear,
		Category:    "Conversation",
	})

	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Action:      ActionHelp,
		Category:    "Navigation",
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit chatbot",
		Action:      ActionQuit,
		Category:    "Navigation",
	})
}
