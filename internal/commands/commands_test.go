// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// PARSER HELPER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/login now", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/login alice", "/login"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		got := ExtractCommandName(tc.input)
		if got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestGetPartialCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/hel", "/hel"},
		{"/help", "/help"},
		{"/login ", ""},      // Space after command means complete
		{"/login alice", ""}, // Has arguments
		{"hello", ""},
	}

	for _, tc := range tests {
		got := GetPartialCommand(tc.input)
		if got != tc.want {
			t.Errorf("GetPartialCommand(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"/login", "/register", "/logout", "/status", "/clear", "/help", "/quit"} {
		if r.Get(name) == nil {
			t.Errorf("built-in command %s not registered", name)
		}
	}
	if got := len(r.All()); got != 7 {
		t.Errorf("All() returned %d commands, want 7", got)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name   string
		action Action
	}{
		{"/signup", ActionRegister},
		{"/exit", ActionQuit},
		{"/q", ActionQuit},
		{"/?", ActionHelp},
		{"/c", ActionClear},
		{"/LOGIN", ActionLogin},
	}

	for _, tc := range tests {
		cmd := r.Get(tc.name)
		if cmd == nil {
			t.Errorf("Get(%q) = nil", tc.name)
			continue
		}
		if cmd.Action != tc.action {
			t.Errorf("Get(%q).Action = %v, want %v", tc.name, cmd.Action, tc.action)
		}
	}

	if r.Get("/model") != nil {
		t.Error("Get(/model) should be nil")
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(&Command{Name: "/whoami", Aliases: []string{"/me"}, Action: ActionStatus})

	if r.Get("/me") == nil || r.Get("/me").Name != "/whoami" {
		t.Error("alias /me should resolve to /whoami")
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	cats := NewRegistry().ByCategory()

	if len(cats["Account"]) != 4 {
		t.Errorf("Account has %d commands, want 4", len(cats["Account"]))
	}
	if len(cats["Navigation"]) != 2 {
		t.Errorf("Navigation has %d commands, want 2", len(cats["Navigation"]))
	}
}

func TestRegistry_HelpLine(t *testing.T) {
	got := NewRegistry().HelpLine()
	want := "/login /register /logout /clear /status /help /quit"
	if got != want {
		t.Errorf("HelpLine() = %q, want %q", got, want)
	}
}

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParser_Parse(t *testing.T) {
	p := NewParser(NewRegistry())

	tests := []struct {
		input     string
		isCommand bool
		cmdName   string
		argsLen   int
	}{
		{"/help", true, "/help", 0},
		{"/login alice", true, "/login", 1},
		{"hello world", false, "", 0},
		{"/nonexistent", true, "/nonexistent", 0},
		{`/login "a b"`, true, "/login", 1},
	}

	for _, tc := range tests {
		result := p.Parse(tc.input)

		if result.IsCommand != tc.isCommand {
			t.Errorf("Parse(%q).IsCommand = %v, want %v", tc.input, result.IsCommand, tc.isCommand)
		}
		if result.CommandName != tc.cmdName {
			t.Errorf("Parse(%q).CommandName = %q, want %q", tc.input, result.CommandName, tc.cmdName)
		}
		if len(result.Args) != tc.argsLen {
			t.Errorf("Parse(%q) args length = %d, want %d", tc.input, len(result.Args), tc.argsLen)
		}
	}
}

func TestParser_UnknownCommand(t *testing.T) {
	p := NewParser(NewRegistry())

	result := p.Parse("/logni")
	var unknown *UnknownCommandError
	if !errors.As(result.Error, &unknown) {
		t.Fatalf("Parse(/logni).Error = %v, want UnknownCommandError", result.Error)
	}
	if unknown.Suggestion != "/login" {
		t.Errorf("Suggestion = %q, want /login", unknown.Suggestion)
	}
	if !strings.Contains(unknown.Error(), "did you mean /login?") {
		t.Errorf("Error() = %q", unknown.Error())
	}

	result = p.Parse("/frobnicate")
	if result.Error == nil || !strings.Contains(result.Error.Error(), "try /help") {
		t.Errorf("Parse(/frobnicate).Error = %v", result.Error)
	}

	if p.Parse("/help").Error != nil {
		t.Error("known command should not carry an error")
	}
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter(NewRegistry())

	tests := []struct {
		input string
		want  []string
	}{
		{"/log", []string{"/login", "/logout"}},
		{"/re", []string{"/register"}},
		{"/si", []string{"/signup"}},
		{"/login ", nil},
		{"hello", nil},
	}

	for _, tc := range tests {
		got := c.Lines(tc.input)
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Errorf("Lines(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCompleter_AliasesRankBelowNames(t *testing.T) {
	completions := NewCompleter(NewRegistry()).Complete("/")
	if len(completions) == 0 {
		t.Fatal("expected completions for /")
	}
	if strings.Contains(completions[0].Display, "->") {
		t.Errorf("first completion %q is an alias", completions[0].Display)
	}
}
