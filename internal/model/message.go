// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the chat client.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "Bot"
	default:
		return string(r)
	}
}

// =============================================================================
// FORMAT TYPE
// =============================================================================

// Format describes how the text of a message is structured for display.
// It is a closed set; anything the backend sends outside it is Plain.
type Format int

const (
	FormatPlain Format = iota
	FormatList
	FormatMathSteps
)

// String returns the canonical tag for the format.
func (f Format) String() string {
	switch f {
	case FormatList:
		return "list"
	case FormatMathSteps:
		return "math-steps"
	default:
		return "plain"
	}
}

// ParseFormat maps a backend format tag to a Format.
// Unknown and empty tags map to FormatPlain.
func ParseFormat(tag string) Format {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "list", "ordered-list", "ordered_list":
		return FormatList
	case "math", "math-steps", "math_steps", "steps":
		return FormatMathSteps
	default:
		return FormatPlain
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails.
func (f *Format) UnmarshalText(text []byte) error {
	*f = ParseFormat(string(text))
	return nil
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in the chat thread. Messages are values and are
// never modified after they are appended to a history.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Format    Format    `json:"format"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, text string, format Format) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Format:    format,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message. User input is always plain.
func NewUserMessage(text string) Message {
	return NewMessage(RoleUser, text, FormatPlain)
}

// NewBotMessage creates a bot message with the given format.
func NewBotMessage(text string, format Format) Message {
	return NewMessage(RoleBot, text, format)
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Preview returns the first maxLen runes of the text on a single line.
func (m Message) Preview(maxLen int) string {
	text := strings.ReplaceAll(m.Text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
