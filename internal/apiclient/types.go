// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"github.com/jeranaias/chatbot-tui/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// LoginRequest is the body of POST /api/login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/register/.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ChatRequest is the body of POST /api/chat/.
type ChatRequest struct {
	Message string `json:"message"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   int64  `json:"user_id"`
}

// User converts the response into the profile kept by the session.
func (r *LoginResponse) User() model.User {
	return model.User{ID: r.UserID, Username: r.Username, Email: r.Email}
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
}

// ChatResponse is the raw body of a successful chat call.
type ChatResponse struct {
	Response string `json:"response"`
	Format   string `json:"format,omitempty"`
}

// ChatReply is a decoded chat response with its format resolved.
type ChatReply struct {
	Text   string
	Format model.Format
	// RawFormat is the tag exactly as the backend sent it.
	RawFormat string
}

// errorBody is the shape of backend error responses.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (b errorBody) message() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Detail
}
