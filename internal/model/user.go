// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// User is the profile of an authenticated account as reported by the backend.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// DisplayName returns the username, or "unknown" for an empty profile.
func (u User) DisplayName() string {
	if u.Username == "" {
		return "unknown"
	}
	return u.Username
}
