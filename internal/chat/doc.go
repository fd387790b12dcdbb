// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the conversation thread and the send protocol.
//
// Session.Send appends the user's message, calls the backend and appends
// exactly one bot message describing the outcome: the reply, an expiry
// notice or a generic failure. Only one send runs at a time. History is
// kept in memory for the life of the process.
package chat
