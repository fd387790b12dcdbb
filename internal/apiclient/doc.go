// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apiclient provides the HTTP client for the chatbot backend.
//
// The backend exposes four JSON endpoints:
//
//   - POST /api/login/     exchange credentials for a token
//   - POST /api/register/  create an account
//   - GET  /api/user/      verify a token and fetch the profile
//   - POST /api/chat/      send a message and receive a formatted reply
//
// Authenticated endpoints carry "Authorization: Token <token>". Every request
// carries an X-Request-ID so client and server logs can be correlated.
//
// # Errors
//
// All failures are returned as *ClientError. Callers branch on the Type:
//
//	reply, err := client.Chat(ctx, token, "hello")
//	if apiclient.IsUnauthorized(err) {
//	    // token rejected, drop the session
//	}
//
// The token is never written to the log.
package apiclient
