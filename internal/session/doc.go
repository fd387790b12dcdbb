// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authentication state of the client.
//
// A Manager starts in StateUnknown. Bootstrap reads the stored token and
// either verifies it against the backend (StateAuthenticated) or settles on
// StateAnonymous. Login, logout and expiry move between the two settled
// states. The manager is the only writer of the credential store, so the
// in-memory state and the stored token never disagree: entering
// StateAnonymous always clears the token.
//
// # Key Types
//
//   - Manager: the session state machine
//   - Listener: observer of state changes and expiry
//   - StateChangedMsg, ExpiredMsg: Bubble Tea messages
//
// # Usage
//
//	mgr := session.NewManager(store, client, session.DefaultConfig())
//	mgr.Subscribe(chatSession)
//	if mgr.Bootstrap(ctx) == session.StateAuthenticated {
//	    fmt.Println("welcome back,", mgr.User().Username)
//	}
package session
