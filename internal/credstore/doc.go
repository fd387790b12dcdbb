// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credstore persists the session token between runs.
//
// The token is opaque: stores never parse or validate it. Only the session
// manager writes to a store; every other component reads the token through
// the manager.
//
// # Backends
//
//   - FileStore: one JSON document written atomically with 0600 permissions
//   - SQLiteStore: a key/value table in a local SQLite database
//   - MemoryStore: process-local, nothing survives exit
//
// # Usage
//
//	store, err := credstore.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	token, ok, err := store.Get(ctx)
package credstore
