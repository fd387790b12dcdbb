// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatbot-tui/internal/config"
)

// Key is the single well-known key the token is stored under.
const Key = "session_token"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("credential store is closed")

// Store holds at most one session token.
type Store interface {
	// Get returns the stored token. ok is false when no token is stored.
	Get(ctx context.Context) (token string, ok bool, err error)
	// Set replaces the stored token.
	Set(ctx context.Context, token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
	// Close releases resources held by the store.
	Close() error
}

// Open returns the store selected by cfg.Auth.TokenStore.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Auth.TokenStore {
	case config.TokenStoreMemory:
		return NewMemoryStore(), nil
	case config.TokenStoreSQLite:
		path, err := cfg.TokenPath()
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path)
	case config.TokenStoreFile, "":
		path, err := cfg.TokenPath()
		if err != nil {
			return nil, err
		}
		return NewFileStore(path), nil
	default:
		return nil, errors.Errorf("unknown token store %q", cfg.Auth.TokenStore)
	}
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	token  string
	ok     bool
	closed bool
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWithToken creates a memory store that already holds token.
func NewMemoryStoreWithToken(token string) *MemoryStore {
	return &MemoryStore{token: token, ok: true}
}

func (s *MemoryStore) Get(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	return s.token, s.ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.token, s.ok = token, true
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.token, s.ok = "", false
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
