// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credstore

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatbot-tui/internal/util"
)

// storedCredential is the on-disk document of a FileStore.
type storedCredential struct {
	Token string `json:"token"`
}

// FileStore keeps the token in a small JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path. The file is created on Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "read credential file")
	}

	var cred storedCredential
	if err := json.Unmarshal(data, &cred); err != nil {
		return "", false, errors.Wrap(err, "decode credential file")
	}
	if cred.Token == "" {
		return "", false, nil
	}
	return cred.Token, true, nil
}

func (s *FileStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(storedCredential{Token: token})
	if err != nil {
		return errors.Wrap(err, "encode credential")
	}
	// SECURITY: owner read/write only
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return errors.Wrap(err, "write credential file")
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove credential file")
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
