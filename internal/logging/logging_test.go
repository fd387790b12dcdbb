// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetupFile(t *testing.T) {
	restoreLogger(t)
	path := filepath.Join(t.TempDir(), "logs", "chatbot.log")

	closer, err := Setup(Options{Level: "info", File: path})
	require.NoError(t, err)

	log.Info().Str("event", "startup").Msg("hello")
	log.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"event":"startup"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupDebug(t *testing.T) {
	restoreLogger(t)
	var buf bytes.Buffer

	_, err := Setup(Options{Level: "warn", Debug: true, Console: &buf})
	require.NoError(t, err)

	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetupInvalidLevel(t *testing.T) {
	restoreLogger(t)
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
}
