// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatbot-tui/internal/apiclient"
	"github.com/jeranaias/chatbot-tui/internal/authflow"
	convo "github.com/jeranaias/chatbot-tui/internal/chat"
	"github.com/jeranaias/chatbot-tui/internal/config"
	"github.com/jeranaias/chatbot-tui/internal/credstore"
	"github.com/jeranaias/chatbot-tui/internal/logging"
	"github.com/jeranaias/chatbot-tui/internal/session"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
)

// Options holds the global flags.
type Options struct {
	ConfigPath string
	APIURL     string
	Debug      bool
	NoColor    bool
	Ephemeral  bool
}

// LoadConfig reads configuration and applies flag overrides.
func LoadConfig(opts Options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFromPath(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.Ephemeral {
		cfg.Auth.TokenStore = config.TokenStoreMemory
	}
	if opts.NoColor {
		cfg.UI.NoColor = true
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// App is the wired client shared by every command.
type App struct {
	Config   *config.Config
	Store    credstore.Store
	Client   *apiclient.Client
	Session  *session.Manager
	Chat     *convo.Session
	Login    *authflow.Login
	Register *authflow.Registration

	logCloser io.Closer
}

// NewApp loads configuration and connects the components. The chat session
// is subscribed to the session manager so a rejected stored token is
// reported in the thread.
func NewApp(opts Options) (*App, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}

	if cfg.UI.NoColor {
		ForceColorsEnabled(false)
		styles.DisableColor()
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil, errors.Wrap(err, "create config directory")
	}
	closer, err := logging.Setup(logging.Options{
		Level: cfg.Log.Level,
		File:  logPath,
		Debug: opts.Debug,
	})
	if err != nil {
		return nil, err
	}

	policy, err := authflow.PolicyByName(cfg.Auth.PasswordPolicy)
	if err != nil {
		closer.Close()
		return nil, err
	}

	store, err := credstore.Open(cfg)
	if err != nil {
		closer.Close()
		return nil, errors.Wrap(err, "open credential store")
	}

	client := apiclient.NewClient(apiclient.ConfigFrom(cfg, Version))
	mgr := session.NewManager(store, client, session.Config{VerifyTimeout: cfg.VerifyTimeout()})
	chat := convo.New(client, mgr, cfg.Timeout())
	mgr.Subscribe(chat)

	log.Info().
		Str("version", Version).
		Str("api", cfg.API.BaseURL).
		Str("token_store", cfg.Auth.TokenStore).
		Str("session_id", mgr.SessionID()).
		Msg("client started")

	return &App{
		Config:    cfg,
		Store:     store,
		Client:    client,
		Session:   mgr,
		Chat:      chat,
		Login:     authflow.NewLogin(client, mgr, cfg.Timeout()),
		Register:  authflow.NewRegistration(client, policy, cfg.Timeout()),
		logCloser: closer,
	}, nil
}

// Close releases the credential store and the log file.
func (a *App) Close() error {
	err := a.Store.Close()
	if cerr := a.logCloser.Close(); err == nil {
		err = cerr
	}
	return err
}
