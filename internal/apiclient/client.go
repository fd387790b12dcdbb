// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/chatbot-tui/internal/config"
	"github.com/jeranaias/chatbot-tui/internal/model"
)

// Endpoint paths. The trailing slashes are significant to the backend.
const (
	PathLogin    = "/api/login/"
	PathRegister = "/api/register/"
	PathUser     = "/api/user/"
	PathChat     = "/api/chat/"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend origin (default: http://localhost:8000)
	BaseURL string

	// Timeout applies to every request (default: 30s)
	Timeout time.Duration

	// RateLimit caps requests per second; zero disables limiting.
	RateLimit float64

	// UserAgent is sent on every request (default: chatbot)
	UserAgent string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://localhost:8000",
		Timeout:   30 * time.Second,
		UserAgent: "chatbot",
	}
}

// ConfigFrom builds a client configuration from application config.
func ConfigFrom(cfg *config.Config, version string) *ClientConfig {
	cc := DefaultConfig()
	cc.BaseURL = cfg.API.BaseURL
	cc.Timeout = cfg.Timeout()
	cc.RateLimit = cfg.API.RateLimit
	if version != "" {
		cc.UserAgent = "chatbot/" + version
	}
	return cc
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chatbot backend.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client. A nil config uses DefaultConfig.
func NewClient(cfg *ClientConfig) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "chatbot"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{config: cfg, httpClient: httpClient}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, "", LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Status: http.StatusOK, Message: "login response has no token"}
	}
	return &resp, nil
}

// Register creates an account. The response body is optional.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, PathRegister, "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyToken checks token against the backend and returns its profile.
func (c *Client) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, PathUser, token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends one message and returns the bot's reply.
func (c *Client) Chat(ctx context.Context, token, message string) (*ChatReply, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, PathChat, token, ChatRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &ChatReply{
		Text:      resp.Response,
		Format:    model.ParseFormat(resp.Format),
		RawFormat: resp.Format,
	}, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one JSON request. out may be nil; an empty 2xx body is accepted.
func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return classifyTransportError(ctx, err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeNetwork, Message: "failed to create request", Cause: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Err(err).
			Msg("api request failed")
		return classifyTransportError(ctx, err)
	}
	defer drainAndClose(resp.Body)

	log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Status: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// statusError converts a non-2xx response into a ClientError.
func statusError(resp *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(data) > 0 {
		_ = json.Unmarshal(data, &eb)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &ClientError{
			Type:          ErrTypeUnauthorized,
			Status:        resp.StatusCode,
			Message:       "unauthorized",
			ServerMessage: eb.message(),
		}
	}
	return &ClientError{
		Type:          ErrTypeServer,
		Status:        resp.StatusCode,
		Message:       "request failed: " + resp.Status,
		ServerMessage: eb.message(),
	}
}

// classifyTransportError maps errors that happened before a status arrived.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeNetwork, Message: "backend unreachable", Cause: err}
}

// drainAndClose discards at most maxErrorBody bytes so the connection can
// be reused, then closes the body.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, io.LimitReader(r, maxErrorBody))
	r.Close()
}
