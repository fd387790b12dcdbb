// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/chatbot-tui/internal/apiclient"
	"github.com/jeranaias/chatbot-tui/internal/model"
)

// DefaultTimeout bounds a single login or registration request.
const DefaultTimeout = 30 * time.Second

// LoginClient is the backend call the login flow needs.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (*apiclient.LoginResponse, error)
}

// SessionStarter records a successful login.
type SessionStarter interface {
	CompleteLogin(ctx context.Context, token string, user model.User) error
}

// Login submits credentials and starts a session on success.
type Login struct {
	client  LoginClient
	session SessionStarter
	timeout time.Duration
	sem     *semaphore.Weighted
}

// NewLogin creates a login flow. A zero timeout uses DefaultTimeout.
func NewLogin(client LoginClient, session SessionStarter, timeout time.Duration) *Login {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Login{
		client:  client,
		session: session,
		timeout: timeout,
		sem:     semaphore.NewWeighted(1),
	}
}

// Submit logs in. The returned error's text is the message to display.
func (l *Login) Submit(ctx context.Context, username, password string) (*model.User, error) {
	username = normalizeUsername(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, &ValidationError{Field: FieldUsername, Message: MsgLoginRequired}
	}

	if !l.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer l.sem.Release(1)

	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.client.Login(reqCtx, username, password)
	if err != nil {
		log.Info().
			Str("user", username).
			Str("error_type", apiclient.TypeOf(err).String()).
			Msg("login failed")
		return nil, loginFailure(err)
	}

	user := resp.User()
	if user.Username == "" {
		user.Username = username
	}
	if err := l.session.CompleteLogin(ctx, resp.Token, user); err != nil {
		// Session is live for this run; only persistence failed.
		log.Warn().Err(err).Msg("login succeeded but token was not saved")
	}
	return &user, nil
}

// SubmitForm runs Submit with the form's fields and records the result.
// It returns ErrBusy when the form is already loading or closed.
func (l *Login) SubmitForm(ctx context.Context, form *FormState) (*model.User, error) {
	username := form.Value(FieldUsername)
	password := form.Value(FieldPassword)

	if err := validateLogin(username, password); err != nil {
		form.Fail(err)
		return nil, err
	}
	if !form.Begin() {
		return nil, ErrBusy
	}
	user, err := l.Submit(ctx, username, password)
	form.Finish(err)
	return user, err
}

func validateLogin(username, password string) error {
	if normalizeUsername(username) == "" || strings.TrimSpace(password) == "" {
		return &ValidationError{Field: FieldUsername, Message: MsgLoginRequired}
	}
	return nil
}

// loginFailure maps a client error to the message shown on the login form.
func loginFailure(err error) error {
	switch {
	case apiclient.IsUnauthorized(err):
		return &Failure{Message: MsgInvalidCredentials, Cause: err}
	case apiclient.TypeOf(err) == apiclient.ErrTypeServer && apiclient.ServerMessage(err) != "":
		return &Failure{Message: apiclient.ServerMessage(err), Cause: err}
	default:
		return &Failure{Message: MsgLoginNetwork, Cause: err}
	}
}

// normalizeUsername trims and NFC-normalizes a username.
func normalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
