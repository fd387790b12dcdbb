// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/jeranaias/chatbot-tui/internal/apiclient"
)

// RegisterClient is the backend call the registration flow needs.
type RegisterClient interface {
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.RegisterResponse, error)
}

// RegisterInput holds the registration form fields.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Registered is the result of a successful registration.
type Registered struct {
	Username string
	Message  string
}

// Registration creates accounts. It never logs the user in.
type Registration struct {
	client  RegisterClient
	policy  PasswordPolicy
	timeout time.Duration
	sem     *semaphore.Weighted
}

// NewRegistration creates a registration flow.
func NewRegistration(client RegisterClient, policy PasswordPolicy, timeout time.Duration) *Registration {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if policy.MinLength == 0 {
		policy = PolicyMin8
	}
	return &Registration{
		client:  client,
		policy:  policy,
		timeout: timeout,
		sem:     semaphore.NewWeighted(1),
	}
}

// Policy returns the password policy in force.
func (r *Registration) Policy() PasswordPolicy {
	return r.policy
}

// Validate checks the input without contacting the backend.
func (r *Registration) Validate(in RegisterInput) error {
	if normalizeUsername(in.Username) == "" || strings.TrimSpace(in.Email) == "" ||
		in.Password == "" || in.ConfirmPassword == "" {
		return &ValidationError{Field: FieldUsername, Message: MsgAllFieldsRequired}
	}
	if in.Password != in.ConfirmPassword {
		return &ValidationError{Field: FieldConfirmPassword, Message: MsgPasswordMismatch}
	}
	return r.policy.Check(in.Password)
}

// Submit registers an account. The returned error's text is the message
// to display.
func (r *Registration) Submit(ctx context.Context, in RegisterInput) (*Registered, error) {
	if err := r.Validate(in); err != nil {
		return nil, err
	}

	if !r.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer r.sem.Release(1)

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	username := normalizeUsername(in.Username)
	_, err := r.client.Register(reqCtx, apiclient.RegisterRequest{
		Username:        username,
		Email:           strings.TrimSpace(in.Email),
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	})
	if err != nil {
		log.Info().
			Str("user", username).
			Str("error_type", apiclient.TypeOf(err).String()).
			Msg("registration failed")
		return nil, registerFailure(err)
	}

	log.Info().Str("user", username).Msg("registration succeeded")
	return &Registered{Username: username, Message: MsgRegistered}, nil
}

// SubmitForm runs Submit with the form's fields and records the result.
// On success the form shows the confirmation notice.
func (r *Registration) SubmitForm(ctx context.Context, form *FormState) (*Registered, error) {
	in := RegisterInput{
		Username:        form.Value(FieldUsername),
		Email:           form.Value(FieldEmail),
		Password:        form.Value(FieldPassword),
		ConfirmPassword: form.Value(FieldConfirmPassword),
	}
	if err := r.Validate(in); err != nil {
		form.Fail(err)
		return nil, err
	}
	if !form.Begin() {
		return nil, ErrBusy
	}
	res, err := r.Submit(ctx, in)
	form.Finish(err)
	if err == nil {
		form.SetNotice(res.Message)
	}
	return res, err
}

// registerFailure maps a client error to the message shown on the form.
func registerFailure(err error) error {
	switch apiclient.TypeOf(err) {
	case apiclient.ErrTypeServer, apiclient.ErrTypeUnauthorized:
		if msg := apiclient.ServerMessage(err); msg != "" {
			return &Failure{Message: msg, Cause: err}
		}
		return &Failure{Message: MsgRegisterFailed, Cause: err}
	default:
		return &Failure{Message: MsgRegisterNetwork, Cause: err}
	}
}
