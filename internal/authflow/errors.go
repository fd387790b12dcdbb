// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import (
	"errors"
)

// User-visible messages.
const (
	MsgLoginRequired      = "Username and password are required"
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoginNetwork       = "Network error. Please try again."

	MsgAllFieldsRequired = "All fields are required"
	MsgPasswordMismatch  = "Passwords do not match"
	MsgRegistered        = "Registration successful! Please log in."
	MsgRegisterFailed    = "Registration failed. Please check your inputs."
	MsgRegisterNetwork   = "An error occurred. Please try again."
)

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("a request is already in progress")

// ValidationError is a local input problem; nothing was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Failure is a rejected or failed submission. Message is shown to the user.
type Failure struct {
	Message string
	Cause   error
}

func (e *Failure) Error() string {
	return e.Message
}

func (e *Failure) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is a local validation error.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Message returns the text to display for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
