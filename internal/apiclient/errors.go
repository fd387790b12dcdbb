// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package apiclient

import (
	"errors"
	"strconv"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeNetwork means no HTTP response was received.
	ErrTypeNetwork
	// ErrTypeTimeout means the request deadline passed.
	ErrTypeTimeout
	// ErrTypeUnauthorized is a 401 from the backend.
	ErrTypeUnauthorized
	// ErrTypeServer is any other non-2xx response.
	ErrTypeServer
	// ErrTypeInvalidResponse means a 2xx body could not be used.
	ErrTypeInvalidResponse
)

// String returns a short name for logging.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNetwork:
		return "network"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeUnauthorized:
		return "unauthorized"
	case ErrTypeServer:
		return "server"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the backend client.
type ClientError struct {
	Type ErrorType
	// Status is the HTTP status code, zero when no response arrived.
	Status int
	Message string
	// ServerMessage is the "error" field of the response body, if any.
	ServerMessage string
	Cause         error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg += " (status " + strconv.Itoa(e.Status) + ")"
	}
	if e.ServerMessage != "" {
		msg += ": " + e.ServerMessage
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Status: 401, Message: "unauthorized"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// Is matches on Type so errors.Is(err, ErrUnauthorized) works for any 401.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Status == 0 || t.Status == e.Status)
}

// TypeOf returns the ErrorType of err, or ErrTypeUnknown.
func TypeOf(err error) ErrorType {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return ErrTypeUnknown
}

// IsUnauthorized checks if the backend rejected the credentials or token.
func IsUnauthorized(err error) bool {
	return TypeOf(err) == ErrTypeUnauthorized
}

// IsNetwork checks if the request never produced a usable response.
func IsNetwork(err error) bool {
	switch TypeOf(err) {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeInvalidResponse:
		return true
	}
	return false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return TypeOf(err) == ErrTypeTimeout
}

// ServerMessage returns the backend's "error" text carried by err, if any.
func ServerMessage(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.ServerMessage
	}
	return ""
}
