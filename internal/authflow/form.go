// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import (
	"sync"
)

// Field names used by the login and registration forms.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// FormState is the state of one open auth form.
//
// It is safe for concurrent use: submissions complete on a background
// goroutine while the UI keeps editing and reading it. Once closed, every
// mutation is ignored.
type FormState struct {
	mu      sync.Mutex
	values  map[string]string
	loading bool
	errMsg  string
	notice  string
	closed  bool
}

// NewFormState creates an empty, open form.
func NewFormState() *FormState {
	return &FormState{values: make(map[string]string)}
}

// Set stores a field value.
func (f *FormState) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.values[field] = value
}

// Value returns a field value.
func (f *FormState) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Loading reports whether a submission is in flight.
func (f *FormState) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Error returns the current error text.
func (f *FormState) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// Notice returns the current informational text.
func (f *FormState) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// Closed reports whether the form was dismissed.
func (f *FormState) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Begin marks a submission as started and clears old messages.
// It returns false if the form is closed or already loading.
func (f *FormState) Begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.loading {
		return false
	}
	f.loading = true
	f.errMsg = ""
	f.notice = ""
	return true
}

// Finish records the result of a submission. A nil err clears the fields.
// Finishing a closed form does nothing.
func (f *FormState) Finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.loading = false
	if err != nil {
		f.errMsg = Message(err)
		return
	}
	f.errMsg = ""
	f.values = make(map[string]string)
}

// Fail sets an error without a submission, e.g. for local validation.
func (f *FormState) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.errMsg = Message(err)
}

// SetNotice sets informational text such as a registration confirmation.
func (f *FormState) SetNotice(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.notice = msg
}

// Close dismisses the form. Pending results will be ignored.
func (f *FormState) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.loading = false
}
