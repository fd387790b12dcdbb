// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package authflow

import (
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/jeranaias/chatbot-tui/internal/config"
)

// PasswordPolicy checks a new password before registration.
type PasswordPolicy struct {
	Name          string
	MinLength     int
	RequireSymbol bool
	Message       string
}

var (
	// PolicyMin8 matches the backend's minimum length rule.
	PolicyMin8 = PasswordPolicy{
		Name:      config.PolicyMin8,
		MinLength: 8,
		Message:   "Password must be at least 8 characters long.",
	}

	// PolicyMin6Symbol requires six characters including a symbol.
	PolicyMin6Symbol = PasswordPolicy{
		Name:          config.PolicyMin6Symbol,
		MinLength:     6,
		RequireSymbol: true,
		Message:       "Password must be at least 6 characters long and include a special character.",
	}
)

// PolicyByName returns the named policy.
func PolicyByName(name string) (PasswordPolicy, error) {
	switch name {
	case config.PolicyMin8, "":
		return PolicyMin8, nil
	case config.PolicyMin6Symbol:
		return PolicyMin6Symbol, nil
	default:
		return PasswordPolicy{}, errors.Errorf("unknown password policy %q", name)
	}
}

// Check returns a ValidationError when password does not satisfy the policy.
// Length is counted in runes.
func (p PasswordPolicy) Check(password string) error {
	if utf8.RuneCountInString(password) < p.MinLength {
		return &ValidationError{Field: "password", Message: p.Message}
	}
	if p.RequireSymbol && !hasSymbol(password) {
		return &ValidationError{Field: "password", Message: p.Message}
	}
	return nil
}

func hasSymbol(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
