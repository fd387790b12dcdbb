// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package authflow implements the login and registration flows.
//
// Each flow validates its input locally, talks to the backend at most once
// per submission and converts every outcome into a message fit for display.
// A flow accepts one submission at a time; a second submit while the first
// is in flight returns ErrBusy without sending anything.
//
// FormState holds the fields, loading flag and error text of an open form.
// Results that arrive after the form was closed are dropped.
package authflow
