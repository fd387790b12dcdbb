// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the chatbot client.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// Display Helpers:
//   - TruncateWidth: Truncate to a terminal column width
//   - StringWidth: Display width of a string (CJK aware)
//   - MaskSecret: Render a secret for status output without revealing it
//
// # Usage
//
//	// Write the credential file atomically with owner-only permissions
//	err := util.AtomicWriteFile(path, data, 0600)
//
//	// Fit a preview into a status column
//	line := util.TruncateWidth(preview, 40)
package util
