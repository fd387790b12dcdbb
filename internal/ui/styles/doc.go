// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatbot TUI.
//
// Colors are Lip Gloss AdaptiveColors so the palette follows the terminal's
// light or dark background. Theme bundles the styles used by the chat view
// and the auth overlays.
//
// # Accessibility
//
// Status text always carries a shape indicator (see StatusIndicators) in
// addition to color, so nothing depends on color alone. With --no-color the
// lipgloss color profile is set to ASCII and all styles degrade to plain
// text.
package styles
