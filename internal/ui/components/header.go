// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatbot-tui/internal/session"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
	"github.com/jeranaias/chatbot-tui/internal/util"
)

// Header is the top bar: brand on the left, session state on the right.
type Header struct {
	Title    string
	State    session.State
	Username string
	Width    int
}

// View renders the header.
func (h Header) View(theme *styles.Theme) string {
	left := theme.HeaderBrand.Render(h.Title)

	var right string
	switch h.State {
	case session.StateAuthenticated:
		right = theme.UserOnline.Render("logged in as " + h.Username)
	case session.StateAnonymous:
		right = theme.UserOffline.Render("not logged in")
	default:
		right = theme.ThinkingText.Render("checking session...")
	}

	inner := h.Width - theme.Header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return theme.Header.Width(h.Width).Render(left + util.PadRight("", gap) + right)
}
