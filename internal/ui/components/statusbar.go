// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
	"github.com/jeranaias/chatbot-tui/internal/util"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar shows key hints, or a notice/error when one is set.
type StatusBar struct {
	Shortcuts []Shortcut
	Notice    string
	Error     string
	Width     int
}

// View renders the status bar.
func (s StatusBar) View(theme *styles.Theme) string {
	inner := s.Width - theme.StatusBar.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	var content string
	switch {
	case s.Error != "":
		content = theme.ErrorText.Render(util.TruncateWidth(styles.StatusIndicators.Error+" "+s.Error, inner))
	case s.Notice != "":
		content = theme.Notice.Render(util.TruncateWidth(styles.StatusIndicators.Info+" "+s.Notice, inner))
	default:
		hints := make([]string, 0, len(s.Shortcuts))
		for _, sc := range s.Shortcuts {
			hints = append(hints, theme.ShortcutKey.Render(sc.Key)+" "+theme.ShortcutDesc.Render(sc.Desc))
		}
		content = strings.Join(hints, "  ")
	}
	return theme.StatusBar.Width(s.Width).Render(content)
}
