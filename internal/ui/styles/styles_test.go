// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestLayoutMode(t *testing.T) {
	theme := NewTheme()

	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{80, LayoutMedium},
		{120, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
}

func TestStatusRenderersCarryIndicators(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	assert.Equal(t, "[OK] saved", RenderSuccess("saved"))
	assert.Equal(t, "[!!] failed", RenderError("failed"))
	assert.True(t, strings.HasPrefix(RenderWarning("careful"), StatusIndicators.Warning))
	assert.True(t, strings.HasPrefix(RenderInfo("note"), StatusIndicators.Info))
}

func TestDisableColor(t *testing.T) {
	DisableColor()
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
	assert.Equal(t, "plain", NewTheme().ErrorText.Render("plain"))
}
