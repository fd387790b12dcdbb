// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/chatbot-tui/internal/model"
	"github.com/jeranaias/chatbot-tui/internal/reply"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
)

// RendererOptions configures a MessageRenderer.
type RendererOptions struct {
	// Markdown renders plain bot replies through glamour.
	Markdown bool
	// MarkdownStyle is a glamour standard style name; empty picks one
	// from the terminal background.
	MarkdownStyle string
	// ShowTimestamps prefixes each message with its time.
	ShowTimestamps bool
}

// MessageRenderer turns messages into styled terminal text.
type MessageRenderer struct {
	theme *styles.Theme
	opts  RendererOptions
	width int
	md    *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer for the given width.
func NewMessageRenderer(theme *styles.Theme, opts RendererOptions, width int) *MessageRenderer {
	r := &MessageRenderer{theme: theme, opts: opts}
	r.SetWidth(width)
	return r
}

// SetWidth updates the wrap width and rebuilds the markdown renderer.
func (r *MessageRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == r.width && (r.md != nil || !r.opts.Markdown) {
		return
	}
	r.width = width
	r.md = nil
	if !r.opts.Markdown {
		return
	}

	style := glamour.WithAutoStyle()
	if r.opts.MarkdownStyle != "" {
		style = glamour.WithStandardStyle(r.opts.MarkdownStyle)
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(r.bodyWidth()))
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer unavailable, falling back to plain text")
		return
	}
	r.md = md
}

// Width returns the current wrap width.
func (r *MessageRenderer) Width() int {
	return r.width
}

func (r *MessageRenderer) bodyWidth() int {
	return r.width - r.theme.MessageBody.GetHorizontalFrameSize()
}

// RenderThread renders a whole conversation, separated by blank lines.
func (r *MessageRenderer) RenderThread(msgs []model.Message) string {
	if len(msgs) == 0 {
		return r.theme.EmptyThread.Render("No messages yet. Type below to start chatting.")
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, r.Render(m))
	}
	return strings.Join(parts, "\n\n")
}

// Render renders one message with its role label.
func (r *MessageRenderer) Render(msg model.Message) string {
	label := r.theme.BotLabel.Render(msg.Role.DisplayName())
	if msg.IsUser() {
		label = r.theme.UserLabel.Render(msg.Role.DisplayName())
	}
	if r.opts.ShowTimestamps && !msg.Timestamp.IsZero() {
		label += " " + r.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	body := r.RenderTree(reply.FormatMessage(msg))
	return label + "\n" + body
}

// RenderTree renders a formatted reply.
func (r *MessageRenderer) RenderTree(tree reply.Tree) string {
	bodyStyle := r.theme.MessageBody.Width(r.width)

	switch tree.Format {
	case model.FormatList:
		lines := make([]string, 0, len(tree.Items))
		for _, item := range tree.Items {
			num := r.theme.ListNumber.Render(strconv.Itoa(item.Index) + ".")
			lines = append(lines, num+" "+item.Text)
		}
		return bodyStyle.Render(strings.Join(lines, "\n"))

	case model.FormatMathSteps:
		lines := make([]string, 0, len(tree.Items))
		for _, item := range tree.Items {
			switch item.Kind {
			case reply.ItemStepHeader:
				lines = append(lines, r.theme.StepHeader.Render(item.Text))
			case reply.ItemSpacer:
				lines = append(lines, "")
			default:
				lines = append(lines, item.Text)
			}
		}
		return bodyStyle.Render(strings.Join(lines, "\n"))

	default:
		text := tree.Text()
		if r.md != nil {
			if out, err := r.md.Render(text); err == nil {
				return lipgloss.NewStyle().PaddingLeft(r.theme.MessageBody.GetPaddingLeft()).
					Render(strings.Trim(out, "\n"))
			}
		}
		return bodyStyle.Render(text)
	}
}
