// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbot-tui/internal/model"
	"github.com/jeranaias/chatbot-tui/internal/session"
	chatui "github.com/jeranaias/chatbot-tui/internal/ui/chat"
	"github.com/jeranaias/chatbot-tui/internal/ui/components"
	"github.com/jeranaias/chatbot-tui/internal/ui/styles"
)

// runTUI starts the full-screen chat. Session changes and appended messages
// reach the Bubble Tea loop through Program.Send, so every manager call the
// model makes runs inside a tea.Cmd.
func runTUI(cmd *cobra.Command, opts Options) error {
	if err := RequiresTTY("start the chat screen"); err != nil {
		return &UsageError{Message: err.Error() + " (try \"chatbot chat\")"}
	}

	return withApp(opts, func(app *App) error {
		m := chatui.New(chatui.Deps{
			Context:  cmd.Context(),
			Session:  app.Session,
			Chat:     app.Chat,
			Login:    app.Login,
			Register: app.Register,
			Theme:    styles.NewTheme(),
			Render: components.RendererOptions{
				Markdown:       app.Config.UI.Markdown && !app.Config.UI.NoColor,
				ShowTimestamps: app.Config.UI.ShowTimestamps,
			},
		})

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		app.Session.Subscribe(session.ProgramListener{Program: p})
		app.Chat.OnAppend(func(model.Message) {
			p.Send(chatui.HistoryChangedMsg{})
		})

		log.Info().Str("session_id", app.Session.SessionID()).Msg("tui started")
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return errors.Wrap(err, "run chat screen")
		}
		log.Info().Str("session_id", app.Session.SessionID()).Msg("tui stopped")
		return nil
	})
}
