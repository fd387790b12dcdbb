// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbot-tui/internal/session"
)

// StatusOutput is the JSON form of "chatbot status".
type StatusOutput struct {
	Session   session.Status `json:"session"`
	APIURL    string         `json:"api_url"`
	Store     string         `json:"token_store"`
	Timestamp string         `json:"timestamp"`
}

func newStatusCmd(opts *Options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Long: `Show whether a session is active. A stored token is verified with
the backend; a rejected token is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*opts, func(app *App) error {
				app.Session.Bootstrap(cmd.Context())
				out := cmd.OutOrStdout()

				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(StatusOutput{
						Session:   app.Session.Status(),
						APIURL:    app.Config.API.BaseURL,
						Store:     app.Config.Auth.TokenStore,
						Timestamp: time.Now().UTC().Format(time.RFC3339),
					})
				}

				fmt.Fprintln(out, TitleStyle.Render("chatbot status"))
				fmt.Fprintln(out, RenderSeparator(40))
				fmt.Fprintln(out, RenderLabel("Backend")+ValueStyle.Render(app.Config.API.BaseURL))
				fmt.Fprintln(out, RenderLabel("Token store")+ValueStyle.Render(app.Config.Auth.TokenStore))
				writeStatus(out, app.Session.Status())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// writeStatus prints a session status block.
func writeStatus(out io.Writer, st session.Status) {
	fmt.Fprintln(out, RenderLabel("Session")+RenderStatus(st.State)+" "+ValueStyle.Render(st.State))
	if st.Username != "" {
		fmt.Fprintln(out, RenderLabel("User")+ValueStyle.Render(st.Username))
	}
	if st.Email != "" {
		fmt.Fprintln(out, RenderLabel("Email")+ValueStyle.Render(st.Email))
	}
	fmt.Fprintln(out, RenderLabel("Since")+DimStyle.Render(session.FormatDuration(st.Duration)+" ago"))
}
