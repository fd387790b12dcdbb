// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbot-tui/internal/authflow"
	"github.com/jeranaias/chatbot-tui/internal/session"
)

// =============================================================================
// LOGIN
// =============================================================================

func newLoginCmd(opts *Options) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Long: `Log in and store the session token for later runs.

The password is read without echo from a terminal, or as one line from
standard input when it is piped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*opts, func(app *App) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				if app.Session.Bootstrap(ctx) == session.StateAuthenticated {
					fmt.Fprintln(out, WarningStyle.Render("Already logged in as "+app.Session.User().Username))
					return nil
				}

				p := NewPrompter(cmd.InOrStdin(), out)
				if username == "" {
					u, err := p.Ask("Username")
					if err != nil {
						return err
					}
					username = u
				}
				password, err := p.Secret("Password")
				if err != nil {
					return err
				}

				user, err := app.Login.Submit(ctx, username, password)
				if err != nil {
					return commandFailed("login", err)
				}
				fmt.Fprintln(out, SuccessStyle.Render("Logged in as "+user.Username))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when empty)")
	return cmd
}

// =============================================================================
// LOGOUT
// =============================================================================

func newLogoutCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*opts, func(app *App) error {
				if err := app.Session.Logout(cmd.Context()); err != nil {
					return commandFailed("logout", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Logged out"))
				return nil
			})
		},
	}
}

// =============================================================================
// REGISTER
// =============================================================================

func newRegisterCmd(opts *Options) *cobra.Command {
	var in authflow.RegisterInput

	cmd := &cobra.Command{
		Use:     "register",
		Aliases: []string{"signup"},
		Short:   "Create an account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*opts, func(app *App) error {
				out := cmd.OutOrStdout()
				p := NewPrompter(cmd.InOrStdin(), out)

				var err error
				if in.Username == "" {
					if in.Username, err = p.Ask("Username"); err != nil {
						return err
					}
				}
				if in.Email == "" {
					if in.Email, err = p.Ask("Email"); err != nil {
						return err
					}
				}
				fmt.Fprintln(out, DimStyle.Render(app.Register.Policy().Message))
				if in.Password, err = p.Secret("Password"); err != nil {
					return err
				}
				if in.ConfirmPassword, err = p.Secret("Confirm password"); err != nil {
					return err
				}

				res, err := app.Register.Submit(cmd.Context(), in)
				if err != nil {
					return commandFailed("register", err)
				}
				fmt.Fprintln(out, SuccessStyle.Render(res.Message))
				fmt.Fprintln(out, DimStyle.Render("Run \"chatbot login -u "+res.Username+"\" to sign in."))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "username (prompted when empty)")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address (prompted when empty)")
	return cmd
}
