// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "chatbot",
		Short: "Terminal client for the chatbot service",
		Long: `chatbot is a terminal client for the chatbot service.

Run it without a subcommand for the full-screen chat. Log in from the
overlay or with "chatbot login"; the session token is remembered between
runs until you log out or the server rejects it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, *opts)
		},
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.chatbot/config.toml)")
	flags.StringVar(&opts.APIURL, "api-url", "", "backend base URL (overrides config)")
	flags.BoolVar(&opts.Debug, "debug", false, "debug logging")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colors")
	flags.BoolVar(&opts.Ephemeral, "ephemeral", false, "keep the session token in memory only")

	root.AddCommand(
		newChatCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newRegisterCmd(opts),
		newStatusCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
	}
	return ExitCode(err)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chatbot %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
			fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// withApp opens the application for one command and closes it afterwards.
func withApp(opts Options, fn func(app *App) error) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
