// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbot-tui/internal/config"
)

func newConfigCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration and data file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			cfgPath := opts.ConfigPath
			if cfgPath == "" {
				if cfgPath, err = config.ConfigPathTOML(); err != nil {
					return err
				}
			}
			tokenPath, err := cfg.TokenPath()
			if err != nil {
				return err
			}
			logPath, err := cfg.LogPath()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, RenderLabel("Config")+cfgPath)
			if cfg.Auth.TokenStore == config.TokenStoreMemory {
				fmt.Fprintln(out, RenderLabel("Token")+DimStyle.Render("(memory)"))
			} else {
				fmt.Fprintln(out, RenderLabel("Token")+tokenPath)
			}
			fmt.Fprintln(out, RenderLabel("Log")+logPath)
			return nil
		},
	})
	return cmd
}
