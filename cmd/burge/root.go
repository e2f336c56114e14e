// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/burge/burge/internal/config"
	"github.com/burge/burge/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

const serviceName = "burge"

// NewRootCmd creates the root command for the burge CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "burge",
		Short: "burge - a 2D scene runtime",
		Long: `burge loads scene documents, steps them at a fixed rate and
renders snapshots of what the camera sees.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/burge/config.yaml)")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewSnapshotCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewSchemaCmd())

	return cmd
}

// loadConfig reads the config file and the command's flags. Positional
// arguments replace the configured scene files.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	path, optional := configFile, false
	if path == "" {
		var err error
		if path, err = xdg.DefaultConfigPath(); err != nil {
			return nil, err
		}
		optional = true
	}

	cfg, err := config.Load(path, optional, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Scenes = args
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
