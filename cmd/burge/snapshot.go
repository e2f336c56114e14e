// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/burge/burge/internal/config"
	"github.com/burge/burge/internal/host"
	"github.com/burge/burge/internal/logging"
	"github.com/burge/burge/internal/render"
	"github.com/burge/burge/internal/xdg"
)

// NewSnapshotCmd creates the snapshot subcommand.
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [scene files...]",
		Short: "Step a scene and render it to PNG",
		Long: `Load scene documents, step the starting scene for the configured
number of frames as fast as possible and render what its camera sees to a
PNG file. Without --snapshot the image goes to XDG_STATE_HOME/burge/<scene>.png.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return runSnapshot(cmd.Context(), cmd, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runSnapshot(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := logging.SetDefault(serviceName, version, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))

	manager, start, err := loadScenes(cfg, logger)
	if err != nil {
		return err
	}

	h := host.New(manager, host.WithLogger(logger))
	h.Init()
	for range cfg.Frames {
		if err := h.Step(ctx, cfg.Step.Seconds()); err != nil {
			return err
		}
	}

	path := cfg.Snapshot
	if path == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return err
		}
		if err := xdg.EnsureDir(dir); err != nil {
			return err
		}
		path = filepath.Join(dir, start+".png")
	}

	if err := writeSnapshot(h, path, cfg); err != nil {
		return err
	}
	cmd.Printf("Wrote snapshot %s after %d frames\n", path, h.Frame())
	return nil
}

func writeSnapshot(h *host.Host, path string, cfg *config.Config) error {
	frame, err := h.Present(cfg.Viewport)
	if err != nil {
		return err
	}
	return render.New().SavePNG(path, frame, cfg.Viewport)
}
