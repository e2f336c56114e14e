// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/burge/burge/internal/config"
	"github.com/burge/burge/internal/host"
	"github.com/burge/burge/internal/logging"
	"github.com/burge/burge/internal/observability"
	"github.com/burge/burge/pkg/errutil"
)

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scene files...]",
		Short: "Step scenes at a fixed rate",
		Long: `Load scene documents and step the starting scene at a fixed
wall-clock rate until the frame count is reached or the process is
interrupted. Scene files given as arguments replace the configured ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return runScenes(cmd.Context(), cmd, cfg)
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runScenes(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := logging.SetDefault(serviceName, version, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))

	shutdownTracing, err := observability.SetupTracing(ctx, serviceName, version, cfg.TracingEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			errutil.LogError(logger, "failed to flush traces", err)
		}
	}()

	manager, start, err := loadScenes(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []host.Option{host.WithLogger(logger)}

	var ready atomic.Bool
	if cfg.MetricsAddr != "" {
		obsServer := observability.NewServer(cfg.MetricsAddr, ready.Load, observability.WithServerLogger(logger))
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := obsServer.Stop(shutdownCtx); err != nil {
				logger.Warn("error stopping observability server", "error", err)
			}
		}()

		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		go monitorServerErrors(ctx, cancel, obsErrChan, logger)

		opts = append(opts, host.WithMetrics(obsServer.Metrics()))
	}

	h := host.New(manager, opts...)
	h.Init()
	ready.Store(true)

	logger.Info("running scene", "scene", start, "step", cfg.Step, "frames", cfg.Frames)
	if err := h.Run(ctx, cfg.Step, cfg.Frames); err != nil {
		return err
	}

	if cfg.Snapshot != "" {
		if err := writeSnapshot(h, cfg.Snapshot, cfg); err != nil {
			return err
		}
		cmd.Printf("Wrote snapshot %s\n", cfg.Snapshot)
	}

	cmd.Printf("Ran %d frames of scene %q\n", h.Frame(), start)
	return nil
}

// monitorServerErrors cancels the run when the observability server fails.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errChan <-chan error, logger *slog.Logger) {
	select {
	case err, ok := <-errChan:
		if ok && err != nil {
			errutil.LogError(logger, "observability server failed", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
