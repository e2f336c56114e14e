// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package main

import (
	"log/slog"

	"github.com/samber/oops"

	"github.com/burge/burge/internal/behavior"
	"github.com/burge/burge/internal/config"
	"github.com/burge/burge/internal/document"
	"github.com/burge/burge/internal/scene"
)

// loadScenes builds a manager holding one scene per file and makes the
// configured scene current, or the first file's scene if none is named.
func loadScenes(cfg *config.Config, logger *slog.Logger) (*scene.Manager, string, error) {
	manager := scene.NewManager(scene.WithManagerLogger(logger))
	behavior.Register(manager.Templates(), logger)

	var first string
	for _, path := range cfg.Scenes {
		doc, err := document.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		if _, err := manager.CreateScene(doc.Name, doc.Documents()); err != nil {
			return nil, "", oops.With("path", path).Wrap(err)
		}
		if first == "" {
			first = doc.Name
		}
		logger.Debug("scene loaded", "scene", doc.Name, "path", path, "elements", len(doc.Elements))
	}

	start := cfg.Scene
	if start == "" {
		start = first
	}
	if err := manager.SetScene(start); err != nil {
		return nil, "", err
	}
	return manager, start, nil
}
