// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package behavior installs the built-in templates.
package behavior

import (
	"log/slog"

	"github.com/burge/burge/internal/behavior/block"
	"github.com/burge/burge/internal/behavior/body"
	"github.com/burge/burge/internal/behavior/camera"
	"github.com/burge/burge/internal/behavior/particles"
	"github.com/burge/burge/internal/behavior/script"
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/input"
	"github.com/burge/burge/internal/physics"
	"github.com/burge/burge/internal/scene"
)

// Register installs every built-in template into t. Logging behaviors use
// logger, or slog.Default when it is nil.
func Register(t *scene.Templates, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	t.Register(block.TemplateName, element.NewLeaf(block.New(block.DefaultSettings())))
	t.Register(camera.TemplateName, element.NewLeaf(camera.New(camera.DefaultSettings())))
	t.Register(body.TemplateName, element.NewLeaf(body.New(body.DefaultSettings())))
	t.Register(particles.TemplateName, element.NewModule(particles.New(particles.DefaultSettings())))
	t.Register(script.TemplateName, element.NewLeaf(script.New(script.Settings{}, logger)))
	t.Register(physics.TemplateName, element.NewModule(physics.NewEngine(physics.WithLogger(logger))))
	t.Register(input.TemplateName, element.NewModule(input.NewManager()))
}
