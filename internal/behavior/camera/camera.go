// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package camera provides the default camera behavior.
package camera

import (
	"github.com/samber/oops"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/id"
	"github.com/burge/burge/internal/scene"
)

// TemplateName is the registry name of the camera template.
const TemplateName = "camera"

// Settings describe the visible region: Scale world units across at the
// design Aspect, centred on Pos.
type Settings struct {
	Pos    geom.Vec2 `mapstructure:"pos"`
	Scale  float64   `mapstructure:"scale"`
	Aspect float64   `mapstructure:"aspect"`
}

// DefaultSettings returns a 20 unit wide 16:9 view of the origin.
func DefaultSettings() Settings {
	return Settings{Scale: 20, Aspect: 16.0 / 9.0}
}

// Camera makes itself the scene's active camera when initialized.
type Camera struct {
	element.Base
	settings Settings
}

// New creates a camera with the given settings.
func New(s Settings) *Camera {
	return &Camera{settings: s}
}

// Init requests that the scene use this camera.
func (c *Camera) Init(self id.ID, tools *element.ModuleTool) {
	scene.BroadcastKey.Access(tools, func(s *event.Sender[scene.Event]) {
		s.Send(scene.SetCamera{ID: self})
	})
}

// ClipMatrix maps world units to clip space. A viewport wider than the
// design aspect shows more width; a taller one shows more height.
func (c *Camera) ClipMatrix(vp geom.Viewport) geom.Mat3 {
	width := c.settings.Scale
	height := c.settings.Scale / c.settings.Aspect
	if aspect := vp.Aspect(); aspect > c.settings.Aspect {
		width = height * aspect
	} else if aspect < c.settings.Aspect {
		height = width / aspect
	}

	m := geom.Identity()
	m[0][0] = 2 / width
	m[1][1] = 2 / height
	return m
}

// Offset returns the camera position.
func (c *Camera) Offset() geom.Vec2 {
	return c.settings.Pos
}

// Save records the camera's settings.
func (c *Camera) Save() element.Document {
	return element.SaveDocument(nil, TemplateName, c.settings)
}

// Load builds a camera from doc.
func (c *Camera) Load(doc element.Document) (element.Element, error) {
	s := DefaultSettings()
	if _, err := doc.DecodeSettings(&s); err != nil {
		return nil, err
	}
	if s.Scale <= 0 || s.Aspect <= 0 {
		return nil, oops.Code("INVALID_SETTINGS").
			With("template", TemplateName).
			With("scale", s.Scale).
			With("aspect", s.Aspect).
			Errorf("camera scale and aspect must be positive")
	}
	return element.NewLeaf(New(s)), nil
}
