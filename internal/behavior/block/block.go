// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package block provides a static drawable tile that may also be a solid
// physics obstacle.
package block

import (
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/id"
	"github.com/burge/burge/internal/physics"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/internal/sprite"
)

// TemplateName is the registry name of the block template.
const TemplateName = "block"

// Settings describe a block.
type Settings struct {
	Pos    geom.Vec2 `mapstructure:"pos"`
	Shape  geom.Vec2 `mapstructure:"shape"`
	Sprite int       `mapstructure:"sprite"`
	// Repeat tiles the sprite horizontally.
	Repeat int      `mapstructure:"repeat"`
	Depth  float64  `mapstructure:"depth"`
	Solid  bool     `mapstructure:"solid"`
	Tags   []string `mapstructure:"tags"`
}

// DefaultSettings returns a solid unit block at the origin.
func DefaultSettings() Settings {
	return Settings{
		Shape:  geom.V(1, 1),
		Repeat: 1,
		Solid:  true,
	}
}

// Block is the block behavior.
type Block struct {
	element.Base
	settings Settings
}

// New creates a block with the given settings.
func New(s Settings) *Block {
	return &Block{settings: s}
}

// Settings returns the block's settings.
func (b *Block) Settings() Settings { return b.settings }

// Obj returns the block as a motionless physics body.
func (b *Block) Obj() physics.PhysObj {
	obj := physics.New()
	obj.Pos = b.settings.Pos
	obj.Shape = b.settings.Shape
	obj.Settings.GravityStrength = 0
	return obj
}

// Init declares a solid block as a static obstacle and records its tags.
func (b *Block) Init(self id.ID, tools *element.ModuleTool) {
	if b.settings.Solid {
		physics.Key.Access(tools, func(c *physics.Capability) {
			c.NewSender().Send(physics.Static{ID: self, Obj: b.Obj()})
		})
	}
	if len(b.settings.Tags) > 0 {
		scene.TagsKey.Access(tools, func(t *scene.Tags) {
			t.Set(self, b.settings.Tags)
		})
	}
}

// Sprite draws the block over its shape, tiled Repeat times across.
func (b *Block) Sprite() *sprite.Sprite {
	repeat := max(b.settings.Repeat, 1)
	cell := geom.V(b.settings.Shape.X/float64(repeat), b.settings.Shape.Y)
	return sprite.Single(b.settings.Sprite).
		Repeat(repeat).
		WithPos(b.settings.Pos).
		WithScale(cell).
		WithDepth(b.settings.Depth)
}

// Save records the block's settings.
func (b *Block) Save() element.Document {
	return element.SaveDocument(nil, TemplateName, b.settings)
}

// Load builds a block from doc, starting from the defaults.
func (b *Block) Load(doc element.Document) (element.Element, error) {
	s := DefaultSettings()
	if _, err := doc.DecodeSettings(&s); err != nil {
		return nil, err
	}
	return element.NewLeaf(New(s)), nil
}
