// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package body provides a dynamic physics body. It re-declares itself to the
// physics module every tick, applies the mutations routed back to it and
// pushes itself out of anything it is predicted to hit.
package body

import (
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/id"
	"github.com/burge/burge/internal/input"
	"github.com/burge/burge/internal/physics"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/internal/sprite"
)

// TemplateName is the registry name of the body template.
const TemplateName = "body"

// Controls bind keys to horizontal movement and jumping.
type Controls struct {
	Left      uint32  `mapstructure:"left"`
	Right     uint32  `mapstructure:"right"`
	Jump      uint32  `mapstructure:"jump"`
	Speed     float64 `mapstructure:"speed"`
	JumpSpeed float64 `mapstructure:"jump_speed"`
}

// Settings describe a body.
type Settings struct {
	Obj    physics.PhysObj `mapstructure:"phys"`
	Sprite int             `mapstructure:"sprite"`
	Depth  float64         `mapstructure:"depth"`
	Tags   []string        `mapstructure:"tags"`
	// Solid bodies are pushed out of what they collide with.
	Solid    bool      `mapstructure:"solid"`
	Controls *Controls `mapstructure:"controls"`
}

// DefaultSettings returns a solid unit body with default physics and no
// controls.
func DefaultSettings() Settings {
	return Settings{
		Obj:   physics.New(),
		Solid: true,
	}
}

// DefaultControls returns arrow-style controls with speed 5 and jump 6.
// The key codes are placeholders for hosts that do not configure any.
func DefaultControls() Controls {
	return Controls{Left: 'A', Right: 'D', Jump: ' ', Speed: 5, JumpSpeed: 6}
}

// Body is the body behavior.
type Body struct {
	element.Base
	settings Settings
	obj      physics.PhysObj

	self     id.ID
	declare  *event.Sender[physics.Event]
	routed   *event.Receiver[physics.Event]
	keys     *event.Receiver[input.Event]
	held     map[uint32]bool
	grounded bool
}

// New creates a body with the given settings.
func New(s Settings) *Body {
	return &Body{
		settings: s,
		obj:      s.Obj,
		held:     make(map[uint32]bool),
	}
}

// Settings returns the settings the body was loaded with.
func (b *Body) Settings() Settings { return b.settings }

// Obj returns the body's current physics state.
func (b *Body) Obj() physics.PhysObj { return b.obj }

// Grounded reports whether the body rested on something during the last
// applied tick.
func (b *Body) Grounded() bool { return b.grounded }

// Init connects the body to the physics and input modules when present.
func (b *Body) Init(self id.ID, tools *element.ModuleTool) {
	b.self = self
	physics.Key.Access(tools, func(c *physics.Capability) {
		b.declare = c.NewSender()
		_, b.routed = c.NewRoutedReceiver(self)
	})
	if b.settings.Controls != nil {
		input.Key.Access(tools, func(l *event.Locked[input.Event]) {
			b.keys = l.NewReceiver()
		})
	}
	if len(b.settings.Tags) > 0 {
		scene.TagsKey.Access(tools, func(t *scene.Tags) {
			t.Set(self, b.settings.Tags)
		})
	}
}

// LocalUpdate applies what physics routed back last tick, then input, then
// declares the resulting state for this tick.
func (b *Body) LocalUpdate(float64) {
	if b.routed != nil {
		b.grounded = false
		for _, ev := range b.obj.Apply(b.routed.Poll()) {
			if c, ok := ev.(physics.Collision); ok && b.settings.Solid {
				b.resolve(c.Obj)
			}
		}
	}

	if b.keys != nil {
		b.obj.Apply(b.steer(b.keys.Poll()))
	}

	if b.declare != nil {
		b.declare.Send(physics.Dynamic{ID: b.self, Obj: b.obj})
	}
}

// resolve moves the body out of other along the shallowest axis and stops
// motion into it.
func (b *Body) resolve(other physics.PhysObj) {
	if !b.obj.Overlaps(other, geom.Vec2{}) {
		return
	}
	push := b.obj.NearestDelta(other)
	b.obj.Pos = b.obj.Pos.Add(push)

	above := b.obj.Center().Y >= other.Center().Y
	rightOf := b.obj.Center().X >= other.Center().X
	if push.X == 0 {
		if above {
			b.grounded = true
		}
		if (above && b.obj.Velocity.Y < 0) || (!above && b.obj.Velocity.Y > 0) {
			b.obj.Velocity.Y = 0
		}
		return
	}
	if (rightOf && b.obj.Velocity.X < 0) || (!rightOf && b.obj.Velocity.X > 0) {
		b.obj.Velocity.X = 0
	}
}

func (b *Body) steer(keys []input.Event) []physics.Event {
	c := b.settings.Controls
	var out []physics.Event
	for _, k := range keys {
		if k.Down {
			b.held[k.Code] = true
			if k.Code == c.Jump && b.grounded {
				out = append(out, physics.SetVelocityY(c.JumpSpeed))
				b.grounded = false
			}
		} else {
			delete(b.held, k.Code)
		}
	}

	dir := 0.0
	if b.held[c.Left] {
		dir--
	}
	if b.held[c.Right] {
		dir++
	}
	return append(out, physics.SetVelocityX(dir*c.Speed))
}

// Sprite draws the body at its current position.
func (b *Body) Sprite() *sprite.Sprite {
	return sprite.Single(b.settings.Sprite).
		WithPos(b.obj.Pos).
		WithScale(b.obj.Shape).
		WithDepth(b.settings.Depth)
}

// Save records the body's settings with its current physics state.
func (b *Body) Save() element.Document {
	s := b.settings
	s.Obj = b.obj
	doc := element.SaveDocument(nil, TemplateName, s)
	if settings, ok := doc[element.FieldSettings].(map[string]any); ok && s.Controls == nil {
		delete(settings, "controls")
	}
	return doc
}

// Load builds a body from doc. Controls given without values fall back to
// DefaultControls field by field.
func (b *Body) Load(doc element.Document) (element.Element, error) {
	s := DefaultSettings()
	if raw, ok := doc.Settings(); ok {
		if m, ok := raw.(map[string]any); ok {
			if c, ok := m["controls"]; ok && c != nil {
				c := DefaultControls()
				s.Controls = &c
			}
		}
	}
	if _, err := doc.DecodeSettings(&s); err != nil {
		return nil, err
	}
	return element.NewLeaf(New(s)), nil
}
