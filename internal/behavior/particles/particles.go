// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package particles provides a particle emitter module. Each emitter is
// discoverable under its configured id and accepts Emit requests on the
// sender it exposes.
package particles

import (
	"math"
	"math/rand/v2"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/physics"
	"github.com/burge/burge/internal/sprite"
)

// TemplateName is the registry name of the emitter template.
const TemplateName = "particles"

// DefaultID is the alias of an emitter that does not configure one.
const DefaultID = "particle"

// Event is a request to an emitter.
type Event int

// Emit spawns one burst of particles.
const Emit Event = iota

// Key returns the key fetching the emitter registered under alias.
func Key(alias string) element.Key[*event.Sender[Event]] {
	return element.NewKey[*event.Sender[Event]](alias)
}

// Particle is the template every emitted particle is copied from.
type Particle struct {
	MaxLife float64         `mapstructure:"max_life"`
	Obj     physics.PhysObj `mapstructure:"phys"`
}

// DefaultParticle lives three seconds and drifts down slowly.
func DefaultParticle() Particle {
	return Particle{
		MaxLife: 3,
		Obj: physics.PhysObj{
			Shape: geom.V(0.1, 0.1),
			Settings: physics.Settings{
				GravityStrength: -0.5,
				Drag:            geom.V(0.25, 0.25),
			},
		},
	}
}

// Settings describe an emitter. Angles are in radians; the *Random fields
// scale uniform noise in [-0.5, 0.5).
type Settings struct {
	ID             string    `mapstructure:"id"`
	Base           Particle  `mapstructure:"base"`
	Origin         geom.Vec2 `mapstructure:"origin"`
	Angle          float64   `mapstructure:"angle"`
	Spread         float64   `mapstructure:"spread"`
	Count          int       `mapstructure:"count"`
	Velocity       geom.Vec2 `mapstructure:"velocity"`
	SpriteIndex    int       `mapstructure:"sprite_index"`
	SpriteDepth    float64   `mapstructure:"sprite_depth"`
	SpreadRandom   float64   `mapstructure:"spread_random"`
	CountRandom    int       `mapstructure:"count_random"`
	VelocityRandom geom.Vec2 `mapstructure:"velocity_random"`
	// Seed fixes the noise source; zero picks one at random.
	Seed uint64 `mapstructure:"seed"`
}

// DefaultSettings returns a full-circle burst of 20 particles.
func DefaultSettings() Settings {
	return Settings{
		ID:             DefaultID,
		Base:           DefaultParticle(),
		Spread:         2 * math.Pi,
		Count:          20,
		Velocity:       geom.V(1, 1),
		SpreadRandom:   0.5,
		VelocityRandom: geom.V(0.5, 0.5),
	}
}

type particle struct {
	timer float64
	obj   physics.PhysObj
}

// Emitter is the particle emitter module.
type Emitter struct {
	element.Base
	settings  Settings
	particles []particle

	sender   *event.Sender[Event]
	receiver *event.Receiver[Event]
	rng      *rand.Rand
}

// New creates an emitter with no live particles.
func New(s Settings) *Emitter {
	seed := s.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	sender := event.NewSender[Event]()
	return &Emitter{
		settings: s,
		sender:   sender,
		receiver: sender.NewReceiver(),
		rng:      rand.New(rand.NewPCG(seed, seed)),
	}
}

// Alias implements element.ModuleBehavior.
func (e *Emitter) Alias() string { return e.settings.ID }

// Capability implements element.ModuleBehavior.
func (e *Emitter) Capability() any { return e.sender }

// Live returns the number of live particles.
func (e *Emitter) Live() int { return len(e.particles) }

// noise returns a uniform value in [-0.5, 0.5).
func (e *Emitter) noise() float64 {
	return e.rng.Float64() - 0.5
}

// Emit spawns one burst around the origin.
func (e *Emitter) Emit() {
	s := e.settings
	count := s.Count - int(e.noise()*float64(s.CountRandom))
	if count <= 0 {
		return
	}

	base := s.Base.Obj
	base.Pos = s.Origin
	interval := s.Spread / float64(count)
	for i := 1; i <= count; i++ {
		angle := interval*float64(i) + s.Angle + e.noise()*s.SpreadRandom*interval
		jitter := geom.V(
			e.noise()*s.Velocity.X*s.VelocityRandom.X,
			e.noise()*s.Velocity.Y*s.VelocityRandom.Y,
		)

		obj := base
		obj.Velocity = geom.V(s.Velocity.X*math.Cos(angle), s.Velocity.Y*math.Sin(angle)).Add(jitter)
		e.particles = append(e.particles, particle{timer: s.Base.MaxLife, obj: obj})
	}
}

// LocalUpdate handles emit requests, integrates every particle and expires
// those whose timer has run out.
func (e *Emitter) LocalUpdate(dt float64) {
	for _, ev := range e.receiver.Poll() {
		if ev == Emit {
			e.Emit()
		}
	}

	live := e.particles[:0]
	for _, p := range e.particles {
		p.obj.Apply(p.obj.Step(dt))
		if p.timer < 0 {
			continue
		}
		p.timer -= dt
		live = append(live, p)
	}
	e.particles = live
}

// Sprite draws every live particle, chained after an empty head.
func (e *Emitter) Sprite() *sprite.Sprite {
	head := sprite.Empty()
	for _, p := range e.particles {
		head.Chain(sprite.Single(e.settings.SpriteIndex).
			WithPos(p.obj.Pos).
			WithScale(p.obj.Shape).
			WithDepth(e.settings.SpriteDepth))
	}
	return head
}

// Save records the emitter's settings.
func (e *Emitter) Save() element.Document {
	return element.SaveDocument(nil, TemplateName, e.settings)
}

// Load builds an emitter from doc and fires its first burst.
func (e *Emitter) Load(doc element.Document) (element.Element, error) {
	s := DefaultSettings()
	if _, err := doc.DecodeSettings(&s); err != nil {
		return nil, err
	}
	out := New(s)
	out.Emit()
	return element.NewModule(out), nil
}

var _ element.ModuleBehavior = (*Emitter)(nil)
