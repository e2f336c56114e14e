// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package physics implements the event-sourced physics module: bodies declare
// themselves every tick, the engine predicts swept axis-aligned overlaps, and
// collision notices are routed back to the originating body after every
// entity has updated.
package physics

import (
	"log/slog"
	"slices"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
	"github.com/burge/burge/internal/id"
	"github.com/burge/burge/internal/observability"
)

// Alias is the discovery key of the physics module.
const Alias = "physics"

// TemplateName is the template registry name of the physics module.
const TemplateName = "physics"

// Key fetches the physics capability.
var Key = element.NewKey[*Capability](Alias)

// Capability is what bodies fetch from the physics module: a facet to
// declare themselves on, and registration for their own collision queue.
type Capability struct {
	outbound *event.Locked[Event]
	inbound  *event.Sender[Event]
}

// NewSender returns a handle for sending Static and Dynamic declarations.
func (c *Capability) NewSender() *event.Sender[Event] {
	return c.inbound.Clone()
}

// NewRoutedReceiver registers the receiver on which the engine delivers
// events for the body want (or a generated identifier when want is zero).
func (c *Capability) NewRoutedReceiver(want id.ID) (id.ID, *event.Receiver[Event]) {
	return c.outbound.NewRoutedReceiver(want)
}

// Body is a declared body together with its identifier.
type Body struct {
	ID  id.ID
	Obj PhysObj
}

type outgoing struct {
	to     id.ID
	events []Event
}

// Engine is the physics module.
type Engine struct {
	element.Base

	outbound   *event.Sender[Event]
	inbound    *event.Receiver[Event]
	capability *Capability

	statics  []Body
	dynamics []Body
	queue    []outgoing

	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine with no bodies.
func NewEngine(opts ...Option) *Engine {
	out := event.NewSender[Event]()
	in := event.NewSender[Event]()
	e := &Engine{
		outbound: out,
		inbound:  in.NewReceiver(),
		capability: &Capability{
			outbound: out.Lock(),
			inbound:  in,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Alias implements element.ModuleBehavior.
func (e *Engine) Alias() string { return Alias }

// Capability implements element.ModuleBehavior.
func (e *Engine) Capability() any { return e.capability }

// Statics returns a copy of the registered obstacles.
func (e *Engine) Statics() []Body { return slices.Clone(e.statics) }

// Dynamics returns a copy of the bodies declared during the last tick.
func (e *Engine) Dynamics() []Body { return slices.Clone(e.dynamics) }

// LocalUpdate drains declarations and predicts this tick's collisions.
// Predictions are held until PostUpdate.
func (e *Engine) LocalUpdate(dt float64) {
	e.dynamics = e.dynamics[:0]
	for _, ev := range e.inbound.Poll() {
		switch decl := ev.(type) {
		case Dynamic:
			e.dynamics = append(e.dynamics, Body(decl))
		case Static:
			e.statics = append(e.statics, Body(decl))
		}
	}

	collisions := 0
	for _, d := range e.dynamics {
		events := d.Obj.Step(dt)
		delta := d.Obj.Velocity.Scale(dt)

		for _, s := range e.statics {
			if d.Obj.Overlaps(s.Obj, delta) {
				events = append(events, Collision(s))
				collisions++
			}
		}
		for _, other := range e.dynamics {
			if other.ID == d.ID {
				continue
			}
			if d.Obj.Overlaps(other.Obj, delta) {
				events = append(events, Collision(other))
				collisions++
			}
		}

		e.queue = append(e.queue, outgoing{to: d.ID, events: events})
	}

	observability.RecordCollisions(collisions)
	if collisions > 0 {
		e.logger.Debug("collisions predicted",
			"dynamics", len(e.dynamics),
			"statics", len(e.statics),
			"collisions", collisions,
		)
	}
}

// PostUpdate routes each body's queued events to its receiver.
func (e *Engine) PostUpdate() {
	for _, out := range e.queue {
		for _, ev := range out.events {
			if !e.outbound.Route(out.to, ev) {
				observability.RecordDroppedRoute(Alias)
			}
		}
	}
	e.queue = e.queue[:0]
}

// Load returns a fresh engine; settings are ignored.
func (e *Engine) Load(element.Document) (element.Element, error) {
	return element.NewModule(NewEngine(WithLogger(e.logger))), nil
}

// Save records only the template name.
func (e *Engine) Save() element.Document {
	return element.NewDocument(TemplateName, nil)
}

var _ element.ModuleBehavior = (*Engine)(nil)
