// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package physics

import (
	"math"

	"github.com/burge/burge/internal/geom"
)

// DefaultGravity is the gravity strength of a body with default settings.
const DefaultGravity = -8.0

// Settings tune how a body integrates.
type Settings struct {
	GravityStrength float64 `mapstructure:"gravity_strength"`
	// Drag is carried for documents but not applied by Step.
	Drag geom.Vec2 `mapstructure:"drag"`
}

// DefaultSettings returns gravity -8 and no drag.
func DefaultSettings() Settings {
	return Settings{GravityStrength: DefaultGravity}
}

// PhysObj is an axis-aligned rectangle with a velocity. Pos is the
// bottom-left corner and Shape the extent.
type PhysObj struct {
	Pos      geom.Vec2 `mapstructure:"pos"`
	Shape    geom.Vec2 `mapstructure:"shape"`
	Velocity geom.Vec2 `mapstructure:"velocity"`
	Settings Settings  `mapstructure:"settings"`
}

// New returns a unit square at the origin with default settings.
func New() PhysObj {
	return PhysObj{
		Shape:    geom.V(1, 1),
		Settings: DefaultSettings(),
	}
}

// Center returns the rectangle's center point.
func (o PhysObj) Center() geom.Vec2 {
	return geom.V(o.Pos.X+o.Shape.X/2, o.Pos.Y+o.Shape.Y/2)
}

// Overlaps predicts whether o, displaced by delta, overlaps other. Touching
// edges count as overlap.
func (o PhysObj) Overlaps(other PhysObj, delta geom.Vec2) bool {
	left, right := o.Pos.X+delta.X, o.Pos.X+o.Shape.X+delta.X
	bottom, top := o.Pos.Y+delta.Y, o.Pos.Y+o.Shape.Y+delta.Y

	otherLeft, otherRight := other.Pos.X, other.Pos.X+other.Shape.X
	otherBottom, otherTop := other.Pos.Y, other.Pos.Y+other.Shape.Y

	return !(left > otherRight || right < otherLeft || bottom > otherTop || top < otherBottom)
}

// NearestDelta returns the smallest single-axis displacement that moves o
// out of other. Exactly one component is non-zero unless the gap is zero.
func (o PhysObj) NearestDelta(other PhysObj) geom.Vec2 {
	left := other.Pos.X - (o.Pos.X + o.Shape.X)
	right := (other.Pos.X + other.Shape.X) - o.Pos.X
	down := other.Pos.Y - (o.Pos.Y + o.Shape.Y)
	up := (other.Pos.Y + other.Shape.Y) - o.Pos.Y

	horizontal := left
	if math.Abs(left) > math.Abs(right) {
		horizontal = right
	}
	vertical := down
	if math.Abs(down) > math.Abs(up) {
		vertical = up
	}

	if math.Abs(horizontal) < math.Abs(vertical) {
		return geom.V(horizontal, 0)
	}
	return geom.V(0, vertical)
}

// Step returns the body's unconditional per-tick mutations: the position
// moves by the current velocity, then gravity (if any) changes the velocity.
func (o PhysObj) Step(dt float64) []Event {
	events := []Event{ModPos{Delta: o.Velocity.Scale(dt)}}
	if o.Settings.GravityStrength != 0 {
		events = append(events, ModVelocity{Delta: geom.V(0, o.Settings.GravityStrength*dt)})
	}
	return events
}

// Apply applies every mutation event to o in order and returns the events
// it does not interpret (declarations and collisions), in their original
// relative order.
func (o *PhysObj) Apply(events []Event) []Event {
	var leftover []Event
	for _, e := range events {
		switch ev := e.(type) {
		case ModPos:
			o.Pos = o.Pos.Add(ev.Delta)
		case ModVelocity:
			o.Velocity = o.Velocity.Add(ev.Delta)
		case ScalePos:
			o.Pos = o.Pos.Mul(ev.Factor)
		case ScaleVelocity:
			o.Velocity = o.Velocity.Mul(ev.Factor)
		case SetVelocity:
			if ev.X != nil {
				o.Velocity.X = *ev.X
			}
			if ev.Y != nil {
				o.Velocity.Y = *ev.Y
			}
		default:
			leftover = append(leftover, e)
		}
	}
	return leftover
}
