// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package physics

import (
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/id"
)

// Event is a physics declaration, collision notice or mutation instruction.
// A zero ID on Static or Collision means the body is anonymous.
type Event interface {
	physicsEvent()
}

// Static declares a permanent obstacle.
type Static struct {
	ID  id.ID
	Obj PhysObj
}

// Dynamic declares a moving body for the current tick only.
type Dynamic struct {
	ID  id.ID
	Obj PhysObj
}

// Collision tells a body that its motion this tick is predicted to overlap
// the body described by ID and Obj.
type Collision struct {
	ID  id.ID
	Obj PhysObj
}

// ModPos adds Delta to the position.
type ModPos struct {
	Delta geom.Vec2
}

// ScalePos multiplies the position component-wise by Factor.
type ScalePos struct {
	Factor geom.Vec2
}

// ModVelocity adds Delta to the velocity.
type ModVelocity struct {
	Delta geom.Vec2
}

// ScaleVelocity multiplies the velocity component-wise by Factor.
type ScaleVelocity struct {
	Factor geom.Vec2
}

// SetVelocity overwrites the velocity on each axis whose value is non-nil.
type SetVelocity struct {
	X, Y *float64
}

// SetVelocityX overwrites only the horizontal velocity.
func SetVelocityX(x float64) SetVelocity { return SetVelocity{X: &x} }

// SetVelocityY overwrites only the vertical velocity.
func SetVelocityY(y float64) SetVelocity { return SetVelocity{Y: &y} }

func (Static) physicsEvent()        {}
func (Dynamic) physicsEvent()       {}
func (Collision) physicsEvent()     {}
func (ModPos) physicsEvent()        {}
func (ScalePos) physicsEvent()      {}
func (ModVelocity) physicsEvent()   {}
func (ScaleVelocity) physicsEvent() {}
func (SetVelocity) physicsEvent()   {}
