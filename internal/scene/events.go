// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package scene

import (
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/id"
)

// Event is a topology change requested through the scene broadcast channel.
// Events are applied at the start of the next Update.
type Event interface {
	sceneEvent()
}

// SetCamera makes the element under ID the active camera.
type SetCamera struct {
	ID id.ID
}

// Instantiate spawns an element from a template document.
type Instantiate struct {
	Doc element.Document
}

// Delete removes the element under ID. Routed registrations held by other
// channels are not cleaned up.
type Delete struct {
	ID id.ID
}

// TemplatesAvailable is broadcast by InitElements so behaviors can hold on
// to the template registry without owning it.
type TemplatesAvailable struct {
	Ref TemplatesRef
}

func (SetCamera) sceneEvent()          {}
func (Instantiate) sceneEvent()        {}
func (Delete) sceneEvent()             {}
func (TemplatesAvailable) sceneEvent() {}
