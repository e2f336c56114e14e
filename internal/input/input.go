// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package input turns host key presses into events that behaviors can
// subscribe to through the "input" module.
package input

import (
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
)

// Alias is the discovery key of the input module.
const Alias = "input"

// TemplateName is the registry name of the input module.
const TemplateName = "input"

// Key fetches the subscription-only view of the input channel.
var Key = element.NewKey[*event.Locked[Event]](Alias)

// Event is a key transition. Codes are opaque to the runtime.
type Event struct {
	Code uint32
	Down bool
}

// Manager is the input module. The host pushes key transitions; behaviors
// subscribe through its capability.
type Manager struct {
	element.Base
	sender *event.Sender[Event]
	held   map[uint32]bool
}

// NewManager creates a manager with no keys held.
func NewManager() *Manager {
	return &Manager{
		sender: event.NewSender[Event](),
		held:   make(map[uint32]bool),
	}
}

// Alias implements element.ModuleBehavior.
func (m *Manager) Alias() string { return Alias }

// Capability implements element.ModuleBehavior.
func (m *Manager) Capability() any { return m.sender.Lock() }

// KeyDown broadcasts a press of code. Repeats while held are suppressed.
func (m *Manager) KeyDown(code uint32) {
	if m.held[code] {
		return
	}
	m.held[code] = true
	m.sender.Send(Event{Code: code, Down: true})
}

// KeyUp broadcasts a release of code.
func (m *Manager) KeyUp(code uint32) {
	if !m.held[code] {
		return
	}
	delete(m.held, code)
	m.sender.Send(Event{Code: code})
}

// Held reports whether code is currently pressed.
func (m *Manager) Held(code uint32) bool {
	return m.held[code]
}

// Subscribers returns the number of receivers listening for input.
func (m *Manager) Subscribers() int {
	return m.sender.Subscribers()
}

// Load returns a fresh manager; input carries no settings.
func (m *Manager) Load(element.Document) (element.Element, error) {
	return element.NewModule(NewManager()), nil
}

// Save records that the scene has an input module. Held keys are not kept.
func (m *Manager) Save() element.Document {
	return element.NewDocument(TemplateName, nil)
}

var _ element.ModuleBehavior = (*Manager)(nil)
