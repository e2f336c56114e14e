// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package scene owns a set of elements, resolves module aliases for them and
// drives their per-frame lifecycle.
package scene

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/event"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/id"
	"github.com/burge/burge/internal/observability"
	"github.com/burge/burge/internal/sprite"
	"github.com/burge/burge/pkg/errutil"
)

// Scene is an alias registry plus an element table. It is not safe for
// concurrent use.
type Scene struct {
	aliases  map[string]id.ID
	elements map[id.ID]element.Element
	camera   id.ID

	sender   *event.Sender[Event]
	receiver *event.Receiver[Event]
	tags     *Tags

	templates TemplatesRef
	logger    *slog.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithLogger sets the scene's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTemplates sets the registry used for Instantiate.
func WithTemplates(ref TemplatesRef) Option {
	return func(s *Scene) { s.templates = ref }
}

// New creates a scene holding only the "scene broadcast" and "tags"
// modules.
func New(opts ...Option) *Scene {
	sender := event.NewSender[Event]()
	s := &Scene{
		aliases:  make(map[string]id.ID),
		elements: make(map[id.ID]element.Element),
		sender:   sender,
		receiver: sender.NewReceiver(),
		tags:     NewTags(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Add(element.NewModule(&broadcast{sender: sender.Clone()}))
	s.Add(element.NewModule(s.tags))
	return s
}

// Add registers e under a fresh identifier. Modules are also registered
// under their alias, replacing any earlier holder.
func (s *Scene) Add(e element.Element) id.ID {
	eid := id.New()
	if m, ok := e.(*element.Module); ok {
		s.aliases[m.Alias()] = eid
	}
	s.elements[eid] = e
	return eid
}

// Resolve implements element.Resolver. A stale alias whose element was
// deleted resolves to nothing.
func (s *Scene) Resolve(alias string) (element.Element, bool) {
	eid, ok := s.aliases[alias]
	if !ok {
		return nil, false
	}
	e, ok := s.elements[eid]
	return e, ok
}

// Lookup returns the identifier registered under alias, which may be stale.
func (s *Scene) Lookup(alias string) (id.ID, bool) {
	eid, ok := s.aliases[alias]
	return eid, ok
}

// Tools returns a module tool over this scene.
func (s *Scene) Tools() *element.ModuleTool {
	return element.NewModuleTool(s)
}

// Sender returns a handle on the scene's own broadcast channel.
func (s *Scene) Sender() *event.Sender[Event] {
	return s.sender.Clone()
}

// Tags returns the scene's tag table.
func (s *Scene) Tags() *Tags {
	return s.tags
}

// Element returns the element registered under eid.
func (s *Scene) Element(eid id.ID) (element.Element, bool) {
	e, ok := s.elements[eid]
	return e, ok
}

// Len returns the number of registered elements, built-in modules included.
func (s *Scene) Len() int {
	return len(s.elements)
}

// Camera returns the active camera's identifier, or id.Zero.
func (s *Scene) Camera() id.ID {
	return s.camera
}

// InitElements initializes every registered element and then announces the
// template registry.
func (s *Scene) InitElements() {
	tools := s.Tools()
	for eid, e := range s.elements {
		e.Init(eid, tools)
	}
	s.sender.Send(TemplatesAvailable{Ref: s.templates})
}

// Update applies pending topology events, then runs LocalUpdate followed by
// PostUpdate on every element. Iteration order is unspecified.
func (s *Scene) Update(dt float64) {
	for _, ev := range s.receiver.Poll() {
		s.apply(ev)
	}
	for _, e := range s.elements {
		e.LocalUpdate(dt)
	}
	for _, e := range s.elements {
		e.PostUpdate()
	}
}

func (s *Scene) apply(ev Event) {
	switch ev := ev.(type) {
	case SetCamera:
		s.camera = ev.ID
	case Instantiate:
		s.spawn(ev.Doc)
	case Delete:
		s.remove(ev.ID)
	case TemplatesAvailable:
	}
}

// remove drops the element under eid and releases what its behaviors hold.
func (s *Scene) remove(eid id.ID) {
	e, ok := s.elements[eid]
	if !ok {
		return
	}
	delete(s.elements, eid)
	s.tags.Forget(eid)
	if err := element.Release(e); err != nil {
		errutil.LogError(s.logger, "release failed", err, "element", eid.String())
	}
}

func (s *Scene) spawn(doc element.Document) {
	templates, ok := s.templates.Get()
	if !ok {
		s.logger.Debug("dropping spawn without templates", "template", doc.Name())
		return
	}
	e, err := templates.CreateElement(doc)
	if err != nil {
		observability.RecordSpawnFailure(doc.Name())
		errutil.LogError(s.logger, "spawn failed", err)
		return
	}
	if element.IsNull(e) {
		return
	}
	eid := s.Add(e)
	e.Init(eid, s.Tools())
}

// Display returns the drawable of every element that has one.
func (s *Scene) Display() []*sprite.Sprite {
	var out []*sprite.Sprite
	for _, e := range s.elements {
		if sp := e.Sprite(); sp != nil {
			out = append(out, sp)
		}
	}
	return out
}

// Save returns the save document of every element that has one, in
// identifier order.
func (s *Scene) Save() []element.Document {
	ids := slices.SortedFunc(maps.Keys(s.elements), func(a, b id.ID) int { return a.Compare(b) })
	var out []element.Document
	for _, eid := range ids {
		if doc := s.elements[eid].Save(); doc != nil {
			out = append(out, doc)
		}
	}
	return out
}

// CameraProjection returns the active camera's clip matrix and offset, or
// identity and zero when no camera is live.
func (s *Scene) CameraProjection(vp geom.Viewport) (geom.Mat3, geom.Vec2) {
	camera, ok := s.elements[s.camera]
	if !ok {
		return geom.Identity(), geom.Vec2{}
	}
	return camera.ClipMatrix(vp), camera.Offset()
}

var _ element.Resolver = (*Scene)(nil)
