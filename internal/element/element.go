// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package element defines the entity composition tree: behaviors, the four
// element variants that dispatch lifecycle calls to them, and the module
// discovery tool entities use to find each other's capabilities.
package element

import (
	"errors"
	"io"

	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/id"
	"github.com/burge/burge/internal/sprite"
)

// Behavior is the per-entity logic driven by the scene. Embed Base to get
// no-op defaults and override only the calls a behavior cares about.
type Behavior interface {
	// Init runs once, after the owning scene has registered its initial
	// entities (or immediately after a spawn).
	Init(self id.ID, tools *ModuleTool)
	// LocalUpdate runs every frame.
	LocalUpdate(dt float64)
	// PostUpdate runs every frame after every entity's LocalUpdate.
	PostUpdate()
	Save() Document
	// Load builds a new element from doc without mutating the receiver.
	Load(doc Document) (Element, error)
	ClipMatrix(vp geom.Viewport) geom.Mat3
	Offset() geom.Vec2
	Sprite() *sprite.Sprite
}

// ModuleBehavior is a behavior that exposes one capability under an alias.
type ModuleBehavior interface {
	Behavior
	Alias() string
	Capability() any
}

// Base implements every Behavior method as a no-op.
type Base struct{}

func (Base) Init(id.ID, *ModuleTool)            {}
func (Base) LocalUpdate(float64)                {}
func (Base) PostUpdate()                        {}
func (Base) Save() Document                     { return nil }
func (Base) Load(Document) (Element, error)     { return Null{}, nil }
func (Base) ClipMatrix(geom.Viewport) geom.Mat3 { return geom.Identity() }
func (Base) Offset() geom.Vec2                  { return geom.Vec2{} }
func (Base) Sprite() *sprite.Sprite             { return nil }

// Kind identifies an element variant.
type Kind uint8

// Element variants.
const (
	KindNull Kind = iota
	KindLeaf
	KindGroup
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindLeaf:
		return "leaf"
	case KindGroup:
		return "group"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Element is a node of the composition tree. The variant set is closed:
// *Leaf, *Group, *Module and Null.
type Element interface {
	Kind() Kind
	Init(self id.ID, tools *ModuleTool)
	LocalUpdate(dt float64)
	PostUpdate()
	Save() Document
	Load(doc Document) (Element, error)
	ClipMatrix(vp geom.Viewport) geom.Mat3
	Offset() geom.Vec2
	Sprite() *sprite.Sprite

	sealed()
}

// Leaf wraps a single behavior.
type Leaf struct {
	behavior Behavior
}

// NewLeaf wraps b.
func NewLeaf(b Behavior) *Leaf {
	return &Leaf{behavior: b}
}

// Behavior returns the wrapped behavior.
func (l *Leaf) Behavior() Behavior { return l.behavior }

func (l *Leaf) Kind() Kind                            { return KindLeaf }
func (l *Leaf) Init(self id.ID, tools *ModuleTool)    { l.behavior.Init(self, tools) }
func (l *Leaf) LocalUpdate(dt float64)                { l.behavior.LocalUpdate(dt) }
func (l *Leaf) PostUpdate()                           { l.behavior.PostUpdate() }
func (l *Leaf) Save() Document                        { return l.behavior.Save() }
func (l *Leaf) Load(doc Document) (Element, error)    { return l.behavior.Load(doc) }
func (l *Leaf) ClipMatrix(vp geom.Viewport) geom.Mat3 { return l.behavior.ClipMatrix(vp) }
func (l *Leaf) Offset() geom.Vec2                     { return l.behavior.Offset() }
func (l *Leaf) Sprite() *sprite.Sprite                { return l.behavior.Sprite() }
func (l *Leaf) sealed()                               {}

// Module wraps a behavior that exposes a discoverable capability.
type Module struct {
	behavior ModuleBehavior
}

// NewModule wraps m.
func NewModule(m ModuleBehavior) *Module {
	return &Module{behavior: m}
}

// Alias returns the key the module is discoverable under.
func (m *Module) Alias() string { return m.behavior.Alias() }

// Capability returns the exposed capability value.
func (m *Module) Capability() any { return m.behavior.Capability() }

// Behavior returns the wrapped behavior.
func (m *Module) Behavior() ModuleBehavior { return m.behavior }

func (m *Module) Kind() Kind                            { return KindModule }
func (m *Module) Init(self id.ID, tools *ModuleTool)    { m.behavior.Init(self, tools) }
func (m *Module) LocalUpdate(dt float64)                { m.behavior.LocalUpdate(dt) }
func (m *Module) PostUpdate()                           { m.behavior.PostUpdate() }
func (m *Module) Save() Document                        { return m.behavior.Save() }
func (m *Module) Load(doc Document) (Element, error)    { return m.behavior.Load(doc) }
func (m *Module) ClipMatrix(vp geom.Viewport) geom.Mat3 { return m.behavior.ClipMatrix(vp) }
func (m *Module) Offset() geom.Vec2                     { return m.behavior.Offset() }
func (m *Module) Sprite() *sprite.Sprite                { return m.behavior.Sprite() }
func (m *Module) sealed()                               {}

// Group is an ordered sequence of child elements that is itself an element.
// Children share the group's identifier.
type Group struct {
	children []Element
}

// NewGroup creates a group owning children.
func NewGroup(children ...Element) *Group {
	return &Group{children: children}
}

// Children returns the group's children in order.
func (g *Group) Children() []Element { return g.children }

// Append adds a child at the end.
func (g *Group) Append(e Element) { g.children = append(g.children, e) }

func (g *Group) Kind() Kind { return KindGroup }

func (g *Group) Init(self id.ID, tools *ModuleTool) {
	for _, c := range g.children {
		c.Init(self, tools)
	}
}

func (g *Group) LocalUpdate(dt float64) {
	for _, c := range g.children {
		c.LocalUpdate(dt)
	}
}

func (g *Group) PostUpdate() {
	for _, c := range g.children {
		c.PostUpdate()
	}
}

// Save is not implemented for groups and always returns nil.
func (g *Group) Save() Document { return nil }

// Load loads every child from the same document.
func (g *Group) Load(doc Document) (Element, error) {
	loaded := make([]Element, 0, len(g.children))
	for _, c := range g.children {
		e, err := c.Load(doc)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, e)
	}
	return NewGroup(loaded...), nil
}

func (g *Group) ClipMatrix(geom.Viewport) geom.Mat3 { return geom.Identity() }
func (g *Group) Offset() geom.Vec2                  { return geom.Vec2{} }

// Sprite chains every child's drawable behind an empty head record.
func (g *Group) Sprite() *sprite.Sprite {
	head := sprite.Empty()
	for _, c := range g.children {
		head.Chain(c.Sprite())
	}
	return head
}

func (g *Group) sealed() {}

// Null is the inert element.
type Null struct{}

func (Null) Kind() Kind                         { return KindNull }
func (Null) Init(id.ID, *ModuleTool)            {}
func (Null) LocalUpdate(float64)                {}
func (Null) PostUpdate()                        {}
func (Null) Save() Document                     { return nil }
func (Null) Load(Document) (Element, error)     { return Null{}, nil }
func (Null) ClipMatrix(geom.Viewport) geom.Mat3 { return geom.Identity() }
func (Null) Offset() geom.Vec2                  { return geom.Vec2{} }
func (Null) Sprite() *sprite.Sprite             { return nil }
func (Null) sealed()                            {}

// IsNull reports whether e is nil or the Null variant.
func IsNull(e Element) bool {
	return e == nil || e.Kind() == KindNull
}

// Release closes every behavior under e that implements io.Closer. Group
// children are released in order and their errors joined.
func Release(e Element) error {
	switch e := e.(type) {
	case *Leaf:
		return closeBehavior(e.behavior)
	case *Module:
		return closeBehavior(e.behavior)
	case *Group:
		var errs []error
		for _, c := range e.children {
			errs = append(errs, Release(c))
		}
		return errors.Join(errs...)
	default:
		return nil
	}
}

func closeBehavior(b Behavior) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
