// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package sprite defines the drawable descriptor handed to the rendering
// collaborator: a chain of records, each a grid of sprite-atlas indices
// placed in world space.
package sprite

import "github.com/burge/burge/internal/geom"

// Sprite is one drawable record. Next links further records so that a
// composite entity can return a single descriptor.
type Sprite struct {
	Pos        geom.Vec2 `mapstructure:"pos"`
	Scale      geom.Vec2 `mapstructure:"scale"`
	Depth      float64   `mapstructure:"depth"`
	TexIndices [][]int   `mapstructure:"tex_indices"`
	Flip       bool      `mapstructure:"flip"`
	Next       *Sprite   `mapstructure:"-"`
}

// Single returns a one-cell sprite showing atlas index.
func Single(index int) *Sprite {
	return &Sprite{
		Scale:      geom.V(1, 1),
		Depth:      -1,
		TexIndices: [][]int{{index}},
	}
}

// Composite returns a sprite covering a shape.X by shape.Y block of the
// atlas starting at start, where the atlas is sheetWidth cells wide.
func Composite(start int, shape [2]int, sheetWidth int) *Sprite {
	cols := make([][]int, 0, shape[0])
	for c := range shape[0] {
		column := make([]int, 0, shape[1])
		for n := range shape[1] {
			column = append(column, n*sheetWidth+start+c)
		}
		cols = append(cols, column)
	}
	return &Sprite{
		Scale:      geom.V(1, 1),
		Depth:      -1,
		TexIndices: cols,
	}
}

// Empty returns a sprite with no cells, used as the head of a chain.
func Empty() *Sprite {
	return &Sprite{Depth: -1}
}

// Repeat tiles the index grid times along the first axis.
func (s *Sprite) Repeat(times int) *Sprite {
	original := s.TexIndices
	for i := 1; i < times; i++ {
		for _, col := range original {
			s.TexIndices = append(s.TexIndices, append([]int(nil), col...))
		}
	}
	return s
}

// WithPos sets the position.
func (s *Sprite) WithPos(pos geom.Vec2) *Sprite {
	s.Pos = pos
	return s
}

// WithScale sets the per-cell scale.
func (s *Sprite) WithScale(scale geom.Vec2) *Sprite {
	s.Scale = scale
	return s
}

// WithDepth sets the depth.
func (s *Sprite) WithDepth(depth float64) *Sprite {
	s.Depth = depth
	return s
}

// Chain appends next to the end of the chain starting at s.
func (s *Sprite) Chain(next *Sprite) {
	if next == nil {
		return
	}
	tail := s
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = next
}

// Clone deep-copies the chain.
func (s *Sprite) Clone() *Sprite {
	if s == nil {
		return nil
	}
	c := *s
	c.TexIndices = make([][]int, len(s.TexIndices))
	for i, col := range s.TexIndices {
		c.TexIndices[i] = append([]int(nil), col...)
	}
	c.Next = s.Next.Clone()
	return &c
}

// Walk calls fn for every record in the chain, in order.
func (s *Sprite) Walk(fn func(*Sprite)) {
	for cur := s; cur != nil; cur = cur.Next {
		fn(cur)
	}
}

// Len returns the number of records in the chain.
func (s *Sprite) Len() int {
	n := 0
	s.Walk(func(*Sprite) { n++ })
	return n
}
