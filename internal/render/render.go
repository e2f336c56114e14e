// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package render rasterizes a presented frame into a PNG snapshot. Each atlas
// cell is drawn as a flat rectangle coloured from a fixed palette, which is
// enough to inspect layouts without a sprite sheet.
package render

import (
	"cmp"
	"io"
	"math"
	"os"
	"slices"

	"github.com/gogpu/gg"
	"github.com/samber/oops"

	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/host"
	"github.com/burge/burge/internal/sprite"
)

// DefaultPalette colours atlas index i with DefaultPalette[i%len].
var DefaultPalette = []gg.RGBA{
	{R: 0.90, G: 0.30, B: 0.25, A: 1},
	{R: 0.25, G: 0.60, B: 0.90, A: 1},
	{R: 0.35, G: 0.80, B: 0.35, A: 1},
	{R: 0.95, G: 0.80, B: 0.25, A: 1},
	{R: 0.65, G: 0.40, B: 0.85, A: 1},
	{R: 0.95, G: 0.55, B: 0.20, A: 1},
	{R: 0.30, G: 0.85, B: 0.80, A: 1},
	{R: 0.85, G: 0.85, B: 0.85, A: 1},
}

// DefaultBackground fills pixels no sprite covers.
var DefaultBackground = gg.RGBA{R: 0.08, G: 0.08, B: 0.10, A: 1}

// Renderer draws frames. The zero value is not usable; use New.
type Renderer struct {
	palette    []gg.RGBA
	background gg.RGBA
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPalette replaces the cell palette. An empty palette is ignored.
func WithPalette(p []gg.RGBA) Option {
	return func(r *Renderer) {
		if len(p) > 0 {
			r.palette = p
		}
	}
}

// WithBackground sets the clear colour.
func WithBackground(c gg.RGBA) Option {
	return func(r *Renderer) { r.background = c }
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		palette:    DefaultPalette,
		background: DefaultBackground,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Color returns the colour used for atlas index i.
func (r *Renderer) Color(i int) gg.RGBA {
	n := len(r.palette)
	return r.palette[((i%n)+n)%n]
}

// Encode draws f on a vp-sized surface and writes it to w as PNG.
func (r *Renderer) Encode(w io.Writer, f host.Frame, vp geom.Viewport) error {
	if vp.Width == 0 || vp.Height == 0 {
		return oops.Code("INVALID_VIEWPORT").With("viewport", vp).Errorf("viewport must have a non-zero size")
	}

	dc := gg.NewContext(int(vp.Width), int(vp.Height))
	defer func() { _ = dc.Close() }()
	dc.ClearWithColor(r.background)

	for _, rec := range ordered(f.Sprites) {
		if err := r.drawRecord(dc, rec, f, vp); err != nil {
			return oops.Code("RENDER_FAILED").With("frame", f.Number).Wrap(err)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return oops.Code("RENDER_FAILED").With("frame", f.Number).Wrapf(err, "encode png")
	}
	return nil
}

// SavePNG renders f into the file at path, replacing it.
func (r *Renderer) SavePNG(path string, f host.Frame, vp geom.Viewport) (err error) {
	out, err := os.Create(path) //nolint:gosec // path comes from the operator's config
	if err != nil {
		return oops.Code("RENDER_FAILED").With("path", path).Wrap(err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = oops.Code("RENDER_FAILED").With("path", path).Wrap(cerr)
		}
	}()
	return r.Encode(out, f, vp)
}

// ordered flattens every chain and sorts the records far to near. Larger
// depth is farther away.
func ordered(chains []*sprite.Sprite) []*sprite.Sprite {
	var out []*sprite.Sprite
	for _, chain := range chains {
		chain.Walk(func(s *sprite.Sprite) {
			if len(s.TexIndices) > 0 {
				out = append(out, s)
			}
		})
	}
	slices.SortStableFunc(out, func(a, b *sprite.Sprite) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	return out
}

// drawRecord fills one rectangle per cell. Column c, row n of TexIndices
// covers [Pos + (c, n)*Scale, Pos + (c+1, n+1)*Scale]; Flip mirrors columns.
func (r *Renderer) drawRecord(dc *gg.Context, s *sprite.Sprite, f host.Frame, vp geom.Viewport) error {
	cols := len(s.TexIndices)
	for c, column := range s.TexIndices {
		slot := c
		if s.Flip {
			slot = cols - 1 - c
		}
		for n, index := range column {
			if index < 0 {
				continue
			}
			lo := s.Pos.Add(geom.V(float64(slot), float64(n)).Mul(s.Scale))
			hi := lo.Add(s.Scale)
			x0, y0 := project(lo, f, vp)
			x1, y1 := project(hi, f, vp)

			col := r.Color(index)
			dc.SetRGBA(col.R, col.G, col.B, col.A)
			dc.DrawRectangle(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
			if err := dc.Fill(); err != nil {
				return err
			}
		}
	}
	return nil
}

// project maps a world point to pixel coordinates, y down.
func project(p geom.Vec2, f host.Frame, vp geom.Viewport) (float64, float64) {
	clip := f.Clip.Apply(p.Sub(f.Offset))
	return (clip.X + 1) / 2 * float64(vp.Width), (1 - clip.Y) / 2 * float64(vp.Height)
}
