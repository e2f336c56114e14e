// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package host drives the current scene of a scene manager at a fixed step
// and hands drawables to a presentation collaborator.
package host

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/input"
	"github.com/burge/burge/internal/logging"
	"github.com/burge/burge/internal/observability"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/internal/sprite"
)

const tracerName = "github.com/burge/burge/internal/host"

// Frame is what a presentation collaborator needs to draw one frame.
type Frame struct {
	Number  uint64
	Sprites []*sprite.Sprite
	Clip    geom.Mat3
	Offset  geom.Vec2
}

// Host runs frames on the manager's current scene. It is not safe for
// concurrent use.
type Host struct {
	manager *scene.Manager
	metrics *observability.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
	frame   uint64
}

// Option configures a Host.
type Option func(*Host)

// WithMetrics records frame metrics into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Host) { h.metrics = m }
}

// WithLogger sets the host's logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithTracerProvider sets where frame spans go. The global provider is
// used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Host) { h.tracer = tp.Tracer(tracerName) }
}

// New creates a host over m.
func New(m *scene.Manager, opts ...Option) *Host {
	h := &Host{
		manager: m,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(tracerName)
	}
	return h
}

// Frame returns the number of frames stepped so far.
func (h *Host) Frame() uint64 { return h.frame }

// Init initializes every scene the manager holds.
func (h *Host) Init() {
	h.manager.InitAll()
}

func (h *Host) current() (*scene.Scene, string, error) {
	s, name, ok := h.manager.Current()
	if !ok {
		return nil, "", oops.Code("SCENE_NOT_FOUND").Errorf("no current scene")
	}
	return s, name, nil
}

// Step runs one frame of dt seconds on the current scene.
func (h *Host) Step(ctx context.Context, dt float64) error {
	s, name, err := h.current()
	if err != nil {
		return err
	}

	h.frame++
	ctx = logging.WithFrame(ctx, h.frame)
	ctx, span := h.tracer.Start(ctx, "host.step", trace.WithAttributes(
		attribute.String("scene", name),
		attribute.Int64("frame", int64(h.frame)), //nolint:gosec // frame counts stay far below MaxInt64
		attribute.Float64("dt", dt),
	))
	defer span.End()

	start := time.Now()
	s.Update(dt)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int("entities", s.Len()))
	if h.metrics != nil {
		h.metrics.Frames.Inc()
		h.metrics.FrameSeconds.Observe(elapsed.Seconds())
		h.metrics.Entities.WithLabelValues(name).Set(float64(s.Len()))
	}
	h.logger.DebugContext(ctx, "frame stepped",
		"scene", name,
		"entities", s.Len(),
		"elapsed", elapsed)
	return nil
}

// Run steps the current scene every dt of wall-clock time until frames
// frames have run or ctx is done. frames <= 0 means run until ctx is done.
// Cancellation is a normal stop and returns nil.
func (h *Host) Run(ctx context.Context, dt time.Duration, frames int) error {
	if dt <= 0 {
		return oops.Code("CONFIG_INVALID").With("dt", dt).Errorf("step must be positive")
	}

	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	for n := 0; frames <= 0 || n < frames; n++ {
		select {
		case <-ctx.Done():
			h.logger.InfoContext(ctx, "host stopped", "frames", h.frame)
			return nil
		case <-ticker.C:
		}
		if err := h.Step(ctx, dt.Seconds()); err != nil {
			return err
		}
	}
	return nil
}

// Present returns the current scene's drawables and camera projection for
// a surface of the given size.
func (h *Host) Present(vp geom.Viewport) (Frame, error) {
	s, _, err := h.current()
	if err != nil {
		return Frame{}, err
	}
	clip, offset := s.CameraProjection(vp)
	return Frame{
		Number:  h.frame,
		Sprites: s.Display(),
		Clip:    clip,
		Offset:  offset,
	}, nil
}

// Input returns the input module of the current scene, if it has one.
func (h *Host) Input() (*input.Manager, bool) {
	s, _, err := h.current()
	if err != nil {
		return nil, false
	}
	e, ok := s.Resolve(input.Alias)
	if !ok {
		return nil, false
	}
	m, ok := e.(*element.Module)
	if !ok {
		return nil, false
	}
	manager, ok := m.Behavior().(*input.Manager)
	return manager, ok
}

// KeyDown forwards a key press to the current scene's input module.
func (h *Host) KeyDown(code uint32) bool {
	m, ok := h.Input()
	if ok {
		m.KeyDown(code)
	}
	return ok
}

// KeyUp forwards a key release to the current scene's input module.
func (h *Host) KeyUp(code uint32) bool {
	m, ok := h.Input()
	if ok {
		m.KeyUp(code)
	}
	return ok
}
