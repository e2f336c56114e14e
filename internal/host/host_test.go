// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package host_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"

	"github.com/burge/burge/internal/behavior"
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/host"
	"github.com/burge/burge/internal/observability"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/pkg/errutil"
)

func newManager(t *testing.T) *scene.Manager {
	t.Helper()
	m := scene.NewManager()
	behavior.Register(m.Templates(), nil)
	_, err := m.CreateScene("level", []element.Document{
		element.NewDocument("physics", nil),
		element.NewDocument("input", nil),
		element.NewDocument("camera", map[string]any{"pos": []any{1, 2}}),
		element.NewDocument("block", map[string]any{"pos": []any{-5, -5}, "shape": []any{10, 5}, "sprite": 1}),
		element.NewDocument("body", map[string]any{
			"phys":     map[string]any{"pos": []any{-0.5, 1}},
			"controls": map[string]any{},
			"sprite":   2,
		}),
	})
	require.NoError(t, err)
	require.NoError(t, m.SetScene("level"))
	return m
}

func TestHost_StepWithoutSceneFails(t *testing.T) {
	h := host.New(scene.NewManager())

	err := h.Step(context.Background(), 0.1)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SCENE_NOT_FOUND")

	_, err = h.Present(geom.Viewport{Width: 16, Height: 9})
	errutil.AssertErrorCode(t, err, "SCENE_NOT_FOUND")
}

func TestHost_StepRecordsMetricsAndSpans(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	h := host.New(newManager(t), host.WithMetrics(metrics), host.WithTracerProvider(tp))
	h.Init()

	for range 3 {
		require.NoError(t, h.Step(context.Background(), 0.1))
	}

	assert.Equal(t, uint64(3), h.Frame())
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.Frames), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(metrics.Entities.WithLabelValues("level")), 0)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "host.step", spans[0].Name())
}

func TestHost_Present(t *testing.T) {
	h := host.New(newManager(t))
	h.Init()
	require.NoError(t, h.Step(context.Background(), 0.1))

	frame, err := h.Present(geom.Viewport{Width: 1600, Height: 900})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), frame.Number)
	assert.Len(t, frame.Sprites, 2)
	assert.Equal(t, geom.V(1, 2), frame.Offset)
	assert.InDelta(t, 0.1, frame.Clip[0][0], 1e-9)
}

func TestHost_KeysReachInput(t *testing.T) {
	h := host.New(newManager(t))
	h.Init()

	m, ok := h.Input()
	require.True(t, ok)
	assert.True(t, h.KeyDown('D'))
	assert.True(t, m.Held('D'))
	assert.True(t, h.KeyUp('D'))
	assert.False(t, m.Held('D'))

	assert.False(t, host.New(scene.NewManager()).KeyDown('D'))
}

func TestHost_RunStopsAfterFrames(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := host.New(newManager(t))
	h.Init()

	require.NoError(t, h.Run(context.Background(), time.Millisecond, 5))
	assert.Equal(t, uint64(5), h.Frame())
}

func TestHost_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := host.New(newManager(t))
	h.Init()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx, time.Millisecond, 0) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Positive(t, h.Frame())
}

func TestHost_RunRejectsBadStep(t *testing.T) {
	err := host.New(newManager(t)).Run(context.Background(), 0, 1)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}
