// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package camera_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burge/burge/internal/behavior/camera"
	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/pkg/errutil"
)

func TestCamera_ClipMatrix(t *testing.T) {
	cam := camera.New(camera.DefaultSettings())

	tests := []struct {
		name          string
		vp            geom.Viewport
		width, height float64
	}{
		{"design aspect", geom.Viewport{Width: 1600, Height: 900}, 20, 11.25},
		{"wider", geom.Viewport{Width: 1800, Height: 900}, 22.5, 11.25},
		{"taller", geom.Viewport{Width: 900, Height: 900}, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := cam.ClipMatrix(tt.vp)
			assert.InDelta(t, 2/tt.width, m[0][0], 1e-9)
			assert.InDelta(t, 2/tt.height, m[1][1], 1e-9)
			assert.InDelta(t, 1, m[2][2], 1e-9)
			assert.Zero(t, m[0][1])
		})
	}
}

func TestCamera_BecomesActiveOnInit(t *testing.T) {
	templates := scene.NewTemplates(nil)
	templates.Register(camera.TemplateName, element.NewLeaf(camera.New(camera.DefaultSettings())))

	s, err := templates.CreateScene([]element.Document{
		element.NewDocument(camera.TemplateName, map[string]any{"pos": []any{4, 2}, "scale": 10}),
	})
	require.NoError(t, err)
	s.InitElements()
	s.Update(0.1)

	_, ok := s.Element(s.Camera())
	require.True(t, ok)

	m, off := s.CameraProjection(geom.Viewport{Width: 1600, Height: 900})
	assert.Equal(t, geom.V(4, 2), off)
	assert.InDelta(t, 0.2, m[0][0], 1e-9)
}

func TestCamera_SaveAndLoad(t *testing.T) {
	cam := camera.New(camera.Settings{Pos: geom.V(1, 2), Scale: 30, Aspect: 2})
	doc := cam.Save()
	assert.Equal(t, camera.TemplateName, doc.Name())

	e, err := cam.Load(doc)
	require.NoError(t, err)
	assert.Equal(t, geom.V(1, 2), e.Offset())

	_, err = cam.Load(element.NewDocument(camera.TemplateName, map[string]any{"scale": "big"}))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "INVALID_SETTINGS")
}

func TestCamera_LoadRejectsDegenerateView(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
	}{
		{"zero scale", map[string]any{"scale": 0}},
		{"negative scale", map[string]any{"scale": -4}},
		{"zero aspect", map[string]any{"aspect": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := camera.New(camera.DefaultSettings()).Load(element.NewDocument(camera.TemplateName, tt.settings))
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "INVALID_SETTINGS")
		})
	}
}
