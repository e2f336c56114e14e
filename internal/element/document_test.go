// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package element_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/pkg/errutil"
)

type blockSettings struct {
	Pos   geom.Vec2 `mapstructure:"pos"`
	Shape geom.Vec2 `mapstructure:"shape"`
	Solid bool      `mapstructure:"solid"`
	Tags  []string  `mapstructure:"tags"`
}

func TestDocument_Accessors(t *testing.T) {
	doc := element.NewDocument("block", map[string]any{"solid": true})
	assert.Equal(t, "block", doc.Name())

	_, ok := doc.Settings()
	assert.True(t, ok)

	bare := element.Document{"name": 3}
	assert.Empty(t, bare.Name())
	_, ok = bare.Settings()
	assert.False(t, ok)
}

func TestDocument_DecodeSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings any
		want     blockSettings
	}{
		{
			name:     "array vectors",
			settings: map[string]any{"pos": []any{1, 2.5}, "solid": true},
			want:     blockSettings{Pos: geom.V(1, 2.5), Shape: geom.V(1, 1), Solid: true},
		},
		{
			name:     "map vectors",
			settings: map[string]any{"shape": map[string]any{"x": 3, "y": 4}, "tags": []any{"wall"}},
			want:     blockSettings{Shape: geom.V(3, 4), Tags: []string{"wall"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := blockSettings{Shape: geom.V(1, 1)}
			present, err := element.NewDocument("block", tt.settings).DecodeSettings(&got)
			require.NoError(t, err)
			assert.True(t, present)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_DecodeSettingsAbsentKeepsDefaults(t *testing.T) {
	got := blockSettings{Shape: geom.V(1, 1)}
	present, err := element.NewDocument("block", nil).DecodeSettings(&got)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, geom.V(1, 1), got.Shape)
}

func TestDocument_DecodeSettingsMalformed(t *testing.T) {
	tests := []struct {
		name     string
		settings any
	}{
		{"unknown key", map[string]any{"colour": "red"}},
		{"short vector", map[string]any{"pos": []any{1}}},
		{"non-numeric vector", map[string]any{"pos": []any{"a", "b"}}},
		{"wrong type", map[string]any{"solid": []any{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got blockSettings
			_, err := element.NewDocument("block", tt.settings).DecodeSettings(&got)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "INVALID_SETTINGS")
			errutil.AssertErrorContext(t, err, "template", "block")
		})
	}
}

func TestEncodeSettings_RoundTrips(t *testing.T) {
	original := blockSettings{Pos: geom.V(1, 2), Shape: geom.V(3, 4), Solid: true, Tags: []string{"a"}}

	encoded, err := element.EncodeSettings(original)
	require.NoError(t, err)

	var decoded blockSettings
	_, err = element.NewDocument("block", encoded).DecodeSettings(&decoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestSaveDocument(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	doc := element.SaveDocument(logger, "block", blockSettings{Pos: geom.V(1, 2), Solid: true})
	assert.Equal(t, "block", doc.Name())
	settings, ok := doc.Settings()
	require.True(t, ok)
	assert.Equal(t, true, settings.(map[string]any)["solid"])
	assert.Empty(t, buf.String())
}

func TestSaveDocument_LogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	doc := element.SaveDocument(logger, "block", 5)
	assert.Equal(t, "block", doc.Name())
	_, ok := doc.Settings()
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "encode settings failed")
	assert.Contains(t, buf.String(), "template=block")
}
