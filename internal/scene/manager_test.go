// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burge/burge/internal/element"
	"github.com/burge/burge/internal/scene"
	"github.com/burge/burge/pkg/errutil"
)

func newManager(t *testing.T) *scene.Manager {
	t.Helper()
	m := scene.NewManager()
	m.Templates().Register("marker", element.NewLeaf(&marker{}))
	_, err := m.CreateScene("title", []element.Document{element.NewDocument("marker", nil)})
	require.NoError(t, err)
	_, err = m.CreateScene("level", []element.Document{
		element.NewDocument("marker", nil),
		element.NewDocument("marker", nil),
	})
	require.NoError(t, err)
	return m
}

func TestManager_SetScene(t *testing.T) {
	m := newManager(t)

	_, _, ok := m.Current()
	assert.False(t, ok)

	require.NoError(t, m.SetScene("level"))
	s, name, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "level", name)
	assert.Equal(t, 4, s.Len())

	err := m.SetScene("credits")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SCENE_NOT_FOUND")
	errutil.AssertErrorContext(t, err, "scene", "credits")

	_, _, ok = m.Current()
	assert.False(t, ok, "unknown scene clears the current one")
}

func TestManager_NamesAndLookup(t *testing.T) {
	m := newManager(t)
	assert.Equal(t, []string{"level", "title"}, m.Names())

	_, ok := m.Scene("title")
	assert.True(t, ok)
	_, ok = m.Scene("nope")
	assert.False(t, ok)
}

func TestManager_ScenesSpawnThroughSharedTemplates(t *testing.T) {
	m := newManager(t)
	m.InitAll()

	s, ok := m.Scene("title")
	require.True(t, ok)
	before := s.Len()

	s.Sender().Send(scene.Instantiate{Doc: element.NewDocument("marker", nil)})
	s.Update(0.1)
	assert.Equal(t, before+1, s.Len())
}

func TestManager_CreateSceneFailure(t *testing.T) {
	m := newManager(t)
	_, err := m.CreateScene("broken", []element.Document{
		element.NewDocument("marker", map[string]any{"unknown": 1}),
	})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "INVALID_SETTINGS")
	_, ok := m.Scene("broken")
	assert.False(t, ok)
}
