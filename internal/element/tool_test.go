// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package element_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/burge/burge/internal/element"
)

type counter struct {
	hits int
}

type counterModule struct {
	element.Base
	alias string
	c     *counter
}

func (m *counterModule) Alias() string   { return m.alias }
func (m *counterModule) Capability() any { return m.c }

// mapResolver resolves aliases from a fixed table.
type mapResolver map[string]element.Element

func (r mapResolver) Resolve(alias string) (element.Element, bool) {
	e, ok := r[alias]
	return e, ok
}

func newTool() (*element.ModuleTool, *counter) {
	c := &counter{}
	return element.NewModuleTool(mapResolver{
		"counter": element.NewModule(&counterModule{alias: "counter", c: c}),
		"leaf":    element.NewLeaf(element.Base{}),
	}), c
}

func TestAccess_RightTypeInvokesCallback(t *testing.T) {
	tools, c := newTool()

	called := element.Access(tools, "counter", func(got *counter) { got.hits++ })

	assert.True(t, called)
	assert.Equal(t, 1, c.hits)
}

func TestAccess_FailsClosed(t *testing.T) {
	tools, _ := newTool()

	tests := []struct {
		name  string
		alias string
		call  func(alias string) bool
	}{
		{"unknown alias", "missing", func(a string) bool {
			return element.Access(tools, a, func(*counter) { t.Fatal("callback invoked") })
		}},
		{"non-module target", "leaf", func(a string) bool {
			return element.Access(tools, a, func(*counter) { t.Fatal("callback invoked") })
		}},
		{"type mismatch", "counter", func(a string) bool {
			return element.Access(tools, a, func(string) { t.Fatal("callback invoked") })
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.call(tt.alias))
		})
	}
}

func TestAccess_WrongThenRightType(t *testing.T) {
	tools, c := newTool()

	wrong := element.NewKey[*struct{}]("counter")
	right := element.NewKey[*counter]("counter")

	assert.False(t, wrong.Access(tools, func(*struct{}) { t.Fatal("wrong type invoked") }))
	assert.True(t, right.Access(tools, func(got *counter) { got.hits++ }))
	assert.Equal(t, 1, c.hits)
}

func TestKey_Get(t *testing.T) {
	tools, c := newTool()
	key := element.NewKey[*counter]("counter")

	got, ok := key.Get(tools)
	assert.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, "counter", key.Alias())

	_, ok = element.NewKey[*counter]("missing").Get(tools)
	assert.False(t, ok)
}

func TestModuleTool_NilIsSafe(t *testing.T) {
	var tools *element.ModuleTool
	assert.False(t, element.Access(tools, "counter", func(*counter) {}))

	empty := element.NewModuleTool(nil)
	_, ok := empty.Capability("counter")
	assert.False(t, ok)
}
