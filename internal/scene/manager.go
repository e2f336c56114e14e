// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package scene

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/samber/oops"

	"github.com/burge/burge/internal/element"
)

// Manager owns the template registry and a set of named scenes, one of
// which is current.
type Manager struct {
	templates *Templates
	scenes    map[string]*Scene
	current   string
	logger    *slog.Logger
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger passed to the registry and every scene.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager with an empty registry and no scenes.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		scenes: make(map[string]*Scene),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.templates = NewTemplates(m.logger)
	return m
}

// Templates returns the registry. The manager keeps it alive for every
// scene it creates.
func (m *Manager) Templates() *Templates {
	return m.templates
}

// CreateScene builds a scene from docs and stores it under name, replacing
// any scene already there.
func (m *Manager) CreateScene(name string, docs []element.Document) (*Scene, error) {
	s, err := m.templates.CreateScene(docs, WithLogger(m.logger.With("scene", name)))
	if err != nil {
		return nil, oops.With("scene", name).Wrap(err)
	}
	m.scenes[name] = s
	return s, nil
}

// SetScene makes name current. An unknown name clears the current scene.
func (m *Manager) SetScene(name string) error {
	if _, ok := m.scenes[name]; !ok {
		m.current = ""
		return oops.
			Code("SCENE_NOT_FOUND").
			With("scene", name).
			Errorf("scene not found")
	}
	m.current = name
	return nil
}

// Current returns the current scene and its name.
func (m *Manager) Current() (*Scene, string, bool) {
	s, ok := m.scenes[m.current]
	if !ok {
		return nil, "", false
	}
	return s, m.current, true
}

// Scene returns the scene stored under name.
func (m *Manager) Scene(name string) (*Scene, bool) {
	s, ok := m.scenes[name]
	return s, ok
}

// Names returns the stored scene names, sorted.
func (m *Manager) Names() []string {
	return slices.Sorted(maps.Keys(m.scenes))
}

// InitAll runs InitElements on every stored scene.
func (m *Manager) InitAll() {
	for _, name := range m.Names() {
		m.scenes[name].InitElements()
	}
}
