// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package element

// Resolver maps an alias to a live element. Scenes implement it.
type Resolver interface {
	Resolve(alias string) (Element, bool)
}

// ModuleTool lets entities discover capabilities exposed by modules in the
// same scene. Every lookup failure is silent.
type ModuleTool struct {
	resolver Resolver
}

// NewModuleTool creates a tool resolving aliases through r.
func NewModuleTool(r Resolver) *ModuleTool {
	return &ModuleTool{resolver: r}
}

// Capability returns the capability of the module registered under alias.
func (t *ModuleTool) Capability(alias string) (any, bool) {
	if t == nil || t.resolver == nil {
		return nil, false
	}
	e, ok := t.resolver.Resolve(alias)
	if !ok {
		return nil, false
	}
	m, ok := e.(*Module)
	if !ok {
		return nil, false
	}
	return m.Capability(), true
}

// Access calls fn with the capability registered under alias if it exists,
// belongs to a module, and has type T. It reports whether fn was called.
func Access[T any](t *ModuleTool, alias string, fn func(T)) bool {
	raw, ok := t.Capability(alias)
	if !ok {
		return false
	}
	c, ok := raw.(T)
	if !ok {
		return false
	}
	fn(c)
	return true
}

// Key names a well-known capability together with its type, so providers
// and consumers agree on both in one declaration.
type Key[T any] struct {
	alias string
}

// NewKey declares a capability key.
func NewKey[T any](alias string) Key[T] {
	return Key[T]{alias: alias}
}

// Alias returns the discovery alias.
func (k Key[T]) Alias() string { return k.alias }

// Access calls fn with the capability; see the package-level Access.
func (k Key[T]) Access(t *ModuleTool, fn func(T)) bool {
	return Access(t, k.alias, fn)
}

// Get returns the capability and whether it was found with the right type.
func (k Key[T]) Get(t *ModuleTool) (T, bool) {
	var out T
	found := Access(t, k.alias, func(c T) { out = c })
	return out, found
}
