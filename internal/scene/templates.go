// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package scene

import (
	"log/slog"
	"maps"
	"slices"
	"weak"

	"github.com/samber/oops"

	"github.com/burge/burge/internal/element"
)

// Templates maps template names to prototype elements. A prototype is never
// updated itself; its Load builds the real element from a document.
type Templates struct {
	prototypes map[string]element.Element
	logger     *slog.Logger
}

// NewTemplates creates an empty registry.
func NewTemplates(logger *slog.Logger) *Templates {
	if logger == nil {
		logger = slog.Default()
	}
	return &Templates{
		prototypes: make(map[string]element.Element),
		logger:     logger,
	}
}

// Register installs prototype under name, replacing any earlier one.
func (t *Templates) Register(name string, prototype element.Element) {
	t.prototypes[name] = prototype
}

// Has reports whether name is registered.
func (t *Templates) Has(name string) bool {
	_, ok := t.prototypes[name]
	return ok
}

// Names returns the registered template names, sorted.
func (t *Templates) Names() []string {
	return slices.Sorted(maps.Keys(t.prototypes))
}

// CreateElement builds an element from doc. An unknown or missing name
// yields element.Null with no error; malformed settings yield the
// prototype's load error.
func (t *Templates) CreateElement(doc element.Document) (element.Element, error) {
	prototype, ok := t.prototypes[doc.Name()]
	if !ok {
		return element.Null{}, nil
	}
	e, err := prototype.Load(doc)
	if err != nil {
		return element.Null{}, oops.
			With("template", doc.Name()).
			Wrap(err)
	}
	if e == nil {
		return element.Null{}, nil
	}
	return e, nil
}

// CreateScene builds a scene holding one element per document. Documents
// that produce Null are skipped and the first load error aborts creation.
// The returned scene refers to t weakly.
func (t *Templates) CreateScene(docs []element.Document, opts ...Option) (*Scene, error) {
	opts = append([]Option{WithLogger(t.logger)}, opts...)
	s := New(append(opts, WithTemplates(t.Ref()))...)
	for i, doc := range docs {
		e, err := t.CreateElement(doc)
		if err != nil {
			return nil, oops.
				With("index", i).
				Wrapf(err, "element %d", i)
		}
		if element.IsNull(e) {
			t.logger.Warn("skipping element with unknown template",
				"index", i,
				"template", doc.Name())
			continue
		}
		s.Add(e)
	}
	return s, nil
}

// Ref returns a non-owning handle to t.
func (t *Templates) Ref() TemplatesRef {
	return TemplatesRef{p: weak.Make(t)}
}

// TemplatesRef is a non-owning handle to a registry. The zero value never
// resolves.
type TemplatesRef struct {
	p weak.Pointer[Templates]
}

// Get returns the registry if it is still alive.
func (r TemplatesRef) Get() (*Templates, bool) {
	t := r.p.Value()
	return t, t != nil
}
