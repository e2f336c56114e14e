// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

// Package document reads and writes YAML scene documents.
package document

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/burge/burge/internal/element"
)

// CurrentFormat is the format written by Marshal.
const CurrentFormat = "1.0.0"

// supportedFormats is the range of format versions this build reads.
var supportedFormats = mustConstraint("^1")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// SceneDocument is a scene file: a format version and the template documents
// of its initial elements, in order.
type SceneDocument struct {
	Format   string            `yaml:"format" json:"format" jsonschema:"description=Document format version (semver)"`
	Name     string            `yaml:"name,omitempty" json:"name,omitempty" jsonschema:"description=Scene name; defaults to the file name"`
	Elements []ElementDocument `yaml:"elements" json:"elements"`
}

// ElementDocument names a template and carries its settings.
type ElementDocument struct {
	Name     string         `yaml:"name" json:"name" jsonschema:"minLength=1"`
	Settings map[string]any `yaml:"settings,omitempty" json:"settings,omitempty"`
}

// ParseScene parses and validates a scene document.
func ParseScene(data []byte) (*SceneDocument, error) {
	if len(data) == 0 {
		return nil, oops.Code("DOCUMENT_INVALID").Errorf("scene document is empty")
	}

	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var d SceneDocument
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, oops.Code("DOCUMENT_INVALID").Hint("invalid YAML").Wrap(err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile reads and parses the scene document at path. A document without
// a name is named after the file.
func LoadFile(path string) (*SceneDocument, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, oops.Code("DOCUMENT_INVALID").With("path", path).Wrap(err)
	}
	d, err := ParseScene(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// Validate checks constraints the schema cannot express.
func (d *SceneDocument) Validate() error {
	v, err := semver.NewVersion(d.Format)
	if err != nil {
		return oops.Code("FORMAT_UNSUPPORTED").With("format", d.Format).Wrap(err)
	}
	if !supportedFormats.Check(v) {
		return oops.Code("FORMAT_UNSUPPORTED").
			With("format", d.Format).
			With("supported", supportedFormats.String()).
			Errorf("unsupported document format %s", d.Format)
	}
	for i, e := range d.Elements {
		if e.Name == "" {
			return oops.Code("DOCUMENT_INVALID").With("index", i).Errorf("element %d has no name", i)
		}
	}
	return nil
}

// Documents returns the element documents in order.
func (d *SceneDocument) Documents() []element.Document {
	out := make([]element.Document, 0, len(d.Elements))
	for _, e := range d.Elements {
		var settings any
		if len(e.Settings) > 0 {
			settings = e.Settings
		}
		out = append(out, element.NewDocument(e.Name, settings))
	}
	return out
}

// FromDocuments builds a scene document from saved element documents.
// Documents without a name are skipped.
func FromDocuments(name string, docs []element.Document) (*SceneDocument, error) {
	d := &SceneDocument{Format: CurrentFormat, Name: name}
	for _, doc := range docs {
		if doc.Name() == "" {
			continue
		}
		e := ElementDocument{Name: doc.Name()}
		if raw, ok := doc.Settings(); ok {
			settings, err := element.EncodeSettings(raw)
			if err != nil {
				return nil, oops.With("template", doc.Name()).Wrap(err)
			}
			e.Settings = settings
		}
		d.Elements = append(d.Elements, e)
	}
	return d, nil
}

// Marshal encodes d as YAML.
func (d *SceneDocument) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, oops.Code("DOCUMENT_INVALID").Wrap(err)
	}
	return data, nil
}
