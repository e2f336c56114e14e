// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package element

import (
	"log/slog"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/samber/oops"

	"github.com/burge/burge/internal/geom"
	"github.com/burge/burge/pkg/errutil"
)

// Document keys.
const (
	FieldName     = "name"
	FieldSettings = "settings"
)

// Document is a template or save document: a map with a required "name"
// (the template lookup key) and optional behavior-specific "settings".
type Document map[string]any

// NewDocument builds a document for the named template. A nil settings value
// is omitted.
func NewDocument(name string, settings any) Document {
	doc := Document{FieldName: name}
	if settings != nil {
		doc[FieldSettings] = settings
	}
	return doc
}

// Name returns the template name, or "" if absent or not a string.
func (d Document) Name() string {
	name, _ := d[FieldName].(string)
	return name
}

// Settings returns the raw settings value and whether it is present.
func (d Document) Settings() (any, bool) {
	s, ok := d[FieldSettings]
	return s, ok && s != nil
}

// DecodeSettings decodes the document's settings into target, which should
// be a pointer to a struct already holding the behavior's defaults. It
// reports whether settings were present. Unknown keys or values of the wrong
// shape are errors.
func (d Document) DecodeSettings(target any) (bool, error) {
	raw, ok := d.Settings()
	if !ok {
		return false, nil
	}
	if err := decode(raw, target); err != nil {
		return true, oops.Code("INVALID_SETTINGS").
			With("template", d.Name()).
			Wrap(err)
	}
	return true, nil
}

// EncodeSettings converts a behavior's settings struct into the generic map
// form stored in save documents. Nested structs, pointers and slices are
// flattened to maps and []any so the result can be written as YAML.
func EncodeSettings(settings any) (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(settings, &out); err != nil {
		return nil, oops.Code("ENCODE_SETTINGS").Wrap(err)
	}
	for k, v := range out {
		p, err := plain(v)
		if err != nil {
			return nil, oops.With("field", k).Wrap(err)
		}
		out[k] = p
	}
	return out, nil
}

// SaveDocument encodes settings into a save document for the named
// template. An encoding failure is logged to logger (slog.Default when nil)
// and the document keeps only its name.
func SaveDocument(logger *slog.Logger, name string, settings any) Document {
	encoded, err := EncodeSettings(settings)
	if err != nil {
		errutil.LogError(logger, "encode settings failed", err, "template", name)
		return NewDocument(name, nil)
	}
	return NewDocument(name, encoded)
}

func plain(v any) (any, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return plain(rv.Elem().Interface())
	case reflect.Struct:
		return EncodeSettings(v)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			p, err := plain(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = p
		}
		return out, nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			p, err := plain(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	default:
		return v, nil
	}
}

func decode(raw, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  vec2Hook,
		ErrorUnused: true,
		Result:      target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var vec2Type = reflect.TypeOf(geom.Vec2{})

// vec2Hook lets documents write vectors as [x, y] as well as {x: .., y: ..}.
func vec2Hook(from, to reflect.Type, data any) (any, error) {
	if to != vec2Type || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
		return data, nil
	}
	v := reflect.ValueOf(data)
	if v.Len() != 2 {
		return nil, oops.Errorf("vector needs exactly 2 components, got %d", v.Len())
	}
	x, okX := toFloat(v.Index(0).Interface())
	y, okY := toFloat(v.Index(1).Interface())
	if !okX || !okY {
		return nil, oops.Errorf("vector components must be numbers")
	}
	return geom.Vec2{X: x, Y: y}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
