// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Burge Contributors

package document

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the scene document schema.
const SchemaID = "https://burge.dev/schemas/scene.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jschema.Schema
	errSchema      error
)

// GenerateSchema reflects the JSON Schema of SceneDocument.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&SceneDocument{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Burge Scene Document"
	schema.Description = "Schema for scene YAML files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_INVALID").Wrap(err)
	}
	return data, nil
}

// ValidateSchema validates YAML data against the scene document schema.
func ValidateSchema(data []byte) error {
	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return oops.Code("DOCUMENT_INVALID").Hint("invalid YAML").Wrap(err)
	}

	sch, err := compiled()
	if err != nil {
		return err
	}

	if err := sch.Validate(toJSONTypes(yamlData)); err != nil {
		return oops.Code("SCHEMA_INVALID").
			Hint(FormatSchemaError(err)).
			Wrap(err)
	}
	return nil
}

func compiled() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, errSchema = compile()
	})
	return compiledSchema, errSchema
}

func compile() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.Code("SCHEMA_INVALID").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("scene.schema.json", schemaData); err != nil {
		return nil, oops.Code("SCHEMA_INVALID").Wrap(err)
	}
	sch, err := c.Compile("scene.schema.json")
	if err != nil {
		return nil, oops.Code("SCHEMA_INVALID").Wrap(err)
	}
	return sch, nil
}

// toJSONTypes converts YAML-decoded values into the types the validator
// accepts. yaml.v3 already yields map[string]any for string-keyed mappings;
// anything unusual goes through a JSON round trip.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = toJSONTypes(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = toJSONTypes(v)
		}
		return result
	case string, int, int64, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var result any
			if err := json.Unmarshal(b, &result); err == nil {
				return result
			}
		}
		return val
	}
}

// FormatSchemaError returns the first line of a validation error.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
