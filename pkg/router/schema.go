package router

import (
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	timeType       = reflect.TypeOf(time.Time{})
	rawMessageType = reflect.TypeOf(json.RawMessage{})
)

// schemaRegistry holds the named schemas emitted under components.schemas
type schemaRegistry struct {
	schemas map[string]map[string]any
}

func newSchemaRegistry() *schemaRegistry {
	return &schemaRegistry{
		schemas: make(map[string]map[string]any),
	}
}

func (r *schemaRegistry) register(name string, schema map[string]any) {
	r.schemas[name] = schema
}

func (r *schemaRegistry) has(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

// getSchemas returns a copy of every registered schema
func (r *schemaRegistry) getSchemas() map[string]any {
	out := make(map[string]any, len(r.schemas))
	for name, schema := range r.schemas {
		out[name] = schema
	}
	return out
}

// schemaGenerator converts Go types to OpenAPI schemas. Named struct types
// are registered once and referenced with $ref, which also terminates
// recursive types
type schemaGenerator struct {
	registry *schemaRegistry
}

func newSchemaGenerator(registry *schemaRegistry) *schemaGenerator {
	return &schemaGenerator{registry: registry}
}

// schemaRef returns the schema for the type of v. nil yields nil
func (g *schemaGenerator) schemaRef(v any) map[string]any {
	if v == nil {
		return nil
	}
	return g.typeSchema(reflect.TypeOf(v))
}

func (g *schemaGenerator) typeSchema(typ reflect.Type) map[string]any {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	switch typ {
	case timeType:
		return map[string]any{"type": "string", "format": "date-time"}
	case rawMessageType:
		return map[string]any{}
	}

	if schema := basicTypeSchema(typ.Kind()); schema != nil {
		return schema
	}

	switch typ.Kind() {
	case reflect.Struct:
		if typ.Name() == "" {
			return g.objectSchema(typ)
		}
		name := typ.Name()
		if !g.registry.has(name) {
			// placeholder first so self references resolve to the same name
			g.registry.register(name, map[string]any{})
			g.registry.register(name, g.objectSchema(typ))
		}
		return map[string]any{"$ref": "#/components/schemas/" + name}
	case reflect.Slice, reflect.Array:
		if typ.Elem().Kind() == reflect.Uint8 {
			return map[string]any{"type": "string", "format": "byte"}
		}
		return map[string]any{
			"type":  "array",
			"items": g.typeSchema(typ.Elem()),
		}
	case reflect.Map:
		return map[string]any{
			"type":                 "object",
			"additionalProperties": g.typeSchema(typ.Elem()),
		}
	case reflect.Interface:
		return map[string]any{}
	default:
		return map[string]any{"type": "object"}
	}
}

// objectSchema describes the exported, JSON-visible fields of a struct.
// Embedded structs without a json name are flattened
func (g *schemaGenerator) objectSchema(typ reflect.Type) map[string]any {
	properties := make(map[string]any)
	required := []string{}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		if field.Anonymous && jsonTag == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				inner := g.objectSchema(embedded)
				maps.Copy(properties, inner["properties"].(map[string]any))
				if req, ok := inner["required"].([]string); ok {
					required = append(required, req...)
				}
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		name, isRequired := parseJSONTag(jsonTag, field.Name)
		if isRequired {
			required = append(required, name)
		}
		properties[name] = g.fieldSchema(field)
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (g *schemaGenerator) fieldSchema(field reflect.StructField) map[string]any {
	schema := g.typeSchema(field.Type)
	if _, isRef := schema["$ref"]; isRef {
		// siblings of $ref are ignored by OpenAPI 3.0
		return schema
	}
	addFieldMetadata(schema, field)
	return schema
}

// parseJSONTag returns the JSON name of a field and whether it is required,
// that is, not marked omitempty
func parseJSONTag(jsonTag, fieldName string) (string, bool) {
	if jsonTag == "" {
		return fieldName, true
	}

	parts := strings.Split(jsonTag, ",")
	name := parts[0]
	if name == "" {
		name = fieldName
	}
	return name, !slices.Contains(parts[1:], "omitempty")
}

// addFieldMetadata copies the doc, example and enum struct tags into schema
func addFieldMetadata(schema map[string]any, field reflect.StructField) {
	kind := field.Type.Kind()
	if kind == reflect.Pointer {
		kind = field.Type.Elem().Kind()
	}

	if doc := field.Tag.Get("doc"); doc != "" {
		schema["description"] = doc
	}
	if example := field.Tag.Get("example"); example != "" {
		schema["example"] = exampleValue(kind, example)
	}
	if enum := field.Tag.Get("enum"); enum != "" {
		schema["enum"] = strings.Split(enum, ",")
	}
}

// exampleValue converts an example tag to the field's JSON type, keeping the
// raw string when it does not parse
func exampleValue(kind reflect.Kind, raw string) any {
	switch kind {
	case reflect.Bool:
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return v
		}
	case reflect.Float32, reflect.Float64:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

// basicTypeSchema returns the schema of a primitive kind, nil otherwise
func basicTypeSchema(kind reflect.Kind) map[string]any {
	switch kind {
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return map[string]any{"type": "integer", "format": "int32"}
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
		return map[string]any{"type": "integer", "format": "int64"}
	case reflect.Float32:
		return map[string]any{"type": "number", "format": "float"}
	case reflect.Float64:
		return map[string]any{"type": "number", "format": "double"}
	case reflect.String:
		return map[string]any{"type": "string"}
	default:
		return nil
	}
}
