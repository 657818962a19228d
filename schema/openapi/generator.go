// Package openapi describes a filter schema as the query parameters of a list
// operation.
package openapi

import (
	"fmt"

	filters "github.com/goliatone/go-filters"
)

// Generator renders OpenAPI documents for filter schemas.
type Generator struct {
	config generatorConfig
}

// NewGenerator constructs a Generator with the provided options applied.
func NewGenerator(opts ...GeneratorOption) Generator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Generator{config: cfg}
}

// Generate returns the OpenAPI document for schema.
func (g Generator) Generate(schema filters.Schema) (map[string]any, error) {
	if schema.Len() == 0 {
		return nil, fmt.Errorf("openapi: schema has no fields")
	}
	return newDocumentBuilder(g.config, Parameters(schema)).build()
}

// Document is a shorthand for NewGenerator(opts...).Generate(schema).
func Document(schema filters.Schema, opts ...GeneratorOption) (map[string]any, error) {
	return NewGenerator(opts...).Generate(schema)
}

// Parameters describes every tracked key of schema as an optional query
// parameter, in schema order.
func Parameters(schema filters.Schema) []map[string]any {
	descriptors := schema.Describe()
	params := make([]map[string]any, 0, len(descriptors))
	for _, descriptor := range descriptors {
		params = append(params, parameterFor(descriptor.Field, descriptor.Key))
	}
	return params
}

func parameterFor(field filters.Field, key string) map[string]any {
	param := map[string]any{
		"name":     key,
		"in":       "query",
		"required": false,
		"schema":   schemaFor(field),
	}
	description := field.Label
	switch {
	case field.Kind == filters.KindDateRange && key == filters.RangeStartKey(field.Name):
		description += " (from, inclusive)"
	case field.Kind == filters.KindDateRange:
		description += " (until, inclusive)"
	case field.Kind == filters.KindMultiSelect:
		param["style"] = "form"
		param["explode"] = false
	}
	if description != "" {
		param["description"] = description
	}
	return param
}

func schemaFor(field filters.Field) map[string]any {
	switch field.Kind {
	case filters.KindNumber:
		return map[string]any{"type": "number"}
	case filters.KindDate, filters.KindDateRange:
		return map[string]any{"type": "string", "format": "date"}
	case filters.KindSelect:
		return map[string]any{"type": "string", "enum": choiceValues(field)}
	case filters.KindMultiSelect:
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "enum": choiceValues(field)},
		}
	default:
		return map[string]any{"type": "string"}
	}
}

func choiceValues(field filters.Field) []string {
	values := make([]string, 0, len(field.Options))
	for _, choice := range field.Options {
		values = append(values, choice.Value)
	}
	return values
}
