package filters

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-filters/layering"
)

// Schema is the ordered list of filter fields of one screen.
type Schema struct {
	fields []Field
	byKey  map[string]int
}

// NewSchema validates fields and builds a Schema.
func NewSchema(fields ...Field) (Schema, error) {
	schema := Schema{
		fields: make([]Field, 0, len(fields)),
		byKey:  map[string]int{},
	}
	for _, field := range fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return Schema{}, fmt.Errorf("%w: field name must be provided", ErrInvalidSchema)
		}
		if !field.Kind.Valid() {
			return Schema{}, &FieldError{Field: field.Name, Err: fmt.Errorf("%w: unknown kind %q", ErrInvalidSchema, field.Kind)}
		}
		if field.Kind.HasChoices() && len(field.Options) == 0 {
			return Schema{}, &FieldError{Field: field.Name, Err: fmt.Errorf("%w: %s field requires options", ErrInvalidSchema, field.Kind)}
		}
		if field.Label == "" {
			field.Label = field.Name
		}
		field.Options = append([]Choice(nil), field.Options...)
		for i := range field.Options {
			if field.Options[i].Label == "" {
				field.Options[i].Label = field.Options[i].Value
			}
		}
		for _, key := range field.Keys() {
			if _, exists := schema.byKey[key]; exists {
				return Schema{}, &FieldError{Field: field.Name, Err: fmt.Errorf("%w: duplicate key %q", ErrInvalidSchema, key)}
			}
			schema.byKey[key] = len(schema.fields)
		}
		schema.fields = append(schema.fields, field)
	}
	return schema, nil
}

// MustSchema is NewSchema that panics on error, for package-level schemas.
func MustSchema(fields ...Field) Schema {
	schema, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Fields returns a copy of the fields in declaration order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the field named name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Keys returns every tracked FilterSet key in declaration order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s.byKey))
	for _, field := range s.fields {
		keys = append(keys, field.Keys()...)
	}
	return keys
}

// Lookup maps a FilterSet key back to the field that owns it.
func (s Schema) Lookup(key string) (Field, bool) {
	idx, ok := s.byKey[key]
	if !ok {
		return Field{}, false
	}
	return s.fields[idx], true
}

// Tracks reports whether key belongs to the schema.
func (s Schema) Tracks(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Len returns the number of fields.
func (s Schema) Len() int {
	return len(s.fields)
}

// Restrict returns the non-empty values of set whose keys the schema tracks.
func (s Schema) Restrict(set map[string]string) FilterSet {
	return FilterSet(layering.MergeLayers(layering.Restrict(set, s.Keys())))
}

// FieldDescriptor pairs one tracked key with the field that owns it.
type FieldDescriptor struct {
	Key   string
	Field Field
}

// Describe flattens the schema into one descriptor per tracked key.
func (s Schema) Describe() []FieldDescriptor {
	descriptors := make([]FieldDescriptor, 0, len(s.byKey))
	for _, field := range s.fields {
		for _, key := range field.Keys() {
			descriptors = append(descriptors, FieldDescriptor{Key: key, Field: field})
		}
	}
	return descriptors
}
