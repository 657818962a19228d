package filters

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSchemaValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
	}{
		{name: "empty name", fields: []Field{{Name: " ", Kind: KindText}}},
		{name: "unknown kind", fields: []Field{{Name: "x", Kind: "slider"}}},
		{name: "select without options", fields: []Field{{Name: "x", Kind: KindSelect}}},
		{name: "duplicate name", fields: []Field{{Name: "x", Kind: KindText}, {Name: "x", Kind: KindNumber}}},
		{name: "range collides", fields: []Field{
			{Name: "created_start", Kind: KindDate},
			{Name: "created", Kind: KindDateRange},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchema(tt.fields...); !errors.Is(err, ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}

func TestSchemaKeysAndLookup(t *testing.T) {
	want := []string{"search", "status", "total", "placed", "created_start", "created_end", "tags"}
	if diff := cmp.Diff(want, ordersSchema.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	field, ok := ordersSchema.Lookup("created_end")
	if !ok || field.Name != "created" {
		t.Fatalf("expected created_end to map to created, got %+v ok=%v", field, ok)
	}
	if ordersSchema.Tracks("created") {
		t.Fatalf("range field name itself is not a key")
	}

	restricted := ordersSchema.Restrict(map[string]string{"status": "paid", "page": "2", "search": ""})
	if diff := cmp.Diff(FilterSet{"status": "paid"}, restricted); diff != "" {
		t.Fatalf("restrict mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaDefaultsLabel(t *testing.T) {
	schema := MustSchema(Field{Name: "q", Kind: KindText})
	field, _ := schema.Field("q")
	if field.Label != "q" {
		t.Fatalf("expected label to default to name, got %q", field.Label)
	}

	schema = MustSchema(Field{Name: "tier", Kind: KindSelect, Options: []Choice{{Value: "pro"}, {Value: "free", Label: "Free"}}})
	field, _ = schema.Field("tier")
	if diff := cmp.Diff([]Choice{{Value: "pro", Label: "pro"}, {Value: "free", Label: "Free"}}, field.Options); diff != "" {
		t.Fatalf("option labels mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaDescribe(t *testing.T) {
	var keys []string
	for _, descriptor := range ordersSchema.Describe() {
		owner, ok := ordersSchema.Lookup(descriptor.Key)
		if !ok || owner.Name != descriptor.Field.Name {
			t.Fatalf("descriptor %q points at %q, lookup gave %q", descriptor.Key, descriptor.Field.Name, owner.Name)
		}
		keys = append(keys, descriptor.Key)
	}
	if diff := cmp.Diff(ordersSchema.Keys(), keys); diff != "" {
		t.Fatalf("describe keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterSetHelpers(t *testing.T) {
	set := FilterSet{"b": "2", "a": "1", "c": ""}
	if set.Count() != 2 || !set.Active() {
		t.Fatalf("expected two active entries, got %d", set.Count())
	}
	if diff := cmp.Diff([]string{"a", "b"}, set.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if !set.Equal(FilterSet{"a": "1", "b": "2"}) {
		t.Fatalf("expected equality ignoring empty values")
	}
	if (FilterSet(nil)).Normalize() == nil {
		t.Fatalf("normalize must never return nil")
	}
}
