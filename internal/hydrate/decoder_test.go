package hydrate

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecoderDecodesMap(t *testing.T) {
	decoder := NewDecoder[map[string]string]()
	got, err := decoder.Decode(Context{Key: "machines"}, []byte(`{"status":"OPEN"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(map[string]string{"status": "OPEN"}, got) {
		t.Fatalf("unexpected result %#v", got)
	}
}

func TestDecoderErrors(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		expect string
	}{
		{name: "empty", raw: "  ", expect: "payload is empty"},
		{name: "malformed", raw: "{bad", expect: `decode key "k"`},
		{name: "wrong shape", raw: `["a"]`, expect: `decode key "k"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDecoder[map[string]string]().Decode(Context{Key: "k"}, []byte(tc.raw))
			if err == nil || !strings.Contains(err.Error(), tc.expect) {
				t.Fatalf("expected error containing %q, got %v", tc.expect, err)
			}
		})
	}
}

func TestDecoderHooks(t *testing.T) {
	dropEmpty := func(_ Context, payload any) (any, error) {
		m, ok := payload.(map[string]any)
		if !ok {
			return nil, errors.New("not an object")
		}
		for key, value := range m {
			if value == "" || value == nil {
				delete(m, key)
			}
		}
		return m, nil
	}
	tag := func(ctx Context, out *map[string]string) error {
		(*out)["_kind"] = ctx.Kind
		return nil
	}

	decoder := NewDecoder(
		WithPreHook[map[string]string](dropEmpty),
		WithPostHook[map[string]string](tag),
	)
	got, err := decoder.Decode(Context{Key: "k", Kind: "live"}, []byte(`{"a":"1","b":"","c":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{"a": "1", "_kind": "live"}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}

	_, err = decoder.Decode(Context{Key: "k"}, []byte(`[1]`))
	if err == nil || !strings.Contains(err.Error(), "pre-hook") {
		t.Fatalf("expected pre-hook error, got %v", err)
	}
}

func TestDecoderCustomAndStrict(t *testing.T) {
	type record struct {
		Name string `json:"name"`
	}
	strict := NewDecoder(WithDisallowUnknownFields[record]())
	if _, err := strict.Decode(Context{Key: "k"}, []byte(`{"name":"a","extra":1}`)); err == nil {
		t.Fatalf("expected unknown field error")
	}

	custom := NewDecoder(WithCustomDecoder[record](func(_ Context, payload any) (record, error) {
		return record{Name: "custom"}, nil
	}))
	got, err := custom.Decode(Context{Key: "k"}, []byte(`{}`))
	if err != nil || got.Name != "custom" {
		t.Fatalf("expected custom decode, got %+v err=%v", got, err)
	}
}
