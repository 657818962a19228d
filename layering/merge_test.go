package layering

import (
	"reflect"
	"testing"
)

func TestMergeLayers(t *testing.T) {
	cases := []struct {
		name   string
		layers []map[string]string
		expect map[string]string
	}{
		{
			name:   "no layers",
			expect: map[string]string{},
		},
		{
			name: "strongest wins",
			layers: []map[string]string{
				{"status": "OPEN"},
				{"status": "CLOSED", "site": "north"},
			},
			expect: map[string]string{"status": "OPEN", "site": "north"},
		},
		{
			name: "empty value does not shadow weaker layer",
			layers: []map[string]string{
				{"status": ""},
				{"status": "CLOSED"},
			},
			expect: map[string]string{"status": "CLOSED"},
		},
		{
			name: "empty values dropped",
			layers: []map[string]string{
				{"q": ""},
				nil,
			},
			expect: map[string]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MergeLayers(tc.layers...)
			if !reflect.DeepEqual(tc.expect, got) {
				t.Fatalf("merged mismatch:\nwant: %#v\n got: %#v", tc.expect, got)
			}
		})
	}
}

func TestCloneDetaches(t *testing.T) {
	if Clone(nil) != nil {
		t.Fatalf("expected nil clone for nil input")
	}
	origin := map[string]string{"a": "1"}
	clone := Clone(origin)
	clone["a"] = "2"
	if origin["a"] != "1" {
		t.Fatalf("expected origin untouched, got %q", origin["a"])
	}
}

func TestRestrict(t *testing.T) {
	got := Restrict(map[string]string{"status": "OPEN", "extra": "x"}, []string{"status", "site"})
	want := map[string]string{"status": "OPEN"}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %#v, got %#v", want, got)
	}
}
