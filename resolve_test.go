package filters

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-filters/layering"
)

func TestResolveInitialFilters(t *testing.T) {
	tests := []struct {
		name     string
		url      FilterSet
		durable  FilterSet
		defaults FilterSet
		want     FilterSet
	}{
		{
			name:     "query wins and storage is ignored",
			url:      FilterSet{"status": "paid"},
			durable:  FilterSet{"search": "bob"},
			defaults: FilterSet{"status": "pending", "total": "5"},
			want:     FilterSet{"status": "paid", "total": "5"},
		},
		{
			name:     "storage used when query is empty",
			url:      FilterSet{"status": ""},
			durable:  FilterSet{"search": "bob"},
			defaults: FilterSet{"status": "pending"},
			want:     FilterSet{"search": "bob", "status": "pending"},
		},
		{
			name:     "defaults only",
			defaults: FilterSet{"status": "pending"},
			want:     FilterSet{"status": "pending"},
		},
		{
			name: "nothing",
			want: FilterSet{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveInitialFilters(tt.url, tt.durable, tt.defaults)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("resolve mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolutionTrace(t *testing.T) {
	resolution := ResolveWithTrace("orders",
		nil,
		FilterSet{"search": "bob"},
		FilterSet{"search": "alice", "status": "pending"},
	)

	if got := resolution.Source("search"); got != layering.SourceStorage {
		t.Fatalf("expected storage source, got %s", got)
	}
	if got := resolution.Source("status"); got != layering.SourceDefaults {
		t.Fatalf("expected defaults source, got %s", got)
	}
	if got := resolution.Source("missing"); got != layering.SourceUnknown {
		t.Fatalf("expected unknown source, got %s", got)
	}

	trace := resolution.Trace("search")
	want := Trace{Key: "search", Layers: []Provenance{
		{Source: "storage", Value: "bob", Found: true},
		{Source: "defaults", Value: "alice", Found: true},
	}}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}

	payload, err := trace.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	decoded, err := TraceFromJSON(payload)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if diff := cmp.Diff(trace, decoded); diff != "" {
		t.Fatalf("decoded trace mismatch (-want +got):\n%s", diff)
	}
}
