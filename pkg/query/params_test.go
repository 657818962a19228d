package query_test

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goliatone/go-filters/pkg/query"
)

func TestLocationReplaceKeepsHistory(t *testing.T) {
	loc, err := query.Parse("https://admin.local/machines?status=OPEN&extra=ignored")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	values := loc.Values()
	if values.Get("status") != "OPEN" || values.Get("extra") != "ignored" {
		t.Fatalf("unexpected values %v", values)
	}

	values.Del("status")
	values.Set("site", "north")
	loc.Replace(values)

	if got := loc.String(); got != "https://admin.local/machines?extra=ignored&site=north" {
		t.Fatalf("unexpected address %q", got)
	}
	if got := len(loc.History()); got != 1 {
		t.Fatalf("expected replace to keep one history entry, got %d", got)
	}

	loc.Push(url.Values{"page": {"2"}})
	if got := len(loc.History()); got != 2 {
		t.Fatalf("expected push to add a history entry, got %d", got)
	}
}

func TestLocationValuesAreCopies(t *testing.T) {
	loc, _ := query.Parse("/users?role=ADMIN")
	values := loc.Values()
	values.Set("role", "GUEST")
	if loc.Values().Get("role") != "ADMIN" {
		t.Fatalf("expected location untouched by caller mutation")
	}
}

func TestRequestParams(t *testing.T) {
	req := httptest.NewRequest("GET", "/machines?status=OPEN", nil)
	params := query.FromRequest(req)

	if got, changed := params.Canonical(); changed || got != "/machines?status=OPEN" {
		t.Fatalf("expected unchanged canonical, got %q changed=%t", got, changed)
	}

	params.Replace(url.Values{"status": {"CLOSED"}})
	if params.Values().Get("status") != "CLOSED" {
		t.Fatalf("expected replaced values to be visible")
	}
	got, changed := params.Canonical()
	if !changed || got != "/machines?status=CLOSED" {
		t.Fatalf("unexpected canonical %q changed=%t", got, changed)
	}
}

func TestFirst(t *testing.T) {
	got := query.First(url.Values{"a": {"1", "2"}, "b": {}})
	if len(got) != 1 || got["a"] != "1" {
		t.Fatalf("unexpected first values %#v", got)
	}
}
