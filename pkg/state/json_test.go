package state_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-filters/pkg/state"
)

func TestSaveAndLoadJSON(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ref := state.Live("machines")

	if _, ok, err := state.LoadJSON[map[string]string](ctx, store, ref); ok || err != nil {
		t.Fatalf("expected missing record, got ok=%t err=%v", ok, err)
	}

	if err := state.SaveJSON(ctx, store, ref, map[string]string{"status": "OPEN"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := state.LoadJSON[map[string]string](ctx, store, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if !reflect.DeepEqual(map[string]string{"status": "OPEN"}, got) {
		t.Fatalf("unexpected value %#v", got)
	}

	if err := state.Clear(ctx, store, ref); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d keys", store.Len())
	}
}

func TestLoadJSONCorruptRecord(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	_ = store.Set(ctx, "machines", []byte("{bad"))

	_, ok, err := state.LoadJSON[map[string]string](ctx, store, state.Live("machines"))
	if ok {
		t.Fatalf("expected ok=false for corrupt record")
	}
	if !state.IsDecodeError(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	var decodeErr *state.DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Key != "machines" {
		t.Fatalf("expected decode error for key machines, got %+v", decodeErr)
	}
}

func TestLoadJSONPostDecode(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	_ = store.Set(ctx, "machines", []byte(`{"status":"OPEN","site":""}`))

	dropEmpty := func(_ string, v *map[string]string) error {
		for key, value := range *v {
			if value == "" {
				delete(*v, key)
			}
		}
		return nil
	}
	got, ok, err := state.LoadJSON[map[string]string](ctx, store, state.Live("machines"), dropEmpty)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if len(got) != 1 || got["status"] != "OPEN" {
		t.Fatalf("expected empty value dropped, got %#v", got)
	}
}

func TestJSONHelpersRequireStore(t *testing.T) {
	ctx := context.Background()
	if err := state.SaveJSON(ctx, nil, state.Live("x"), 1); !errors.Is(err, state.ErrStoreRequired) {
		t.Fatalf("expected ErrStoreRequired, got %v", err)
	}
	if err := state.Clear(ctx, state.NewMemoryStore(), state.Live("")); !errors.Is(err, state.ErrNamespaceRequired) {
		t.Fatalf("expected ErrNamespaceRequired, got %v", err)
	}
}
