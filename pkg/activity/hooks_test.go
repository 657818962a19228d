package activity

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " filters.changed ",
		ActorID:    " actor ",
		ObjectType: " filters ",
		ObjectID:   " machines ",
		Channel:    " filters ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "filters.changed" || got.ObjectType != "filters" || got.ObjectID != "machines" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.Channel != "filters" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	if err := (Hooks{capture}).Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			ctxSeen = ctx != nil
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return boom1 }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return boom2 }),
	}

	//nolint:staticcheck // nil context falls back to Background.
	err := hooks.Notify(nil, Event{Verb: "filters.changed", ObjectType: "filters", ObjectID: "machines"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected capture to record one event, got %d", len(capture.Events))
	}
	if got := hooks.Clone(); len(got) != 4 {
		t.Fatalf("expected nil hook dropped on clone, got %d hooks", len(got))
	}
}

func TestEmitterDefaults(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true, ActorID: "actor-1"})

	if err := emitter.Emit(context.Background(), BuildFiltersResetEvent(FilterEventInput{StorageKey: "machines"})); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Channel != "filters" || event.ActorID != "actor-1" {
		t.Fatalf("expected defaults applied, got %+v", event)
	}

	disabled := NewEmitter(Hooks{capture}, Config{})
	if disabled.Enabled() {
		t.Fatalf("expected emitter disabled without Enabled flag")
	}
	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("expected nil emitter disabled")
	}
}

func TestBuildFiltersChangedEventMetadata(t *testing.T) {
	event := BuildFiltersChangedEvent(FilterEventInput{
		StorageKey: "machines",
		Previous:   map[string]string{"status": "OPEN", "site": "north"},
		Filters:    map[string]string{"status": "CLOSED", "site": "north", "q": "pump"},
	})

	if event.Verb != VerbFiltersChanged || event.ObjectType != "filters" || event.ObjectID != "machines" {
		t.Fatalf("unexpected identity: %+v", event)
	}
	keys, ok := event.Metadata["changed_keys"].([]string)
	if !ok || len(keys) != 2 || keys[0] != "q" || keys[1] != "status" {
		t.Fatalf("unexpected changed keys: %#v", event.Metadata["changed_keys"])
	}
	if event.Metadata["active_count"] != 3 {
		t.Fatalf("unexpected active count: %#v", event.Metadata["active_count"])
	}

	fallback := BuildPresetDeletedEvent(FilterEventInput{})
	if fallback.ObjectID != "filters.preset" {
		t.Fatalf("expected object type fallback, got %q", fallback.ObjectID)
	}
	verbs := (&CaptureHook{Events: []Event{fallback}}).Verbs()
	if len(verbs) != 1 || verbs[0] != VerbPresetDeleted {
		t.Fatalf("unexpected verbs %v", verbs)
	}
}
