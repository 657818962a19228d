package filters

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-filters/pkg/activity"
	"github.com/goliatone/go-filters/pkg/query"
	"github.com/goliatone/go-filters/pkg/state"
)

// Synchronizer owns the live FilterSet of one screen and mirrors it into the
// address bar and, optionally, durable storage.
//
// The address bar and storage are read once, by Initialize. Later external
// navigation is not observed; the next mutation overwrites tracked keys.
type Synchronizer struct {
	schema  Schema
	params  query.Params
	cfg     config
	emitter *activity.Emitter

	mu          sync.Mutex
	filters     FilterSet
	initialized bool
	resolution  Resolution
}

// New builds a Synchronizer. params may be nil when no address bar exists.
func New(schema Schema, params query.Params, opts ...Option) *Synchronizer {
	cfg := applyOptions(opts)
	cfg.defaults = schema.Restrict(cfg.defaults)
	return &Synchronizer{
		schema: schema,
		params: params,
		cfg:    cfg,
		emitter: activity.NewEmitter(cfg.hooks, activity.Config{
			Enabled: true,
			ActorID: cfg.actorID,
			UserID:  cfg.userID,
		}),
		filters: cfg.defaults.Clone(),
	}
}

// Initialize resolves the starting filter set from the address bar, then
// durable storage, then defaults. Corrupt or unreadable storage is logged and
// treated as absent. When the result is non-empty it is projected once and
// the change callback fires once.
func (s *Synchronizer) Initialize(ctx context.Context) (FilterSet, error) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil, ErrAlreadyInitialized
	}
	s.initialized = true

	fromQuery := FilterSet{}
	if s.params != nil {
		fromQuery = s.schema.Restrict(query.First(s.params.Values()))
	}

	var durable FilterSet
	if !fromQuery.Active() && s.cfg.persistent() {
		durable = s.restore(ctx)
	}

	s.resolution = ResolveWithTrace(s.cfg.storageKey, fromQuery, durable, s.cfg.defaults)
	s.filters = s.resolution.Filters
	s.cfg.logger.Log(LogEvent{Op: "initialize", Key: s.cfg.storageKey, Count: s.filters.Count()})

	if !s.filters.Active() {
		s.mu.Unlock()
		return FilterSet{}, nil
	}

	err := s.syncLocked(ctx, nil, s.filters, activity.VerbFiltersChanged)
	snapshot := s.filters.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot.Clone(), err
}

func (s *Synchronizer) restore(ctx context.Context) FilterSet {
	restored, ok, err := state.LoadJSON[FilterSet](ctx, s.cfg.store, state.Live(s.cfg.storageKey))
	if err != nil {
		s.cfg.logger.Log(LogEvent{Op: "restore", Key: s.cfg.storageKey, Source: "storage", Err: err})
		return nil
	}
	if !ok {
		return nil
	}
	return s.schema.Restrict(restored)
}

// UpdateFilter sets key to value, or removes it when value is empty.
func (s *Synchronizer) UpdateFilter(ctx context.Context, key, value string) error {
	return s.UpdateFilters(ctx, FilterSet{key: value})
}

// UpdateFilters merges partial into the live set in one step. Empty values
// remove their key. Keys outside the schema reject the whole update.
func (s *Synchronizer) UpdateFilters(ctx context.Context, partial FilterSet) error {
	for key := range partial {
		if !s.schema.Tracks(key) {
			return fieldError(key, ErrUnknownField)
		}
	}
	return s.mutate(ctx, activity.VerbFiltersChanged, func(current FilterSet) FilterSet {
		for key, value := range partial {
			if value == "" {
				delete(current, key)
				continue
			}
			current[key] = value
		}
		return current
	})
}

// ReplaceFilters swaps the live set for set, dropping keys outside the
// schema. Loading a preset goes through here.
func (s *Synchronizer) ReplaceFilters(ctx context.Context, set FilterSet) error {
	next := s.schema.Restrict(set)
	if dropped := set.Normalize().Count() - next.Count(); dropped > 0 {
		s.cfg.logger.Log(LogEvent{Op: "replace.dropped", Key: s.cfg.storageKey, Count: dropped})
	}
	return s.mutate(ctx, activity.VerbFiltersChanged, func(FilterSet) FilterSet {
		return next
	})
}

// ClearFilter removes exactly one key.
func (s *Synchronizer) ClearFilter(ctx context.Context, key string) error {
	if !s.schema.Tracks(key) {
		return fieldError(key, ErrUnknownField)
	}
	return s.mutate(ctx, activity.VerbFiltersChanged, func(current FilterSet) FilterSet {
		delete(current, key)
		return current
	})
}

// ResetFilters restores the defaults and deletes the durable record.
// Calling it repeatedly is safe.
func (s *Synchronizer) ResetFilters(ctx context.Context) error {
	return s.mutate(ctx, activity.VerbFiltersReset, func(FilterSet) FilterSet {
		return s.cfg.defaults.Clone()
	})
}

// SetValue encodes a typed value for the named field and applies it.
func (s *Synchronizer) SetValue(ctx context.Context, field string, value Value) error {
	partial, err := s.schema.Encode(field, value)
	if err != nil {
		return err
	}
	return s.UpdateFilters(ctx, partial)
}

// ToggleOption flips one option of a multi-select field. The read and the
// write happen under the same lock.
func (s *Synchronizer) ToggleOption(ctx context.Context, field, option string) error {
	if err := checkToggle(s.schema, field); err != nil {
		return err
	}
	return s.mutate(ctx, activity.VerbFiltersChanged, func(current FilterSet) FilterSet {
		current[field] = toggleJoined(current[field], option)
		return current
	})
}

// Value decodes the named field from the live set.
func (s *Synchronizer) Value(field string) (Value, error) {
	return s.schema.Decode(field, s.Filters())
}

// Filters returns a copy of the live set.
func (s *Synchronizer) Filters() FilterSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// HasActiveFilters reports whether at least one filter is set.
func (s *Synchronizer) HasActiveFilters() bool {
	return s.ActiveFiltersCount() > 0
}

// ActiveFiltersCount returns the number of set filters.
func (s *Synchronizer) ActiveFiltersCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Count()
}

// Trace reports where key's initial value came from.
func (s *Synchronizer) Trace(key string) Trace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolution.Trace(key)
}

// Schema returns the schema the synchronizer tracks.
func (s *Synchronizer) Schema() Schema {
	return s.schema
}

// StorageKey returns the durable namespace, empty when persistence is off.
func (s *Synchronizer) StorageKey() string {
	return s.cfg.storageKey
}

func (s *Synchronizer) mutate(ctx context.Context, verb string, fn func(FilterSet) FilterSet) error {
	s.mu.Lock()
	previous := s.filters.Clone()
	next := fn(s.filters.Clone()).Normalize()
	s.filters = next
	err := s.syncLocked(ctx, previous, next, verb)
	snapshot := next.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return err
}

// syncLocked projects next into the address bar and storage and emits the
// activity event. The caller holds s.mu.
func (s *Synchronizer) syncLocked(ctx context.Context, previous, next FilterSet, verb string) error {
	if s.params != nil {
		values := s.params.Values()
		for _, key := range s.schema.Keys() {
			values.Del(key)
		}
		for key, value := range next {
			values.Set(key, value)
		}
		s.params.Replace(values)
	}

	var persistErr error
	if s.cfg.persistent() {
		ref := state.Live(s.cfg.storageKey)
		if verb == activity.VerbFiltersReset {
			persistErr = state.Clear(ctx, s.cfg.store, ref)
		} else {
			persistErr = state.SaveJSON(ctx, s.cfg.store, ref, next)
		}
		if persistErr != nil {
			persistErr = fmt.Errorf("filters: persist %q: %w", s.cfg.storageKey, persistErr)
			s.cfg.logger.Log(LogEvent{Op: "persist", Key: s.cfg.storageKey, Source: "storage", Err: persistErr})
		}
	}

	input := activity.FilterEventInput{
		StorageKey: s.cfg.storageKey,
		Filters:    next,
		Previous:   previous,
	}
	event := activity.BuildFiltersChangedEvent(input)
	if verb == activity.VerbFiltersReset {
		event = activity.BuildFiltersResetEvent(input)
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.cfg.logger.Log(LogEvent{Op: "activity", Key: s.cfg.storageKey, Err: err})
	}

	return persistErr
}

func (s *Synchronizer) notify(snapshot FilterSet) {
	if s.cfg.onChange != nil {
		s.cfg.onChange(snapshot)
	}
}
