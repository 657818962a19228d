package presets

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	filters "github.com/goliatone/go-filters"
	"github.com/goliatone/go-filters/pkg/activity"
	"github.com/goliatone/go-filters/pkg/state"
)

// Preset is a named snapshot of a FilterSet.
type Preset struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Filters   filters.FilterSet `json:"filters"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Applier receives the filters of an applied preset. *filters.Synchronizer
// satisfies it.
type Applier interface {
	ReplaceFilters(ctx context.Context, set filters.FilterSet) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithIDGenerator overrides preset id generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		if newID != nil {
			m.newID = newID
		}
	}
}

// WithLogger configures the logger used for recovered failures.
func WithLogger(logger filters.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithActivityHooks notifies hooks when presets are saved, deleted or applied.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(m *Manager) {
		m.hooks = hooks.Clone()
	}
}

// WithActor stamps emitted events with the acting user.
func WithActor(actorID, userID string) Option {
	return func(m *Manager) {
		m.actorID = actorID
		m.userID = userID
	}
}

// Manager owns the preset list of one screen. Presets live under the
// "{storageKey}_saved" record.
type Manager struct {
	store      state.Store
	storageKey string
	clock      func() time.Time
	newID      func() string
	logger     filters.Logger
	hooks      activity.Hooks
	actorID    string
	userID     string
	emitter    *activity.Emitter

	mu      sync.Mutex
	presets []Preset
	draft   string
}

// New builds a Manager. Persistence is off when store is nil or storageKey
// is empty; the list then lives in memory only.
func New(store state.Store, storageKey string, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		storageKey: strings.TrimSpace(storageKey),
		clock:      time.Now,
		newID:      func() string { return uuid.NewString() },
		logger:     filters.NopLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.emitter = activity.NewEmitter(m.hooks, activity.Config{
		Enabled: true,
		ActorID: m.actorID,
		UserID:  m.userID,
	})
	return m
}

func (m *Manager) persistent() bool {
	return m.store != nil && m.storageKey != ""
}

// Load reads the persisted list. A corrupt record is logged and the current
// list kept; a missing record leaves the list untouched.
func (m *Manager) Load(ctx context.Context) ([]Preset, error) {
	if !m.persistent() {
		return m.List(), nil
	}
	loaded, ok, err := state.LoadJSON[[]Preset](ctx, m.store, state.Saved(m.storageKey), ensureFilters)
	if err != nil {
		m.logger.Log(filters.LogEvent{Op: "presets.load", Key: m.storageKey, Source: "storage", Err: err})
		if state.IsDecodeError(err) {
			return m.List(), nil
		}
		return m.List(), err
	}
	if ok {
		m.mu.Lock()
		m.presets = loaded
		m.mu.Unlock()
		m.logger.Log(filters.LogEvent{Op: "presets.load", Key: m.storageKey, Count: len(loaded)})
	}
	return m.List(), nil
}

func ensureFilters(_ string, presets *[]Preset) error {
	kept := (*presets)[:0]
	for _, preset := range *presets {
		if preset.ID == "" {
			continue
		}
		preset.Filters = preset.Filters.Normalize()
		kept = append(kept, preset)
	}
	*presets = kept
	return nil
}

// List returns a copy of the presets in insertion order.
func (m *Manager) List() []Preset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clonePresets(m.presets)
}

// Len returns the number of presets.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.presets)
}

// Get returns the preset with id.
func (m *Manager) Get(id string) (Preset, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, preset := range m.presets {
		if preset.ID == id {
			return clonePreset(preset), true
		}
	}
	return Preset{}, false
}

// Save appends a preset named name holding a snapshot of current. A name that
// is empty after trimming is a no-op reported by ok=false. Saving clears the
// draft name. The returned error only reports a failed durable write.
func (m *Manager) Save(ctx context.Context, name string, current filters.FilterSet) (Preset, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Preset{}, false, nil
	}
	preset := Preset{
		ID:        m.newID(),
		Name:      name,
		Filters:   current.Normalize(),
		CreatedAt: m.clock(),
	}

	m.mu.Lock()
	m.presets = append(m.presets, preset)
	m.draft = ""
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	m.emit(ctx, activity.BuildPresetSavedEvent(m.eventInput(preset)))
	return clonePreset(preset), true, err
}

// SetDraft stores the text of the name input.
func (m *Manager) SetDraft(name string) {
	m.mu.Lock()
	m.draft = name
	m.mu.Unlock()
}

// Draft returns the text of the name input.
func (m *Manager) Draft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// SaveDraft saves current under the draft name.
func (m *Manager) SaveDraft(ctx context.Context, current filters.FilterSet) (Preset, bool, error) {
	return m.Save(ctx, m.Draft(), current)
}

// Delete removes the preset with id. ok is false when no preset matched.
func (m *Manager) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	index := -1
	for i, preset := range m.presets {
		if preset.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		m.mu.Unlock()
		return false, nil
	}
	removed := m.presets[index]
	m.presets = append(m.presets[:index:index], m.presets[index+1:]...)
	err := m.persistLocked(ctx)
	m.mu.Unlock()

	m.emit(ctx, activity.BuildPresetDeletedEvent(m.eventInput(removed)))
	return true, err
}

// Apply returns a copy of the filters saved under id.
func (m *Manager) Apply(id string) (filters.FilterSet, bool) {
	preset, ok := m.Get(id)
	if !ok {
		return nil, false
	}
	return preset.Filters, true
}

// ApplyTo hands the preset's filters to applier. Unknown ids are a no-op.
func (m *Manager) ApplyTo(ctx context.Context, id string, applier Applier) (bool, error) {
	if applier == nil {
		return false, errors.New("presets: applier is nil")
	}
	preset, ok := m.Get(id)
	if !ok {
		return false, nil
	}
	m.emit(ctx, activity.BuildPresetAppliedEvent(m.eventInput(preset)))
	return true, applier.ReplaceFilters(ctx, preset.Filters)
}

// Visible reports whether the presets panel should render: it is hidden only
// when there are no presets and no active filters.
func (m *Manager) Visible(hasActiveFilters bool) bool {
	return hasActiveFilters || m.Len() > 0
}

func (m *Manager) persistLocked(ctx context.Context) error {
	if !m.persistent() {
		return nil
	}
	list := m.presets
	if list == nil {
		list = []Preset{}
	}
	if err := state.SaveJSON(ctx, m.store, state.Saved(m.storageKey), list); err != nil {
		m.logger.Log(filters.LogEvent{Op: "presets.persist", Key: m.storageKey, Source: "storage", Err: err})
		return err
	}
	return nil
}

func (m *Manager) eventInput(preset Preset) activity.FilterEventInput {
	return activity.FilterEventInput{
		StorageKey: m.storageKey,
		PresetID:   preset.ID,
		PresetName: preset.Name,
		Filters:    preset.Filters,
	}
}

func (m *Manager) emit(ctx context.Context, event activity.Event) {
	if err := m.emitter.Emit(ctx, event); err != nil {
		m.logger.Log(filters.LogEvent{Op: "presets.activity", Key: m.storageKey, Err: err})
	}
}

func clonePresets(in []Preset) []Preset {
	out := make([]Preset, len(in))
	for i, preset := range in {
		out[i] = clonePreset(preset)
	}
	return out
}

func clonePreset(preset Preset) Preset {
	preset.Filters = preset.Filters.Clone()
	return preset
}
