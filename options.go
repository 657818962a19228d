package filters

import (
	"github.com/goliatone/go-filters/pkg/activity"
	"github.com/goliatone/go-filters/pkg/state"
)

// Option configures a Synchronizer.
type Option func(*config)

type config struct {
	defaults   FilterSet
	store      state.Store
	storageKey string
	onChange   func(FilterSet)
	logger     Logger
	hooks      activity.Hooks
	actorID    string
	userID     string
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// WithDefaults sets the filter set restored on mount and on reset.
func WithDefaults(defaults FilterSet) Option {
	return func(cfg *config) {
		cfg.defaults = defaults.Normalize()
	}
}

// WithStore persists the last-applied filter set in store under storageKey.
// Persistence stays off when either is empty.
func WithStore(store state.Store, storageKey string) Option {
	return func(cfg *config) {
		cfg.store = store
		cfg.storageKey = storageKey
	}
}

// WithOnChange registers the callback invoked with the full filter set after
// every mutation.
func WithOnChange(fn func(FilterSet)) Option {
	return func(cfg *config) {
		cfg.onChange = fn
	}
}

// WithLogger configures the logger used for recovered failures.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithActivityHooks attaches activity hooks notified after every mutation.
// Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Clone()
	return func(cfg *config) {
		cfg.hooks = normalized
	}
}

// WithActor stamps emitted activity events with the acting user.
func WithActor(actorID, userID string) Option {
	return func(cfg *config) {
		cfg.actorID = actorID
		cfg.userID = userID
	}
}

func (cfg config) persistent() bool {
	return cfg.store != nil && cfg.storageKey != ""
}
