package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	filters "github.com/goliatone/go-filters"
	"github.com/goliatone/go-filters/internal/config"
	"github.com/goliatone/go-filters/pkg/presets"
	"github.com/goliatone/go-filters/pkg/query"
	"github.com/goliatone/go-filters/pkg/state"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	location   string
	verbose    bool

	cfg        *config.Config
	logger     *zap.Logger
	schema     filters.Schema
	store      state.Store
	closeStore func() error
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "filterctl",
		Short: "Inspect and edit persisted filter state",
		Long: `filterctl loads a filter schema from configuration and edits the filter
set persisted for it, printing the address the filters project onto.

Configuration is read from --config (YAML) and FILTERS_* environment
variables, e.g. FILTERS_STORAGE_DRIVER, FILTERS_STORAGE_PATH and
FILTERS_STORAGE_KEY.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "filters.yaml", "path to the YAML configuration file")
	flags.StringVar(&a.location, "url", "", "address to read query filters from (defaults to the configured location)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.showCmd(),
		a.setCmd(),
		a.toggleCmd(),
		a.clearCmd(),
		a.resetCmd(),
		a.traceCmd(),
		a.presetCmd(),
		a.matchCmd(),
		a.openapiCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger, err = buildLogger(cfg.LogLevel, a.verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if a.schema, err = cfg.Schema(); err != nil {
		return err
	}
	return a.openStore(cmd.Context())
}

func (a *app) teardown() error {
	var err error
	if a.closeStore != nil {
		err = a.closeStore()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	if verbose {
		parsed = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(parsed)
	return zcfg.Build()
}

func (a *app) openStore(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	switch a.cfg.Storage.Driver {
	case config.DriverMemory:
		a.store = state.NewMemoryStore()
	case config.DriverFile:
		store, err := state.NewFileStore(a.cfg.Storage.Path)
		if err != nil {
			return err
		}
		a.store = store
	case config.DriverSQLite:
		store, err := state.OpenSQLiteStore(ctx, a.cfg.Storage.Path)
		if err != nil {
			return err
		}
		a.store = store
		a.closeStore = store.Close
	default:
		return fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
	a.logger.Debug("store opened",
		zap.String("driver", a.cfg.Storage.Driver),
		zap.String("path", a.cfg.Storage.Path))
	return nil
}

func (a *app) filtersLogger() filters.Logger {
	return filters.NewZapLogger(a.logger)
}

func (a *app) address() string {
	if strings.TrimSpace(a.location) != "" {
		return a.location
	}
	return a.cfg.Location
}

// synchronizer builds and initializes a Synchronizer over the configured
// store and the --url address.
func (a *app) synchronizer(ctx context.Context) (*filters.Synchronizer, *query.Location, error) {
	location, err := query.Parse(a.address())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid address %q: %w", a.address(), err)
	}
	sync := filters.New(a.schema, location,
		filters.WithDefaults(filters.FilterSet(a.cfg.Defaults)),
		filters.WithStore(a.store, a.cfg.StorageKey),
		filters.WithLogger(a.filtersLogger()),
	)
	if _, err := sync.Initialize(ctx); err != nil {
		return nil, nil, err
	}
	return sync, location, nil
}

func (a *app) presets(ctx context.Context) (*presets.Manager, error) {
	manager := presets.New(a.store, a.cfg.StorageKey, presets.WithLogger(a.filtersLogger()))
	if _, err := manager.Load(ctx); err != nil {
		return nil, err
	}
	return manager, nil
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// view is the printed state of a synchronizer.
type view struct {
	Location string            `json:"location"`
	Filters  filters.FilterSet `json:"filters"`
	Active   int               `json:"active"`
}

func printState(w io.Writer, sync *filters.Synchronizer, location *query.Location) error {
	return printJSON(w, view{
		Location: location.String(),
		Filters:  sync.Filters(),
		Active:   sync.ActiveFiltersCount(),
	})
}
