package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	filters "github.com/goliatone/go-filters"
	"github.com/goliatone/go-filters/internal/config"
)

const sampleYAML = `
storage:
  driver: sqlite
  path: file:orders.db
storage_key: orders
engine: cel
fields:
  - name: search
    label: Search
    kind: text
  - name: status
    kind: select
    options:
      - value: paid
        label: Paid
      - value: pending
        label: Pending
  - name: created
    kind: date-range
defaults:
  status: pending
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filters.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != config.DriverSQLite || cfg.Storage.Path != "file:orders.db" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.StorageKey != "orders" || cfg.Engine != "cel" || cfg.LogLevel != "info" || cfg.Location != "/" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if diff := cmp.Diff(map[string]string{"status": "pending"}, cfg.Defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	schema, err := cfg.Schema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	want := []string{"search", "status", "created_start", "created_end"}
	if diff := cmp.Diff(want, schema.Keys()); diff != "" {
		t.Fatalf("schema keys mismatch (-want +got):\n%s", diff)
	}
	status, _ := schema.Field("status")
	if status.Kind != filters.KindSelect || len(status.Options) != 2 || status.Options[0].Label != "Paid" {
		t.Fatalf("unexpected status field %+v", status)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("FILTERS_STORAGE_DRIVER", "memory")
	t.Setenv("FILTERS_STORAGE_KEY", "invoices")
	cfg, err := config.Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != config.DriverMemory || cfg.StorageKey != "invoices" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != config.DriverFile || cfg.Storage.Path != "filters.json" || cfg.StorageKey != "filters" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"driver": "storage:\n  driver: redis\n",
		"engine": "engine: lua\n",
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Load(writeConfig(t, contents)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
