package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	filters "github.com/goliatone/go-filters"
	"github.com/goliatone/go-filters/schema/openapi"
)

func (a *app) showCmd() *cobra.Command {
	var controls bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved filter set and address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, location, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			if controls {
				return printJSON(cmd.OutOrStdout(), filters.Controls(a.schema, sync.Filters()))
			}
			return printState(cmd.OutOrStdout(), sync, location)
		},
	}
	cmd.Flags().BoolVar(&controls, "controls", false, "print the per-field render model instead")
	return cmd
}

func (a *app) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value [key=value...]",
		Short: "Set filters; an empty value removes the key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial := filters.FilterSet{}
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("expected key=value, got %q", arg)
				}
				partial[key] = value
			}
			sync, location, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			if err := sync.UpdateFilters(cmd.Context(), partial); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), sync, location)
		},
	}
}

func (a *app) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <field> <option>",
		Short: "Toggle one option of a multi-select filter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, location, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			if err := sync.ToggleOption(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), sync, location)
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <key>",
		Short: "Remove one filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, location, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			if err := sync.ClearFilter(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), sync, location)
		},
	}
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default filters and forget the persisted set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, location, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			if err := sync.ResetFilters(cmd.Context()); err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), sync, location)
		},
	}
}

func (a *app) traceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <key>",
		Short: "Show which source supplied a filter at startup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, _, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sync.Trace(args[0]))
		},
	}
}

func (a *app) matchCmd() *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "match <records.json>",
		Short: "Print the records of a JSON array that satisfy the current filters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var records []map[string]any
			if err := json.Unmarshal(raw, &records); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			if engine == "" {
				engine = a.cfg.Engine
			}
			selected, err := filters.ParseEngine(engine)
			if err != nil {
				return err
			}
			cache, err := filters.NewProgramCache(filters.DefaultProgramCacheSize)
			if err != nil {
				return err
			}
			matcher, err := filters.NewMatcher(a.schema,
				filters.WithEngine(selected),
				filters.WithProgramCache(cache),
				filters.WithMatcherLogger(a.filtersLogger()),
			)
			if err != nil {
				return err
			}

			sync, _, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			matched, err := matcher.Filter(sync.Filters(), records)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), matched)
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "", "predicate engine: expr, cel or js (defaults to the configured engine)")
	return cmd
}

func (a *app) openapiCmd() *cobra.Command {
	var path, title string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the filter schema as OpenAPI query parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := openapi.Document(a.schema,
				openapi.WithOperation(path, "get", ""),
				openapi.WithInfo(title, ""),
			)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), document)
		},
	}
	cmd.Flags().StringVar(&path, "path", "/items", "path of the list operation")
	cmd.Flags().StringVar(&title, "title", "", "document title")
	return cmd
}
