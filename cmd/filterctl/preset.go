package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) presetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage named filter presets",
		Long: `Save, list, delete and apply named snapshots of the filter set.

Subcommands:
  save   - Save the current filters under a name
  list   - List saved presets
  delete - Delete a preset by id
  apply  - Replace the current filters with a preset`,
	}
	cmd.AddCommand(a.presetSaveCmd(), a.presetListCmd(), a.presetDeleteCmd(), a.presetApplyCmd())
	return cmd
}

func (a *app) presetSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current filters under a name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, _, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			manager, err := a.presets(cmd.Context())
			if err != nil {
				return err
			}
			preset, ok, err := manager.Save(cmd.Context(), strings.Join(args, " "), sync.Filters())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("preset name must not be blank")
			}
			return printJSON(cmd.OutOrStdout(), preset)
		},
	}
}

func (a *app) presetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.presets(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), manager.List())
		},
	}
}

func (a *app) presetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := a.presets(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := manager.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("preset %q not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) presetApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <id>",
		Short: "Replace the current filters with a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sync, location, err := a.synchronizer(cmd.Context())
			if err != nil {
				return err
			}
			manager, err := a.presets(cmd.Context())
			if err != nil {
				return err
			}
			applied, err := manager.ApplyTo(cmd.Context(), args[0], sync)
			if err != nil {
				return err
			}
			if !applied {
				return fmt.Errorf("preset %q not found", args[0])
			}
			return printState(cmd.OutOrStdout(), sync, location)
		},
	}
}
