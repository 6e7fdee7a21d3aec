package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keelworks/pairpool/pool"
)

// newExportCmd snapshots the pool state to a JSON file.
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the pool state to a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			gs, err := e.pool.ExportGenesis()
			if err != nil {
				return err
			}
			bz, err := json.MarshalIndent(gs, "", "  ")
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				cmd.Println(string(bz))
				return nil
			}
			if err := os.WriteFile(out, bz, 0o600); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			cmd.Printf("state exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().String("output", "-", "snapshot file (- for stdout)")
	return cmd
}

// newImportCmd restores a snapshot into an empty pool.
func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Import a JSON snapshot into an empty pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			var gs pool.GenesisState
			if err := json.Unmarshal(bz, &gs); err != nil {
				return fmt.Errorf("parse snapshot: %w", err)
			}

			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.pool.ImportGenesis(cmd.Context(), &gs); err != nil {
				return err
			}
			cmd.Printf("state imported from %s\n", args[0])
			return nil
		},
	}
}

// newVerifyCmd runs every pool invariant against the committed state.
func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every pool invariant against the committed state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engineFor(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.pool.CheckInvariants(); err != nil {
				return err
			}
			cmd.Println("all pool invariants hold")
			return nil
		},
	}
}
