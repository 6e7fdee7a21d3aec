package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keelworks/pairpool/internal/config"
	"github.com/keelworks/pairpool/state"
)

// newInitCmd writes a config file and stamps the pair into a fresh store.
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the home directory, config file and pool store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}
			if home == "" {
				home = config.DefaultHome()
			}
			asset0, _ := cmd.Flags().GetString("asset0")
			asset1, _ := cmd.Flags().GetString("asset1")
			backend, _ := cmd.Flags().GetString("db-backend")

			cfg := config.Config{
				Home: home,
				Pool: config.PoolConfig{Asset0: asset0, Asset1: asset1},
				DB:   config.DBConfig{Backend: backend},
			}
			path, err := config.WriteDefault(cfg)
			if err != nil {
				return err
			}

			// Re-load through the normal path so defaults and validation
			// apply, then open once to stamp the pair.
			loaded, err := config.Load(home, path, nil)
			if err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			logger, err := newLogger(loaded.Log)
			if err != nil {
				return err
			}
			if loaded.DB.Backend != state.BackendMemory {
				e, err := openEngine(loaded, logger)
				if err != nil {
					return err
				}
				defer e.Close()
			}

			cmd.Printf("initialized %s/%s pool, config written to %s\n", asset0, asset1, path)
			return nil
		},
	}

	cmd.Flags().String("asset0", "uatom", "first asset of the pair")
	cmd.Flags().String("asset1", "uusdc", "second asset of the pair")
	cmd.Flags().String("db-backend", state.BackendLevelDB, "store backend (goleveldb or memdb)")
	return cmd
}
