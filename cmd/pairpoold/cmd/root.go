// Package cmd wires the pairpoold command tree: pool operation and query
// commands against a local store, and the serve command that exposes the
// pool over HTTP.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keelworks/pairpool/internal/config"
	"github.com/keelworks/pairpool/ledger"
	"github.com/keelworks/pairpool/pool"
	"github.com/keelworks/pairpool/state"
	"github.com/keelworks/pairpool/token"
)

const (
	flagHome   = "home"
	flagConfig = "config"
)

// NewRootCmd creates the pairpoold root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pairpoold",
		Short: "Single-pair constant-product AMM daemon",
		Long: `pairpoold operates a single-pair constant-product liquidity pool:
deposit and withdraw liquidity, swap with exact input, quote prices,
and serve the pool over a REST API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(flagHome, config.DefaultHome(), "daemon home directory")
	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default <home>/config.yaml)")

	rootCmd.AddCommand(
		newInitCmd(),
		newServeCmd(),
		newAddLiquidityCmd(),
		newRemoveLiquidityCmd(),
		newSwapCmd(),
		newQuoteCmd(),
		newPriceCmd(),
		newPoolCmd(),
		newBalanceCmd(),
		newTokenCmd(),
		newExportCmd(),
		newImportCmd(),
		newVerifyCmd(),
		newAuthCmd(),
	)

	return rootCmd
}

// loadConfig reads the effective configuration for a command.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil {
		return config.Config{}, err
	}
	cfgFile, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(home, cfgFile, nil)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the daemon logger from config.
func newLogger(cfg config.LogConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(os.Stderr, opts...), nil
}

// engine bundles the opened store, the pool and its ledger-backed tokens for
// one command invocation.
type engine struct {
	cfg    config.Config
	db     dbm.DB
	ctx    state.Context
	pool   *pool.Pool
	tokens map[string]token.LedgerToken
	logger log.Logger
}

// openEngine opens the store and the pool for cfg's pair. The caller must
// Close it.
func openEngine(cfg config.Config, logger log.Logger, opts ...pool.Option) (*engine, error) {
	db, err := state.OpenDB("pairpool", cfg.DB.Backend, cfg.DB.Dir)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	store := state.StoreFromDB(db)

	tokens := make(map[string]token.LedgerToken, 2)
	for _, denom := range []string{cfg.Pool.Asset0, cfg.Pool.Asset1} {
		tokens[denom] = token.NewLedgerToken(denom, denom, strings.ToUpper(denom), 6)
	}

	all := append([]pool.Option{
		pool.WithLogger(logger),
		pool.WithTokens(tokens[cfg.Pool.Asset0], tokens[cfg.Pool.Asset1]),
	}, opts...)
	p, err := pool.New(store, cfg.Pool.Asset0, cfg.Pool.Asset1, all...)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &engine{
		cfg:    cfg,
		db:     db,
		ctx:    state.NewContext(store, time.Now(), logger),
		pool:   p,
		tokens: tokens,
		logger: logger,
	}, nil
}

func (e *engine) Close() error { return e.db.Close() }

// engineFor opens an engine using the command's configuration.
func engineFor(cmd *cobra.Command, opts ...pool.Option) (*engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	return openEngine(cfg, logger, opts...)
}

// printJSON writes v to the command output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}

// parseAmountArg parses a base-10 non-negative integer argument.
func parseAmountArg(name, raw string) (math.Int, error) {
	v, ok := math.NewIntFromString(raw)
	if !ok || v.IsNegative() {
		return math.Int{}, fmt.Errorf("%s: %q is not a non-negative integer", name, raw)
	}
	return v, nil
}

// callerFlag reads the acting account from --from.
func callerFlag(cmd *cobra.Command) (ledger.Address, error) {
	from, err := cmd.Flags().GetString("from")
	if err != nil {
		return "", err
	}
	addr := ledger.Address(from)
	if !addr.Valid() {
		return "", fmt.Errorf("--from: invalid account %q", from)
	}
	return addr, nil
}

// deadlineFlag turns --deadline into an absolute expiry.
func deadlineFlag(cmd *cobra.Command) (time.Time, error) {
	d, err := cmd.Flags().GetDuration("deadline")
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(d), nil
}

func addTxFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "acting account (required)")
	cmd.Flags().String("to", "", "recipient account (defaults to --from)")
	cmd.Flags().Duration("deadline", 2*time.Minute, "operation expiry relative to now")
	_ = cmd.MarkFlagRequired("from")
}

// recipientFlag reads --to, defaulting to the caller.
func recipientFlag(cmd *cobra.Command, caller ledger.Address) (ledger.Address, error) {
	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return "", err
	}
	if to == "" {
		return caller, nil
	}
	addr := ledger.Address(to)
	if !addr.Valid() {
		return "", fmt.Errorf("--to: invalid account %q", to)
	}
	return addr, nil
}
