package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/keelworks/pairpool/internal/config"
	"github.com/keelworks/pairpool/internal/journal"
	"github.com/keelworks/pairpool/internal/server"
	"github.com/keelworks/pairpool/internal/telemetry"
	"github.com/keelworks/pairpool/pool"
)

// newServeCmd runs the API and ops listeners until interrupted.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the pool over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			jnl, err := openJournal(cfg.Journal)
			if err != nil {
				return err
			}
			defer jnl.Close()

			tracing, err := telemetry.NewProvider(ctx, telemetry.Config{
				Enabled:     cfg.Telemetry.Enabled,
				Endpoint:    cfg.Telemetry.Endpoint,
				SampleRatio: cfg.Telemetry.SampleRatio,
				Insecure:    cfg.Telemetry.Insecure,
			}, cfg.Pool.Asset0+"/"+cfg.Pool.Asset1)
			if err != nil {
				return err
			}
			defer func() {
				if err := tracing.Shutdown(context.Background()); err != nil {
					logger.Error("telemetry shutdown failed", "err", err)
				}
			}()

			e, err := openEngine(cfg, logger,
				pool.WithMetrics(pool.NewMetrics()),
				pool.WithEventSink(jnl),
			)
			if err != nil {
				return err
			}
			defer e.Close()

			apiCfg := server.DefaultConfig()
			apiCfg.Listen = cfg.API.Listen
			apiCfg.CORSOrigins = cfg.API.CORSOrigins
			apiCfg.RateLimit = cfg.API.RateLimit
			apiCfg.RateBurst = cfg.API.RateBurst

			opts := []server.Option{server.WithTracer(tracing.Tracer())}
			if cfg.Auth.Enabled {
				opts = append(opts, server.WithAuth(server.NewAuthService(
					cfg.Auth.Username, cfg.Auth.PasswordHash,
					[]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)))
			}
			api := server.New(apiCfg, e.pool, logger, opts...)
			ops := server.NewOpsServer(cfg.Ops.Listen, e.pool, logger)

			errc := make(chan error, 2)
			go func() { errc <- api.Start() }()
			go func() { errc <- ops.Start() }()

			logger.Info("pairpoold started",
				"pair", cfg.Pool.Asset0+"/"+cfg.Pool.Asset1,
				"api", cfg.API.Listen, "ops", cfg.Ops.Listen)

			select {
			case err := <-errc:
				if err != nil {
					return err
				}
			case <-ctx.Done():
				logger.Info("shutting down")
			}

			shutdownCtx := context.Background()
			if err := api.Shutdown(shutdownCtx); err != nil {
				logger.Error("api shutdown failed", "err", err)
			}
			if err := ops.Shutdown(shutdownCtx); err != nil {
				logger.Error("ops shutdown failed", "err", err)
			}
			return nil
		},
	}
}

func openJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Mode {
	case config.JournalOff:
		return journal.Nop{}, nil
	case config.JournalJSONL:
		return journal.NewJSONL(cfg.Path), nil
	case config.JournalPostgres:
		return journal.NewPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown journal mode %q", cfg.Mode)
	}
}
