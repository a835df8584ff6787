package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tc-migrate/internal/engine"
	"tc-migrate/internal/schema"
	"tc-migrate/internal/server"
	"tc-migrate/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the migration as an HTTP endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := GetMigrationSettings(viper.GetViper())

		s, err := openStore(settings)
		if err != nil {
			return err
		}

		runner := &preflightRunner{
			store:     s,
			preflight: settings.Preflight,
			migrator: engine.New(s,
				engine.WithLogger(logger),
				engine.WithSourceTag(settings.SourceTag),
				engine.WithDefaultDifficulty(settings.DefaultDifficulty),
				engine.WithWorkers(settings.Workers),
			),
		}

		addr := viper.GetString("server.addr")
		path := viper.GetString("server.path")
		srv := server.NewServer(addr, server.NewRouter(runner, path, logger))

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting", zap.String("addr", addr), zap.String("path", path))
			errCh <- srv.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case sig := <-stop:
			logger.Info("Shutting down", zap.String("signal", sig.String()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

// preflightRunner checks the schema before each run so that a missing table
// surfaces as a setup failure.
type preflightRunner struct {
	store     *store.SQLStore
	migrator  *engine.Migrator
	preflight bool
}

func (r *preflightRunner) Run(ctx context.Context) (*schema.MigrationReport, error) {
	if r.preflight {
		if err := r.store.Preflight(SchemaName); err != nil {
			return nil, fmt.Errorf("schema preflight failed: %w", err)
		}
	}
	return r.migrator.Run(ctx)
}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
