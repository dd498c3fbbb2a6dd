package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/kosyncd/config"
	"github.com/teranos/kosyncd/db"
	"github.com/teranos/kosyncd/errors"
	"github.com/teranos/kosyncd/kosync"
	"github.com/teranos/kosyncd/logger"
	"github.com/teranos/kosyncd/server"
	"github.com/teranos/kosyncd/store"
)

// shutdownGrace bounds how long in-flight requests may finish on Ctrl+C
const shutdownGrace = 10 * time.Second

// ServeCmd starts the kosync server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the kosync server",
	Long:    `Launch the sync server on the configured port and serve the kosync protocol until interrupted.`,
	RunE:    runServe,
}

var (
	servePort                int
	serveDBPath              string
	serveDisableRegistration bool
	serveJSONLogs            bool
)

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	ServeCmd.Flags().StringVar(&serveDBPath, "db-path", "", "Database path (overrides config)")
	ServeCmd.Flags().BoolVar(&serveDisableRegistration, "disable-registration", false, "Refuse new user registrations")
	ServeCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "Emit structured JSON logs")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	// Flags override config
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveDBPath != "" {
		cfg.Database.Path = serveDBPath
	}
	if serveDisableRegistration {
		cfg.Registration.Disabled = true
	}
	if serveJSONLogs {
		cfg.Log.JSON = true
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	if err := logger.Initialize(cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	log := logger.Logger

	database, err := db.OpenWithMigrations(cfg.Database.Path, log)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	svc := kosync.New(
		store.NewCredentials(database, log),
		store.NewProgress(database, log),
		cfg.Registration.Disabled,
		log,
	)
	srv := server.New(svc, cfg, log)

	printStartupBanner(cfg)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server failed")
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown failed")
	}

	log.Infow("Server stopped")
	return nil
}
