// Package cli provides the initialization shared by every tally command:
// environment, configuration, logging and the wiring of storage, store and
// event publishing into one App.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tally/internal/amqp"
	"tally/internal/backend"
	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/store"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is everything a command needs. Close releases it.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Service *services.ExpenseService
	AMQP    *amqp.Client

	cleanup []func() error
}

// NewApp wraps an already built service, mostly for tests.
func NewApp(cfg *config.Config, logger *log.Logger, svc *services.ExpenseService) *App {
	return &App{Config: cfg, Logger: logger, Service: svc}
}

// Bootstrap opens the configured backend, loads the expense store and, when
// AMQP_URL is set, connects the event publisher. The backend and the broker
// are dialed concurrently. AMQP failures are logged and the app continues
// without events.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	var (
		res    *backend.BackendResult
		client *amqp.Client
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(gctx, backendCfg)
		return err
	})
	if cfg.AMQPURL != "" {
		g.Go(func() error {
			c, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
				return nil
			}
			client = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if client != nil {
			client.Close()
		}
		return nil, err
	}

	app := &App{Config: cfg, Logger: logger}
	if res.Cleanup != nil {
		app.cleanup = append(app.cleanup, res.Cleanup)
	}

	var publisher services.Publisher
	if client != nil {
		app.AMQP = client
		app.cleanup = append(app.cleanup, client.Close)
		publisher = client
	}

	st, err := store.Open(ctx, res.Backend, store.WithKey(cfg.StorageKey))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open expense store: %w", err)
	}

	app.Service = services.NewExpenseService(st, publisher)
	logger.Debug("Expense store ready",
		log.FieldBackend, cfg.Backend,
		log.FieldCount, st.Len(),
		"events_enabled", publisher != nil)

	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.cleanup = nil
	return errors.Join(errs...)
}
