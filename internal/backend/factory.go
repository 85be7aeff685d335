package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/kv"
	"tally/internal/kv/file"
	"tally/internal/kv/memory"
	"tally/internal/kv/postgres"
	"tally/internal/kv/redis"
	"tally/internal/kv/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Debug("Initialized memory backend")
		return wrap(memory.New()), nil

	case FileBackend:
		store, err := file.New(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file backend: %w", err)
		}
		f.logger.Debug("Initialized file backend", "data_directory", config.DataDirectory)
		return wrap(store), nil

	case SQLiteBackend:
		repo, err := sqlite.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Debug("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return wrap(repo), nil

	case RedisBackend:
		store, err := redis.New(ctx, config.RedisURL, config.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis backend: %w", err)
		}
		f.logger.Debug("Initialized Redis backend", "prefix", config.RedisPrefix)
		return wrap(store), nil

	case PostgresBackend:
		store, err := postgres.New(ctx, config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL backend: %w", err)
		}
		f.logger.Debug("Initialized PostgreSQL backend")
		return wrap(store), nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func wrap(s kv.Store) *BackendResult {
	return &BackendResult{Backend: s, Cleanup: s.Close}
}
