package main

import (
	"context"
	"fmt"
	"log/slog"

	"arbor/internal/config"
	"arbor/internal/domain/repositories"
	"arbor/internal/handler"
	"arbor/internal/repository/memory"
	"arbor/internal/repository/postgres"
)

// storeBundle is everything the services need from a backend
type storeBundle struct {
	folders   repositories.FolderRepository
	files     repositories.FileRepository
	txManager repositories.TransactionManager
	pinger    handler.Pinger
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storeBundle, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &storeBundle{
			folders:   memory.NewFolderRepository(store),
			files:     memory.NewFileRepository(store),
			txManager: store,
			pinger:    store,
			close:     func() {},
		}, nil

	case config.StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}

		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connected",
			"max_conns", postgres.MaxConns,
			"min_conns", postgres.MinConns,
		)

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if cfg.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
				pool.Close()
				return nil, err
			}
			logger.Info("schema ready", "folders", tables.Folders, "files", tables.Files)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		return &storeBundle{
			folders:   postgres.NewFolderRepository(repoConfig),
			files:     postgres.NewFileRepository(repoConfig),
			txManager: postgres.NewTransactionManager(repoConfig),
			pinger:    pool,
			close:     pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s or %s)",
			cfg.StoreBackend, config.StoreBackendPostgres, config.StoreBackendMemory)
	}
}
