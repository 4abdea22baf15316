// Package app wires configuration to the storage backend and user directory
// shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"grantledger/internal/config"
	"grantledger/internal/database"
	"grantledger/internal/logger"
	"grantledger/internal/models"
	"grantledger/internal/persistence"
	"grantledger/internal/services"
)

// Storage is an opened snapshot repository and the handle that closes it.
type Storage struct {
	Repo  *persistence.Repository
	close func() error
}

// Close releases the backend connection, if any.
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage opens the backend selected by STORAGE_BACKEND. The database
// backend applies pending migrations first.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	log := logger.Named("storage")

	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Warn("Using in-memory storage; data is lost on restart")
		return &Storage{Repo: persistence.NewRepository(persistence.NewMemoryBlobStore())}, nil

	case config.BackendRedis:
		client, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		log.Infow("Using redis storage", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return &Storage{
			Repo:  persistence.NewRepository(persistence.NewRedisBlobStore(client, persistence.DefaultRedisPrefix)),
			close: client.Close,
		}, nil

	case config.BackendDatabase:
		dbConfig, err := database.NewConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load database configuration: %w", err)
		}
		dbManager, err := database.NewManager(dbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}
		if err := dbManager.RunMigrations(); err != nil {
			_ = dbManager.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		log.Infow("Using database storage", "driver", dbConfig.Driver)
		return &Storage{
			Repo:  persistence.NewRepository(persistence.NewGormBlobStore(dbManager.DB())),
			close: dbManager.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// LoadUsers returns the directory from USERS_FILE, falling back to the demo
// accounts when SEED_DEMO is set.
func LoadUsers(cfg *config.Config, demoUsers []models.User) ([]models.User, error) {
	if cfg.UsersFile != "" {
		return services.LoadUserDirectory(cfg.UsersFile)
	}
	if cfg.SeedDemo && len(demoUsers) > 0 {
		logger.Get().Warn("USERS_FILE not set; using demo accounts")
		return demoUsers, nil
	}
	return nil, fmt.Errorf("no user directory: set USERS_FILE or SEED_DEMO=true")
}
