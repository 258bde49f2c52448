package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/config"
	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

// OpenDirectoryRepo builds the repository selected by storage.driver. The
// returned close func releases any connection it opened.
func OpenDirectoryRepo(ctx context.Context, cfg config.Config, log logger.Logger) (directory.Repository, func(), error) {
	log.Info("Opening record storage", zap.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.StorageFile:
		repo, err := NewFileDirectoryRepo(cfg.Storage.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case config.StoragePostgres:
		if cfg.DB.AutoMigrate {
			if err := RunMigrations(cfg.DB.Migrations, cfg.DB.DSN, log); err != nil {
				return nil, nil, err
			}
		}
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresDirectoryRepo(pool, log), pool.Close, nil

	case config.StorageRedis:
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				log.Warn("Failed to close Redis client", zap.Error(err))
			}
		}
		return NewRedisDirectoryRepo(rdb, cfg.Redis.KeyPrefix, log), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
