package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"amber-storefront/internal/config"
	"amber-storefront/internal/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Opened is a device store together with its connection lifecycle
type Opened struct {
	Store  KeyValueStore
	Driver string

	health func(ctx context.Context) map[string]string
	close  func() error
}

// Health reports the state of the underlying connection.
func (o *Opened) Health(ctx context.Context) map[string]string {
	if o.health == nil {
		return map[string]string{"status": "up", "driver": o.Driver}
	}
	stats := o.health(ctx)
	stats["driver"] = o.Driver
	return stats
}

// Close releases the underlying connection.
func (o *Opened) Close() error {
	if o.close == nil {
		return nil
	}
	return o.close()
}

// Open builds the store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Opened, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		logger.Info("Using in-memory device storage")
		return &Opened{Store: NewMemoryStore(), Driver: "memory"}, nil

	case "file":
		path := cfg.Storage.Path
		if path == "" {
			path = DefaultFilePath()
		}
		store, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		logger.Info("Using file device storage", zap.String("path", path))
		return &Opened{Store: store, Driver: "file"}, nil

	case "postgres":
		dbService, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(dbService.DB(), logger); err != nil {
			dbService.Close()
			return nil, err
		}
		logger.Info("Using postgres device storage",
			zap.String("host", cfg.Database.Host),
			zap.String("namespace", cfg.Storage.Namespace),
		)
		return &Opened{
			Store:  NewPostgresStore(dbService.DB(), cfg.Storage.Namespace),
			Driver: "postgres",
			health: dbService.Health,
			close:  dbService.Close,
		}, nil

	case "redis":
		client := NewRedisClient(cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Using redis device storage",
			zap.String("addr", client.Options().Addr),
			zap.String("namespace", cfg.Storage.Namespace),
		)
		return &Opened{
			Store:  NewRedisStore(client, cfg.Storage.Namespace),
			Driver: "redis",
			health: func(ctx context.Context) map[string]string { return RedisHealth(ctx, client) },
			close:  client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// DefaultFilePath is the file store location under the user config dir.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "amber-storefront", "device.json")
}

// NewRedisClient creates a client from the redis config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisHealth pings client and reports its pool statistics.
func RedisHealth(ctx context.Context, client *redis.Client) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := client.Ping(ctx).Err(); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	pool := client.PoolStats()
	stats["status"] = "up"
	stats["total_connections"] = fmt.Sprint(pool.TotalConns)
	stats["idle"] = fmt.Sprint(pool.IdleConns)
	return stats
}
