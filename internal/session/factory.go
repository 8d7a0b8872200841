package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"psicocitas-web/internal/config"
	"psicocitas-web/internal/models"
)

// OpenStore builds the store selected by cfg.Store. The returned closer
// releases its connections.
func OpenStore(ctx context.Context, cfg config.SessionConfig, sealer *Sealer) (Store, func() error, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemoryStore(), func() error { return nil }, nil
	case "mysql", "postgres":
		db, err := models.InitDB(models.DatabaseConfig{Driver: cfg.Store, DSN: cfg.DSN})
		if err != nil {
			return nil, nil, fmt.Errorf("session database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return NewGormStore(db, sealer), sqlDB.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		return NewRedisStore(client, sealer), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session store %q", cfg.Store)
	}
}
