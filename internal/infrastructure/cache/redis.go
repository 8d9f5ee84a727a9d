package cache

import (
	"context"
	"fmt"
	"time"

	"pacificpro/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

var RedisClient *redis.Client

func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("gagal koneksi redis: %w", err)
	}

	RedisClient = client
	log.Info().Str("host", cfg.Host).Int("db", cfg.DB).Msg("koneksi redis siap")
	return client, nil
}
