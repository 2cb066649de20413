package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CreateRedisClient returns nil when no address is configured, which turns
// caching off for every consumer.
func CreateRedisClient(address, password string, db int) *redis.Client {
	if address == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("component", "CreateRedisClient").Msg("redis is not reachable, lookups will fall through to postgres")
	}

	return client
}
