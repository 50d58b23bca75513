package redis

import (
	"context"
	"net"
	"time"

	"arena/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 3 * time.Second

// New connects to the primary redis. The catalog cache and rate limiter degrade when redis is
// down, so a failed ping after the last retry is logged and the client is returned anyway.
func New(config *config.Config) *goRedis.Client {
	primary := config.Cache.Redis.Primary

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	})

	attempts := max(config.DB.Postgres.MaxRetry, 1)

	for attempt := range attempts {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := client.Ping(ctx).Err()

		cancel()

		if err == nil {
			log.Info().
				Int("db", primary.DB).
				Str("host", primary.Host).
				Str("port", primary.Port).
				Msg("Connected to Redis")

			return client
		}

		log.Error().
			Err(err).
			Str("host", primary.Host).
			Str("port", primary.Port).
			Int("attempt", attempt+1).
			Msg("Failed connecting to Redis")

		if attempt < attempts-1 {
			time.Sleep(time.Duration(config.DB.Postgres.RetryWaitTime) * time.Second)
		}
	}

	log.Warn().Msg("Redis unreachable, continuing with cache disabled until it recovers")

	return client
}
