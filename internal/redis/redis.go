package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/playpool/racer/internal/logging"
	"github.com/redis/go-redis/v9"
)

// Connect establishes a connection to Redis, retrying the initial ping with
// exponential backoff for up to maxWait.
func Connect(redisURL string, maxWait time.Duration) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	logger := logging.For("redis")

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait

	// Verify connection
	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(ctx).Err()
	}
	notify := func(err error, next time.Duration) {
		logger.Warn().Err(err).Dur("retry_in", next).Msg("redis not reachable yet")
	}
	if err := backoff.RetryNotify(ping, b, notify); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
