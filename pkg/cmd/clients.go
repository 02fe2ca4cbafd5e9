package cmd

import (
	"context"
	"log/slog"

	"github.com/dukex/iterable-cog/pkg/cache"
	"github.com/dukex/iterable-cog/pkg/iterable"
	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
)

// NewClientFactory returns a factory building an Iterable client per request
// from the request's api key.
func NewClientFactory(config iterable.Config, logger *slog.Logger) protocol.ClientFactory {
	return func(auth models.AuthMetadata) protocol.ContactRepository {
		return iterable.NewClient(auth.Get(models.AuthFieldAPIKey), config, logger)
	}
}

// NewCacheStore connects to redis. An empty url disables caching and returns nil.
func NewCacheStore(ctx context.Context, redisURL string, logger *slog.Logger) (*cache.RedisStore, error) {
	if redisURL == "" {
		return nil, nil
	}

	return cache.NewRedisStore(ctx, redisURL, logger)
}
