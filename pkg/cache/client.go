package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/dukex/iterable-cog/pkg/models"
	"github.com/dukex/iterable-cog/pkg/protocol"
)

const (
	DefaultTTL = 55 * time.Second

	namespace   = "Iterable"
	indexPrefix = "cachekeys|"
)

// Prefix builds the namespace shared by every key cached for one request.
func Prefix(ids models.IDMap) string {
	return namespace + "|" + ids.RequestID + "|" + ids.ScenarioID + "|" + ids.RequestorID
}

// CachingClient decorates a ContactRepository with a read-through cache of
// contact lookups. Cache faults never fail a call; the upstream is used instead.
type CachingClient struct {
	client protocol.ContactRepository
	store  Store
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachingClient(
	client protocol.ContactRepository,
	store Store,
	ids models.IDMap,
	ttl time.Duration,
	logger *slog.Logger,
) *CachingClient {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &CachingClient{
		client: client,
		store:  store,
		prefix: Prefix(ids),
		ttl:    ttl,
		logger: logger.With("module", "contact_cache"),
	}
}

func (c *CachingClient) GetContactByEmail(ctx context.Context, email string) (*models.UserResponse, error) {
	key := c.contactKey(email)

	var cached models.UserResponse

	found, err := c.GetCache(ctx, key, &cached)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to read contact from cache", "key", key, "error", err)
	}

	if found {
		return &cached, nil
	}

	resp, err := c.client.GetContactByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	// Partially written profiles are not cached so callers waiting on a
	// write keep seeing fresh reads.
	if resp.Found() && len(resp.User.DataFields) > 0 {
		if err := c.SetCache(ctx, key, resp); err != nil {
			c.logger.WarnContext(ctx, "failed to cache contact", "key", key, "error", err)
		}
	}

	return resp, nil
}

func (c *CachingClient) CreateOrUpdateContact(ctx context.Context, contact models.Contact) (*models.APIResponse, error) {
	resp, err := c.client.CreateOrUpdateContact(ctx, contact)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, resp)

	return resp, nil
}

func (c *CachingClient) DeleteContactByEmail(ctx context.Context, email string) (*models.APIResponse, error) {
	resp, err := c.client.DeleteContactByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, resp)

	return resp, nil
}

// GetCache decodes the value stored at key into out and reports whether it was present.
func (c *CachingClient) GetCache(ctx context.Context, key string, out any) (bool, error) {
	value, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		return false, err
	}

	return true, nil
}

// SetCache stores value under key and records key in the namespace index.
func (c *CachingClient) SetCache(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := c.store.SetEx(ctx, key, string(payload), c.ttl); err != nil {
		return err
	}

	keys, err := c.indexedKeys(ctx)
	if err != nil {
		return err
	}

	if slices.Contains(keys, key) {
		return nil
	}

	index, err := json.Marshal(append(keys, key))
	if err != nil {
		return err
	}

	return c.store.SetEx(ctx, c.indexKey(), string(index), c.ttl)
}

func (c *CachingClient) DelCache(ctx context.Context, key string) error {
	return c.store.Del(ctx, key)
}

// ClearCache removes every key cached under the namespace and resets its index.
func (c *CachingClient) ClearCache(ctx context.Context) error {
	keys, err := c.indexedKeys(ctx)
	if err != nil {
		return err
	}

	return c.store.Del(ctx, append(keys, c.indexKey())...)
}

func (c *CachingClient) invalidate(ctx context.Context, resp *models.APIResponse) {
	if !resp.Succeeded() {
		return
	}

	if err := c.ClearCache(ctx); err != nil {
		c.logger.WarnContext(ctx, "failed to clear contact cache", "prefix", c.prefix, "error", err)
	}
}

func (c *CachingClient) indexedKeys(ctx context.Context) ([]string, error) {
	value, err := c.store.Get(ctx, c.indexKey())
	if errors.Is(err, ErrCacheMiss) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var keys []string
	if err := json.Unmarshal([]byte(value), &keys); err != nil {
		return nil, err
	}

	return keys, nil
}

func (c *CachingClient) contactKey(email string) string {
	return c.prefix + "|Contact|" + email
}

func (c *CachingClient) indexKey() string {
	return indexPrefix + c.prefix
}
