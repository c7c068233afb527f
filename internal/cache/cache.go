// Package cache stores the last normalized policy set with a timestamp and
// serves it while it is younger than the configured TTL.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"policyscope/internal/config"
	"policyscope/internal/logger"
	"policyscope/internal/models"
)

// Cache errors.
var (
	ErrMiss    = errors.New("cache miss")
	ErrExpired = errors.New("cache expired")
	ErrCorrupt = errors.New("cache entry is corrupt")
)

// DefaultTTL is how long a cached policy set stays valid.
const DefaultTTL = 30 * time.Minute

// Entry is the persisted cache payload.
type Entry struct {
	Timestamp     time.Time       `json:"timestamp"`
	Policies      []models.Policy `json:"policies"`
	FailedSources []string        `json:"failedSources,omitempty"`
}

// Store persists a single Entry.
type Store interface {
	Get(ctx context.Context) (*Entry, error)
	Set(ctx context.Context, entry *Entry) error
	Clear(ctx context.Context) error
}

// Info describes the cached entry for display.
type Info struct {
	Timestamp  time.Time `json:"timestamp,omitzero"`
	Exists     bool      `json:"exists"`
	Valid      bool      `json:"valid"`
	AgeMinutes int       `json:"ageMinutes"`
	Count      int       `json:"count"`
}

// Cache applies the TTL on top of a Store.
type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// New wraps store. A non-positive ttl uses DefaultTTL.
func New(store Store, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if log == nil {
		log = logger.Discard()
	}

	return &Cache{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: log,
	}
}

// FromConfig builds the cache selected by cfg.Backend.
func FromConfig(cfg config.CacheConfig, log *logger.Logger) (*Cache, error) {
	var store Store

	switch cfg.Backend {
	case config.CacheFile:
		store = NewFileStore(cfg.Path)
	case config.CacheRedis:
		store = NewRedisStore(cfg.RedisAddr, cfg.Key, cfg.GetTTL())
	case config.CacheNone, "":
		store = NopStore{}
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidCacheBackend, cfg.Backend)
	}

	return New(store, cfg.GetTTL(), log), nil
}

// TTL returns the validity window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Load returns the cached policies if the entry exists and is within the
// TTL. Expired or unreadable entries are cleared.
func (c *Cache) Load(ctx context.Context) (*Entry, error) {
	entry, err := c.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			c.logger.Warn("discarding corrupt cache entry", "error", err)
			c.clearQuietly(ctx)
		}

		return nil, err
	}

	age := c.now().Sub(entry.Timestamp)
	if age > c.ttl {
		c.logger.Info("cache expired", "age_minutes", int(age.Minutes()))
		c.clearQuietly(ctx)

		return nil, fmt.Errorf("%w: %s old", ErrExpired, age.Round(time.Second))
	}

	c.logger.Debug("loaded policies from cache", "count", len(entry.Policies), "age_minutes", int(age.Minutes()))

	return entry, nil
}

// Save stores policies stamped with the current time.
func (c *Cache) Save(ctx context.Context, policies []models.Policy, failed []string) error {
	entry := &Entry{
		Timestamp:     c.now().UTC(),
		Policies:      policies,
		FailedSources: failed,
	}

	if err := c.store.Set(ctx, entry); err != nil {
		return fmt.Errorf("failed to save cache: %w", err)
	}

	c.logger.Debug("cached policies", "count", len(policies))

	return nil
}

// Clear removes the entry.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Info reports on the stored entry without applying the TTL.
func (c *Cache) Info(ctx context.Context) (Info, error) {
	entry, err := c.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrMiss) || errors.Is(err, ErrCorrupt) {
			return Info{}, nil
		}

		return Info{}, err
	}

	age := c.now().Sub(entry.Timestamp)

	return Info{
		Timestamp:  entry.Timestamp,
		Exists:     true,
		Valid:      age <= c.ttl,
		AgeMinutes: int(age.Round(time.Minute).Minutes()),
		Count:      len(entry.Policies),
	}, nil
}

func (c *Cache) clearQuietly(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear cache", "error", err)
	}
}

// NopStore never holds anything.
type NopStore struct{}

// Get always misses.
func (NopStore) Get(context.Context) (*Entry, error) { return nil, ErrMiss }

// Set discards the entry.
func (NopStore) Set(context.Context, *Entry) error { return nil }

// Clear does nothing.
func (NopStore) Clear(context.Context) error { return nil }
