package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glowstudio/backend/internal/domain/setting"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultSettingsTTL bounds how long a cached settings snapshot is trusted
const DefaultSettingsTTL = 5 * time.Minute

// SettingsCache holds a snapshot of all settings keyed by setting key
type SettingsCache interface {
	// Get returns the snapshot and whether it was present
	Get(ctx context.Context) (map[string]setting.Setting, bool, error)
	Set(ctx context.Context, settings map[string]setting.Setting) error
	Invalidate(ctx context.Context) error
}

// SettingsCacheOption configures a settings cache
type SettingsCacheOption func(*settingsCacheOptions)

type settingsCacheOptions struct {
	ttl    time.Duration
	logger *zap.Logger
}

// WithSettingsTTL sets the snapshot TTL
func WithSettingsTTL(ttl time.Duration) SettingsCacheOption {
	return func(o *settingsCacheOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithCacheLogger sets the logger used for cache diagnostics
func WithCacheLogger(logger *zap.Logger) SettingsCacheOption {
	return func(o *settingsCacheOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applySettingsOptions(opts []SettingsCacheOption) settingsCacheOptions {
	o := settingsCacheOptions{ttl: DefaultSettingsTTL, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RedisSettingsCache stores the snapshot as one JSON value so every instance
// sees an invalidation at once
type RedisSettingsCache struct {
	client redis.UniversalClient
	key    string
	opts   settingsCacheOptions
}

// NewRedisSettingsCache creates a settings cache on a shared Redis client
func NewRedisSettingsCache(client redis.UniversalClient, opts ...SettingsCacheOption) *RedisSettingsCache {
	return &RedisSettingsCache{
		client: client,
		key:    "glow:settings:all",
		opts:   applySettingsOptions(opts),
	}
}

// Get reads the snapshot. A miss returns (nil, false, nil).
func (c *RedisSettingsCache) Get(ctx context.Context) (map[string]setting.Setting, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.opts.logger.Debug("settings cache miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings cache: %w", err)
	}
	var settings map[string]setting.Setting
	if err := json.Unmarshal(data, &settings); err != nil {
		// a corrupt entry is treated as a miss and overwritten on the next load
		c.opts.logger.Warn("discarding unreadable settings cache entry", zap.Error(err))
		return nil, false, nil
	}
	return settings, true, nil
}

// Set writes the snapshot with the configured TTL
func (c *RedisSettingsCache) Set(ctx context.Context, settings map[string]setting.Setting) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.opts.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write settings cache: %w", err)
	}
	return nil
}

// Invalidate drops the snapshot
func (c *RedisSettingsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate settings cache: %w", err)
	}
	return nil
}

// InMemorySettingsCache keeps the snapshot in process memory
type InMemorySettingsCache struct {
	mu        sync.RWMutex
	settings  map[string]setting.Setting
	expiresAt time.Time
	opts      settingsCacheOptions
}

// NewInMemorySettingsCache creates an in-process settings cache
func NewInMemorySettingsCache(opts ...SettingsCacheOption) *InMemorySettingsCache {
	return &InMemorySettingsCache{opts: applySettingsOptions(opts)}
}

// Get returns a copy of the snapshot while it is fresh
func (c *InMemorySettingsCache) Get(_ context.Context) (map[string]setting.Setting, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.settings == nil || time.Now().After(c.expiresAt) {
		return nil, false, nil
	}
	return copySettings(c.settings), true, nil
}

// Set replaces the snapshot
func (c *InMemorySettingsCache) Set(_ context.Context, settings map[string]setting.Setting) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = copySettings(settings)
	c.expiresAt = time.Now().Add(c.opts.ttl)
	return nil
}

// Invalidate drops the snapshot
func (c *InMemorySettingsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = nil
	return nil
}

func copySettings(in map[string]setting.Setting) map[string]setting.Setting {
	out := make(map[string]setting.Setting, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var (
	_ SettingsCache = (*RedisSettingsCache)(nil)
	_ SettingsCache = (*InMemorySettingsCache)(nil)
)
