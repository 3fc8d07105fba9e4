package setting

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/glowstudio/backend/internal/domain/setting"
	"github.com/glowstudio/backend/internal/domain/shared"
	"github.com/glowstudio/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingService manages admin settings and serves typed reads to other services.
// Reads are answered from a cached snapshot of the whole table.
type SettingService struct {
	repo   setting.Repository
	cache  cache.SettingsCache
	logger *zap.Logger
}

// NewSettingService creates a new SettingService
func NewSettingService(repo setting.Repository, settingsCache cache.SettingsCache, logger *zap.Logger) *SettingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingService{
		repo:   repo,
		cache:  settingsCache,
		logger: logger,
	}
}

var _ setting.Reader = (*SettingService)(nil)

// List returns every setting ordered by key
func (s *SettingService) List(ctx context.Context) ([]SettingResponse, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]SettingResponse, 0, len(keys))
	for _, k := range keys {
		st := snapshot[k]
		result = append(result, ToSettingResponse(&st))
	}
	return result, nil
}

// Get returns a single setting
func (s *SettingService) Get(ctx context.Context, key string) (*SettingResponse, error) {
	st, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := ToSettingResponse(st)
	return &resp, nil
}

// Public returns the public settings as a key/value map
func (s *SettingService) Public(ctx context.Context) (map[string]string, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string)
	for k, st := range snapshot {
		if st.Public {
			result[k] = st.Value
		}
	}
	return result, nil
}

// Upsert validates and saves many settings in one transaction, then drops the cache
func (s *SettingService) Upsert(ctx context.Context, req UpsertSettingsRequest) ([]SettingResponse, error) {
	seen := make(map[string]bool, len(req.Settings))
	toSave := make([]setting.Setting, 0, len(req.Settings))

	for _, in := range req.Settings {
		key := strings.TrimSpace(in.Key)
		if seen[key] {
			return nil, shared.NewDomainError("DUPLICATE_KEY", "Setting "+key+" appears more than once")
		}
		seen[key] = true

		st, err := s.merge(ctx, key, in)
		if err != nil {
			return nil, err
		}
		toSave = append(toSave, *st)
	}

	if err := s.repo.SaveAll(ctx, toSave); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("Settings updated", zap.Int("count", len(toSave)))

	result := make([]SettingResponse, 0, len(toSave))
	for i := range toSave {
		result = append(result, ToSettingResponse(&toSave[i]))
	}
	return result, nil
}

func (s *SettingService) merge(ctx context.Context, key string, in SettingInput) (*setting.Setting, error) {
	existing, err := s.repo.FindByKey(ctx, key)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		typ := setting.TypeString
		if in.Type != "" {
			typ = setting.ValueType(in.Type)
		}
		description := ""
		if in.Description != nil {
			description = *in.Description
		}
		public := in.Public != nil && *in.Public
		return setting.NewSetting(key, in.Value, typ, public, description)
	}

	if in.Type != "" {
		existing.Type = setting.ValueType(in.Type)
	}
	if err := existing.SetValue(in.Value); err != nil {
		return nil, err
	}
	if in.Public != nil {
		existing.Public = *in.Public
	}
	if in.Description != nil {
		existing.Description = strings.TrimSpace(*in.Description)
	}
	return existing, nil
}

// Delete removes a custom setting. Seeded keys cannot be deleted.
func (s *SettingService) Delete(ctx context.Context, key string) error {
	if setting.SeededKeys[key] {
		return shared.NewDomainError("INVALID_STATE", "Built-in setting "+key+" cannot be deleted")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// String returns the raw value of key, or def when unset
func (s *SettingService) String(ctx context.Context, key, def string) string {
	if v, ok := s.lookup(ctx, key); ok {
		return v
	}
	return def
}

// Int returns key parsed as an integer, or def when unset or malformed
func (s *SettingService) Int(ctx context.Context, key string, def int) int {
	v, ok := s.lookup(ctx, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		s.logger.Warn("Setting is not an integer", zap.String("key", key), zap.String("value", v))
		return def
	}
	return n
}

// Decimal returns key parsed as a decimal, or def when unset or malformed
func (s *SettingService) Decimal(ctx context.Context, key string, def decimal.Decimal) decimal.Decimal {
	v, ok := s.lookup(ctx, key)
	if !ok {
		return def
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		s.logger.Warn("Setting is not a number", zap.String("key", key), zap.String("value", v))
		return def
	}
	return d
}

func (s *SettingService) lookup(ctx context.Context, key string) (string, bool) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		s.logger.Warn("Failed to load settings, using default", zap.String("key", key), zap.Error(err))
		return "", false
	}
	st, ok := snapshot[key]
	if !ok {
		return "", false
	}
	return st.Value, true
}

// snapshot returns all settings, filling the cache on a miss.
// Cache failures degrade to reading the database.
func (s *SettingService) snapshot(ctx context.Context) (map[string]setting.Setting, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Settings cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]setting.Setting, len(all))
	for _, st := range all {
		snapshot[st.Key] = st
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshot); err != nil {
			s.logger.Warn("Settings cache write failed", zap.Error(err))
		}
	}
	return snapshot, nil
}

func (s *SettingService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Settings cache invalidation failed", zap.Error(err))
	}
}
