package service

import (
	"context"
	"encoding/json"
	"fmt"
	"go-admin-auth/logger"
	"go-admin-auth/repository"
	"strconv"
	"time"
)

// SessionPolicy carries the security-relevant lifetimes and the per-user
// token cap. Every field is required: lifetimes must never silently default,
// so a missing or malformed setting fails the whole operation.
type SessionPolicy struct {
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
	RefreshBeforeExpiry  time.Duration
	MaxTokensPerUser     int
}

// rawPolicy is the wire form used for the cache entry.
type rawPolicy struct {
	AccessTokenLifetimeMinutes int `json:"access_token_lifetime_minutes"`
	RefreshTokenLifetimeDays   int `json:"refresh_token_lifetime_days"`
	RefreshBeforeExpirySeconds int `json:"refresh_before_expiry_seconds"`
	MaxTokensPerUser           int `json:"max_refresh_tokens_per_user"`
}

const (
	settingsSection = "security"
	policyCacheKey  = "settings:security_policy"
	policyCacheTTL  = 1 * time.Minute
)

// PolicyService reads the session policy from the settings provider with a
// cache-aside strategy. The cache client may be nil (tests, degraded mode);
// cache failures are logged and ignored, settings failures are not.
type PolicyService struct {
	repo  repository.ISettingRepository
	cache ICacheClient
}

func NewPolicyService(repo repository.ISettingRepository, cache ICacheClient) *PolicyService {
	return &PolicyService{repo: repo, cache: cache}
}

// Load returns the current session policy. Any missing or non-numeric
// setting is a ConfigurationError.
func (s *PolicyService) Load() (*SessionPolicy, error) {
	if raw, ok := s.fromCache(); ok {
		return raw.toPolicy(), nil
	}

	raw := &rawPolicy{}
	var err error
	if raw.AccessTokenLifetimeMinutes, err = s.getInt("access_token_lifetime_minutes"); err != nil {
		return nil, err
	}
	if raw.RefreshTokenLifetimeDays, err = s.getInt("refresh_token_lifetime_days"); err != nil {
		return nil, err
	}
	if raw.RefreshBeforeExpirySeconds, err = s.getInt("refresh_before_expiry_seconds"); err != nil {
		return nil, err
	}
	if raw.MaxTokensPerUser, err = s.getInt("max_refresh_tokens_per_user"); err != nil {
		return nil, err
	}

	s.toCache(raw)
	return raw.toPolicy(), nil
}

func (s *PolicyService) getInt(key string) (int, error) {
	value, found, err := s.repo.Get(settingsSection, key)
	if err != nil {
		return 0, NewStorageError(err)
	}
	if !found {
		return 0, NewConfigurationError(ReasonMissingSetting,
			fmt.Errorf("required setting %s/%s is absent", settingsSection, key))
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, NewConfigurationError(ReasonMissingSetting,
			fmt.Errorf("setting %s/%s is not numeric: %q", settingsSection, key, value))
	}
	return n, nil
}

func (s *PolicyService) fromCache() (*rawPolicy, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(context.Background(), policyCacheKey).Result()
	if err != nil {
		return nil, false
	}
	raw := &rawPolicy{}
	if err := json.Unmarshal([]byte(data), raw); err != nil {
		logger.Log.WithError(err).Warn("Discarding corrupt policy cache entry")
		s.cache.Del(context.Background(), policyCacheKey)
		return nil, false
	}
	return raw, true
}

func (s *PolicyService) toCache(raw *rawPolicy) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := s.cache.Set(context.Background(), policyCacheKey, data, policyCacheTTL).Err(); err != nil {
		logger.Log.WithError(err).Warn("Failed to cache session policy")
	}
}

func (raw *rawPolicy) toPolicy() *SessionPolicy {
	return &SessionPolicy{
		AccessTokenLifetime:  time.Duration(raw.AccessTokenLifetimeMinutes) * time.Minute,
		RefreshTokenLifetime: time.Duration(raw.RefreshTokenLifetimeDays) * 24 * time.Hour,
		RefreshBeforeExpiry:  time.Duration(raw.RefreshBeforeExpirySeconds) * time.Second,
		MaxTokensPerUser:     raw.MaxTokensPerUser,
	}
}
