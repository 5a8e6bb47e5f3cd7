package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeSettings is a map-backed ISettingRepository.
type fakeSettings struct {
	values map[string]string
	err    error
}

func (f *fakeSettings) Get(section, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	value, ok := f.values[section+"/"+key]
	return value, ok, nil
}

func fullSettings() *fakeSettings {
	return &fakeSettings{values: map[string]string{
		"security/access_token_lifetime_minutes": "15",
		"security/refresh_token_lifetime_days":   "30",
		"security/refresh_before_expiry_seconds": "60",
		"security/max_refresh_tokens_per_user":   "5",
	}}
}

func TestPolicyService_Load(t *testing.T) {
	svc := NewPolicyService(fullSettings(), nil)

	policy, err := svc.Load()

	assert.NoError(t, err)
	assert.Equal(t, 15*time.Minute, policy.AccessTokenLifetime)
	assert.Equal(t, 30*24*time.Hour, policy.RefreshTokenLifetime)
	assert.Equal(t, 60*time.Second, policy.RefreshBeforeExpiry)
	assert.Equal(t, 5, policy.MaxTokensPerUser)
}

func TestPolicyService_MissingSettingIsConfigurationError(t *testing.T) {
	keys := []string{
		"security/access_token_lifetime_minutes",
		"security/refresh_token_lifetime_days",
		"security/refresh_before_expiry_seconds",
		"security/max_refresh_tokens_per_user",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			settings := fullSettings()
			delete(settings.values, key)

			policy, err := NewPolicyService(settings, nil).Load()

			assert.Nil(t, policy, "a lifetime must never silently default")
			assert.Error(t, err)
			assert.Equal(t, KindConfiguration, KindOf(err))
			assert.Equal(t, ReasonMissingSetting, ReasonOf(err))
		})
	}
}

func TestPolicyService_MalformedSettingIsConfigurationError(t *testing.T) {
	settings := fullSettings()
	settings.values["security/max_refresh_tokens_per_user"] = "many"

	policy, err := NewPolicyService(settings, nil).Load()

	assert.Nil(t, policy)
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestPolicyService_StorageFailure(t *testing.T) {
	settings := &fakeSettings{err: errors.New("connection refused")}

	policy, err := NewPolicyService(settings, nil).Load()

	assert.Nil(t, policy)
	assert.Equal(t, KindStorage, KindOf(err))
}
