package internal

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":3001", cfg.HTTPAddr)
	assert.Equal(t, "geochat.db", cfg.DBPath)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, float64(3000), cfg.NearbyRadiusMeters)
	assert.Equal(t, 100, cfg.NearbyLimit)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("NEARBY_RADIUS_METERS", "5000")
	t.Setenv("NEARBY_LIMIT", "10")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := LoadConfig()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, float64(5000), cfg.NearbyRadiusMeters)
	assert.Equal(t, 10, cfg.NearbyLimit)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestDefaultUsernamePattern(t *testing.T) {
	pattern, err := regexp.Compile(LoadConfig().UsernamePattern)
	require.NoError(t, err)

	assert.True(t, pattern.MatchString("张三"))
	assert.True(t, pattern.MatchString("一二三四五六七八九十"))
	assert.False(t, pattern.MatchString("latin"))
	assert.False(t, pattern.MatchString("张三a"))
	assert.False(t, pattern.MatchString(""))
	assert.False(t, pattern.MatchString("一二三四五六七八九十拾"))
}
