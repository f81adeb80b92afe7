package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candilib/internal/platform/config"
)

func TestNewWithoutURLDisablesRedis(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{PoolSize: 10})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "memcached://cache:11211"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestOptionsOverrideURL(t *testing.T) {
	opts, err := options(config.RedisConfig{
		URL:          "redis://:secret@cache.candilib.local:6380/2",
		PoolSize:     25,
		MinIdleConns: 4,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "cache.candilib.local:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 25, opts.PoolSize)
	assert.Equal(t, 4, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, time.Second, opts.ReadTimeout)
}

func TestOptionsKeepURLDefaults(t *testing.T) {
	opts, err := options(config.RedisConfig{URL: "redis://localhost:6379/0?dial_timeout=7s"})
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, opts.DialTimeout)
	assert.Zero(t, opts.PoolSize)
}
