package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_MinuteLimit(t *testing.T) {
	rl := NewRateLimiter(2, 0, 0, 0)

	require.NoError(t, rl.CheckRateLimit("user1", 0))
	require.NoError(t, rl.CheckRateLimit("user1", 0))

	err := rl.CheckRateLimit("user1", 0)
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, "minute", rle.Type)
	assert.Equal(t, 2, rle.Limit)

	// Other users are unaffected.
	assert.NoError(t, rl.CheckRateLimit("user2", 0))
}

func TestRateLimiter_DailyRequestQuota(t *testing.T) {
	rl := NewRateLimiter(0, 0, 3, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.CheckRateLimit("user1", 0))
	}

	err := rl.CheckRateLimit("user1", 0)
	var qee *QuotaExceededError
	require.ErrorAs(t, err, &qee)
	assert.Equal(t, "requests", qee.Type)
	assert.Equal(t, int64(3), qee.Used)
}

func TestRateLimiter_TextQuota(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0, 100)

	require.NoError(t, rl.CheckRateLimit("user1", 60))
	require.NoError(t, rl.CheckRateLimit("user1", 40))

	err := rl.CheckRateLimit("user1", 1)
	var qee *QuotaExceededError
	require.ErrorAs(t, err, &qee)
	assert.Equal(t, "text", qee.Type)
	assert.Equal(t, int64(100), qee.Used)
}

func TestRateLimiter_ZeroLimitsDisabled(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0, 0)

	for i := 0; i < 100; i++ {
		assert.NoError(t, rl.CheckRateLimit("user1", 1<<20))
	}
}

func TestRateLimiter_GetUsage(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0, 0)

	require.NoError(t, rl.CheckRateLimit("user1", 42))
	usage := rl.GetUsage("user1")
	assert.Equal(t, 1, usage.requestsToday)
	assert.Equal(t, int64(42), usage.textToday)

	// Unknown user gets zero usage.
	assert.Equal(t, 0, rl.GetUsage("nobody").requestsToday)
}

func TestRateLimitErrorMessages(t *testing.T) {
	rl := NewRateLimiter(1, 0, 0, 0)
	require.NoError(t, rl.CheckRateLimit("u", 0))
	err := rl.CheckRateLimit("u", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")

	var rle *RateLimitError
	assert.True(t, errors.As(err, &rle))
}
