package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viptalca/viptalca-backend/config"
)

func TestInitUnreachableLeavesBlacklistDisabled(t *testing.T) {
	// Nothing listens on port 1, so Init must fail and leave the package
	// without a client.
	err := Init(&config.RedisConfig{
		Host: "127.0.0.1",
		Port: "1",
	})
	require.Error(t, err)
	assert.Nil(t, GetClient())

	ctx := context.Background()

	assert.NoError(t, BlacklistToken(ctx, "some-token", time.Minute))
	assert.False(t, IsTokenBlacklisted(ctx, "some-token"))
}

func TestCloseWithoutClient(t *testing.T) {
	assert.NoError(t, Close())
}
