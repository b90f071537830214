package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/BasharatJS/Silai-Sathi-Tailoring-App-sub000/internal/platform/config"
)

func TestNilCacheAlwaysMisses(t *testing.T) {
	var c *JSONCache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "fabrics", []string{"cotton"}, time.Minute))
	var out []string
	found, err := c.Get(ctx, "fabrics", &out)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, c.Delete(ctx, "fabrics"))
	require.NoError(t, c.Ping(ctx))
}

func TestNewJSONCacheWithoutClientIsNil(t *testing.T) {
	require.Nil(t, NewJSONCache(nil))
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	client, err := NewClient(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	require.Nil(t, client)
}

func TestGetSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	var out map[string]any
	found, err := NewJSONCache(client).Get(context.Background(), "stats:dashboard", &out)
	require.Error(t, err)
	require.False(t, found)
}
