package presence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlwaysOnline(t *testing.T) {
	online, err := AlwaysOnline{}.Online(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, online)
	assert.NoError(t, AlwaysOnline{}.Touch(context.Background(), "a"))
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisProvider) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, NewRedisProviderFromClient(client, time.Minute)
}

func TestRedisProviderTouchAndExpire(t *testing.T) {
	srv, p := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, p.Touch(ctx, "alice"))

	online, err := p.Online(ctx, []string{"alice", "bob"})
	require.NoError(t, err)
	assert.True(t, online["alice"])
	assert.False(t, online["bob"])

	srv.FastForward(2 * time.Minute)

	online, err = p.Online(ctx, []string{"alice"})
	require.NoError(t, err)
	assert.False(t, online["alice"])
}

func TestRedisProviderEmptyInput(t *testing.T) {
	_, p := newTestRedis(t)

	online, err := p.Online(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, online)
}

func TestNewRedisProviderPing(t *testing.T) {
	srv := miniredis.RunT(t)

	p, err := NewRedisProvider(context.Background(), "redis://"+srv.Addr()+"/0", time.Minute)
	require.NoError(t, err)
	defer p.Close()

	_, err = NewRedisProvider(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)
}
