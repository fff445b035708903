package game

import (
	"context"
	"testing"
	"time"

	"cardparty/services/catalog"
	"cardparty/services/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, ttl time.Duration) *Registry {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := &redis.RedisClient{
		Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
		Ctx:    context.Background(),
	}
	svc := catalog.NewService(rc)
	require.NoError(t, svc.SeedOfficialCards(catalog.OfficialCards()))
	return NewRegistry(svc, RegistryConfig{
		HandSize:    6,
		RoundLength: time.Minute,
		Expansion:   "Base",
		PartyTTL:    ttl,
	})
}

func TestGetOrCreateReturnsTheSameInstance(t *testing.T) {
	registry := newTestRegistry(t, time.Hour)

	first, err := registry.GetOrCreate("ABC123")
	require.NoError(t, err)
	assert.NotEmpty(t, first.AnswerDeck)
	assert.NotEmpty(t, first.PromptDeck)

	second, err := registry.GetOrCreate("ABC123")
	require.NoError(t, err)
	assert.Same(t, first, second)

	got, ok := registry.Get("ABC123")
	require.True(t, ok)
	assert.Same(t, first, got)

	_, ok = registry.Get("NOPE00")
	assert.False(t, ok)
}

func TestSweepIdlePartiesEvictsOnlyStaleOnes(t *testing.T) {
	registry := newTestRegistry(t, 20*time.Millisecond)

	_, err := registry.GetOrCreate("OLD001")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = registry.GetOrCreate("NEW001")
	require.NoError(t, err)

	assert.Equal(t, 1, registry.SweepIdleParties())

	_, ok := registry.Get("OLD001")
	assert.False(t, ok, "stale party must be reclaimed")
	_, ok = registry.Get("NEW001")
	assert.True(t, ok, "fresh party must survive the sweep")
}
