package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/laodeai/models"
)

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	vals, err := s.MGet(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"", ""}, vals)

	require.NoError(t, s.MSet(ctx, map[string]string{"a": "1", "c": "3"}))

	vals, err = s.MGet(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", "3"}, vals)

	require.NoError(t, s.MSet(ctx, map[string]string{"a": "one"}))
	vals, err = s.MGet(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, vals)
}

func TestMemory(t *testing.T) {
	m, err := NewMemory(10)
	require.NoError(t, err)
	testStore(t, m)
}

func TestMemory_Bounded(t *testing.T) {
	m, err := NewMemory(2)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, m.MSet(ctx, map[string]string{"a": "1"}))
	require.NoError(t, m.MSet(ctx, map[string]string{"b": "2"}))
	require.NoError(t, m.MSet(ctx, map[string]string{"c": "3"}))

	assert.Equal(t, 2, m.Len())
	vals, err := m.MGet(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, vals, "oldest key evicted")
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer r.Close()

	testStore(t, r)
	v, err := mr.Get("c")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url")
	require.Error(t, err)
}

func TestResponses(t *testing.T) {
	c, err := NewResponses(10)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	key := Key("reverse slice", true)
	assert.NotEqual(t, key, Key("reverse slice", false))

	resp := &models.AnswerResponse{Success: true, Kind: "text", Content: "x"}
	c.Set(key, resp)

	got, ok := c.Get(key, 1000)
	require.True(t, ok)
	assert.Same(t, resp, got)

	_, ok = c.Get(key, 0)
	assert.False(t, ok, "max age 0 disables lookups")

	now = now.Add(2 * time.Second)
	_, ok = c.Get(key, 1000)
	assert.False(t, ok, "entry older than max age")
}
