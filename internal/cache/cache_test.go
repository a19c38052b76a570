package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSetGetRoundTripL1Only(t *testing.T) {
	c := New(nil, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "ada", Count: 3}))

	var got payload
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "ada", Count: 3}, got)
}

func TestGetMiss(t *testing.T) {
	c := New(nil, 10, time.Minute)

	var got payload
	err := c.Get(context.Background(), "absent", &got)

	assert.ErrorIs(t, err, ErrMiss)
}

func TestDeleteInvalidates(t *testing.T) {
	c := New(nil, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Name: "ada"}))
	require.NoError(t, c.Delete(ctx, "k"))

	var got payload
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}

func TestDeletePatternPurgesL1(t *testing.T) {
	c := New(nil, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, MatchesKey("u1"), payload{Name: "a"}))
	require.NoError(t, c.Set(ctx, MatchesKey("u2"), payload{Name: "b"}))
	require.NoError(t, c.DeletePattern(ctx, "matches:*"))

	assert.Equal(t, 0, c.L1Len())
}

func TestL1Eviction(t *testing.T) {
	c := New(nil, 2, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", payload{}))
	require.NoError(t, c.Set(ctx, "b", payload{}))
	require.NoError(t, c.Set(ctx, "c", payload{}))

	assert.Equal(t, 2, c.L1Len())
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "matches:user123", MatchesKey("user123"))
	assert.Equal(t, "profile:user123", ProfileKey("user123"))
	assert.Equal(t, "prefs:user123", PreferencesKey("user123"))
	assert.Equal(t, "candidates:user123:1", CandidatesKey("user123", 1))
}
