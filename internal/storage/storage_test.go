package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/rulekit/types"
)

func sampleScript(version string) *types.GameScript {
	return &types.GameScript{
		Flags:    []types.Flag{{ID: "f_door", Name: "door_open"}},
		Counters: []types.Counter{{ID: "c_score", Name: "score", InitialValue: 2}},
		Rules: []types.Rule{{
			ID: "r1", Name: "Open door", Enabled: true, Priority: 3,
			Triggers: types.TriggerSet{Operator: types.OperatorAnd, Conditions: []types.TriggerCondition{
				{Condition: types.FlagCondition{FlagID: "f_door", Condition: types.FlagOffToOn}},
			}},
			Actions: []types.GameAction{
				{Action: types.CounterAction{CounterName: "score", Operation: types.CounterAdd, Value: 1}},
			},
		}},
		Version: version,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRedis(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), ttl, quietLogger())
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

// stores runs fn against every Store implementation.
func stores(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("redis", func(t *testing.T) {
		s, _ := setupRedis(t, 0)
		fn(t, s)
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		id, err := s.Create(ctx, sampleScript("1.0"))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "1.0", got.Version)
		require.Len(t, got.Rules, 1)
		assert.Equal(t, "r1", got.Rules[0].ID)
		assert.Equal(t, 3, got.Rules[0].Priority)
		require.Len(t, got.Rules[0].Triggers.Conditions, 1)
		assert.Equal(t,
			types.FlagCondition{FlagID: "f_door", Condition: types.FlagOffToOn},
			got.Rules[0].Triggers.Conditions[0].Condition)
		assert.Equal(t, 2, got.Counters[0].InitialValue)
	})
}

func TestStore_GetMissing(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		_, err := s.Get(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Update(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		id, err := s.Create(ctx, sampleScript("1.0"))
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, id, sampleScript("2.0")))
		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "2.0", got.Version)

		err = s.Update(ctx, uuid.New(), sampleScript("3.0"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Delete(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		id, err := s.Create(ctx, sampleScript("1.0"))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, id))
		_, err = s.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)
	})
}

func TestStore_CallerCannotMutateStoredScript(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		g := sampleScript("1.0")
		id, err := s.Create(ctx, g)
		require.NoError(t, err)

		g.Rules[0].Name = "changed"
		got, err := s.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Open door", got.Rules[0].Name)
	})
}

func TestStore_Ping(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		assert.NoError(t, s.Ping(context.Background()))
	})
}

func TestMemoryStore_PingError(t *testing.T) {
	s := NewMemoryStore()
	s.SetPingError(errors.New("down"))
	assert.EqualError(t, s.Ping(context.Background()), "down")
	s.SetPingError(nil)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	s, mr := setupRedis(t, time.Hour)
	ctx := context.Background()

	id, err := s.Create(ctx, sampleScript("1.0"))
	require.NoError(t, err)

	key := "script:" + id.String()
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	mr.FastForward(2 * time.Hour)
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_PingFailsWhenServerDown(t *testing.T) {
	s, mr := setupRedis(t, 0)
	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}

func TestRedisStore_WaitForConnection(t *testing.T) {
	s, _ := setupRedis(t, 0)
	assert.NoError(t, s.WaitForConnection(context.Background(), 3, time.Millisecond))
}

func TestRedisStore_WaitForConnection_Cancelled(t *testing.T) {
	s, mr := setupRedis(t, 0)
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.WaitForConnection(ctx, 5, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
