package checkpoint

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	intaketest "github.com/arloliu/intake/testing"
	"github.com/arloliu/intake/types"
)

func TestKV(t *testing.T) {
	ctx := t.Context()
	_, nc := intaketest.StartEmbeddedNATS(t)
	store := NewKV(intaketest.CreateJetStreamKV(t, nc, "checkpoints"))

	t.Run("missing checkpoint", func(t *testing.T) {
		_, found, err := store.Load(ctx, "step", "nope")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("save then load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "step", "p0", types.Checkpoint{Epoch: 4, State: types.ResumeState("12")}))

		cp, found, err := store.Load(ctx, "step", "p0")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, types.Checkpoint{Epoch: 4, State: types.ResumeState("12")}, cp)
	})

	t.Run("arbitrary partition keys", func(t *testing.T) {
		keys := []string{"orders/2024 01", "a.b.c", "*", ">", "", "日本"}
		for i, key := range keys {
			state := types.ResumeState{byte(i), 0xff}
			require.NoError(t, store.Save(ctx, "weird", key, types.Checkpoint{Epoch: 1, State: state}))

			cp, found, err := store.Load(ctx, "weird", key)
			require.NoError(t, err)
			require.True(t, found, "key %q", key)
			require.Equal(t, state, cp.State)
		}

		listed, err := store.Keys(ctx, "weird")
		require.NoError(t, err)
		require.ElementsMatch(t, keys, listed)
	})

	t.Run("corrupt entry", func(t *testing.T) {
		kv := intaketest.CreateJetStreamKV(t, nc, "corrupt")
		_, err := kv.Put(ctx, kvKey("step", "p0"), []byte("not json"))
		require.NoError(t, err)

		_, _, err = NewKV(kv).Load(ctx, "step", "p0")
		require.ErrorIs(t, err, types.ErrCheckpointFailed)
	})
}

func TestOpenKV(t *testing.T) {
	ctx := t.Context()
	_, nc := intaketest.StartEmbeddedNATS(t)
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	t.Run("invalid config", func(t *testing.T) {
		_, err := OpenKV(ctx, js, KVConfig{})
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("two workers share the bucket", func(t *testing.T) {
		cfg := DefaultKVConfig()
		cfg.MemoryStorage = true

		a, err := OpenKV(ctx, js, cfg)
		require.NoError(t, err)
		b, err := OpenKV(ctx, js, cfg)
		require.NoError(t, err)

		require.NoError(t, a.Save(ctx, "step", "p0", types.Checkpoint{Epoch: 9}))
		cp, found, err := b.Load(ctx, "step", "p0")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, uint64(9), cp.Epoch)
	})
}

func TestKVSaveGivesUpWhenDisconnected(t *testing.T) {
	srv, nc := intaketest.StartEmbeddedNATS(t)

	conn, err := nats.Connect(srv.ClientURL())
	require.NoError(t, err)
	js, err := jetstream.New(conn)
	require.NoError(t, err)
	kv, err := js.KeyValue(t.Context(), intaketest.CreateJetStreamKV(t, nc, "closed").Bucket())
	require.NoError(t, err)

	store := NewKV(kv, WithRetry(2, time.Millisecond))
	conn.Close()

	err = store.Save(t.Context(), "step", "p0", types.Checkpoint{Epoch: 1})
	require.ErrorIs(t, err, types.ErrCheckpointFailed)
	require.ErrorIs(t, err, nats.ErrConnectionClosed)
	require.Contains(t, err.Error(), "giving up after 2 attempts")
}

func TestKVKey(t *testing.T) {
	require.Equal(t, "c3RlcA.cDA", kvKey("step", "p0"))
	require.Equal(t, "_._", kvKey("", ""))

	decoded, err := decodeKeyPart("cDA")
	require.NoError(t, err)
	require.Equal(t, "p0", decoded)
}
