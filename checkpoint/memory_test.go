package checkpoint

import (
	"context"
	"testing"

	"github.com/arloliu/intake/types"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := t.Context()

	t.Run("missing checkpoint", func(t *testing.T) {
		store := NewMemory()

		_, found, err := store.Load(ctx, "step", "p0")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("save then load", func(t *testing.T) {
		store := NewMemory()

		require.NoError(t, store.Save(ctx, "step", "p0", types.Checkpoint{Epoch: 1, State: types.ResumeState("3")}))
		require.NoError(t, store.Save(ctx, "step", "p0", types.Checkpoint{Epoch: 2, State: types.ResumeState("7")}))

		cp, found, err := store.Load(ctx, "step", "p0")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, uint64(2), cp.Epoch)
		require.Equal(t, types.ResumeState("7"), cp.State)
		require.Equal(t, 1, store.Len())
	})

	t.Run("steps are isolated", func(t *testing.T) {
		store := NewMemory()
		require.NoError(t, store.Save(ctx, "a", "p0", types.Checkpoint{Epoch: 1}))

		_, found, err := store.Load(ctx, "b", "p0")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("nil state stays nil", func(t *testing.T) {
		store := NewMemory()
		require.NoError(t, store.Save(ctx, "step", "p0", types.Checkpoint{Epoch: 1}))

		cp, found, err := store.Load(ctx, "step", "p0")
		require.NoError(t, err)
		require.True(t, found)
		require.Nil(t, cp.State)
	})

	t.Run("state bytes are copied", func(t *testing.T) {
		store := NewMemory()
		state := types.ResumeState("abc")
		require.NoError(t, store.Save(ctx, "step", "p0", types.Checkpoint{State: state}))
		state[0] = 'x'

		cp, _, err := store.Load(ctx, "step", "p0")
		require.NoError(t, err)
		require.Equal(t, types.ResumeState("abc"), cp.State)

		cp.State[0] = 'y'
		again, _, err := store.Load(ctx, "step", "p0")
		require.NoError(t, err)
		require.Equal(t, types.ResumeState("abc"), again.State)
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := NewMemory()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		require.ErrorIs(t, store.Save(cctx, "step", "p0", types.Checkpoint{}), context.Canceled)
		_, _, err := store.Load(cctx, "step", "p0")
		require.ErrorIs(t, err, context.Canceled)
	})
}
