package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/intake/types"
)

// tickingSeq produces 0..n-1, one item every interval, then ErrExhausted.
type tickingSeq struct {
	n         int
	interval  time.Duration
	next      atomic.Int32
	calls     atomic.Int32
	cancelled atomic.Int32
}

func (s *tickingSeq) Next(ctx context.Context) (int, error) {
	s.calls.Add(1)
	i := int(s.next.Load())
	if i >= s.n {
		return 0, types.ErrExhausted
	}

	select {
	case <-time.After(s.interval):
		s.next.Add(1)
		return i, nil
	case <-ctx.Done():
		s.cancelled.Add(1)
		return 0, ctx.Err()
	}
}

func TestFromAsync_PreservesInFlightItems(t *testing.T) {
	t.Parallel()

	seq := &tickingSeq{n: 6, interval: 150 * time.Millisecond}
	b := FromAsync[int](t.Context(), seq, 100*time.Millisecond, 5)
	defer b.Close()

	var got []int
	sawEmpty := false
	for range 100 {
		next, err := b.Next()
		require.NoError(t, err)
		if next.Exhausted() {
			break
		}
		require.LessOrEqual(t, next.Len(), 1, "one item per 150ms cannot fill more than one slot in 100ms")
		if next.Len() == 0 {
			sawEmpty = true
		}
		got = append(got, next.Items...)
	}

	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
	require.True(t, sawEmpty, "timeouts should have produced empty batches")
	require.Zero(t, seq.cancelled.Load(), "a timeout must not cancel the in-flight fetch")
	require.Equal(t, int32(7), seq.calls.Load(), "each item is fetched exactly once")
}

func TestFromAsync_EndOfStream(t *testing.T) {
	t.Parallel()

	t.Run("partial batch first, then exhaustion", func(t *testing.T) {
		seq := &tickingSeq{n: 3, interval: time.Millisecond}
		b := FromAsync[int](t.Context(), seq, time.Second, 5)

		next, err := b.Next()
		require.NoError(t, err)
		require.Equal(t, []int{0, 1, 2}, next.Items)

		next, err = b.Next()
		require.NoError(t, err)
		require.True(t, next.Exhausted())
	})

	t.Run("empty batch reports exhaustion immediately", func(t *testing.T) {
		seq := &tickingSeq{n: 0}
		b := FromAsync[int](t.Context(), seq, time.Second, 5)

		next, err := b.Next()
		require.NoError(t, err)
		require.True(t, next.Exhausted())
	})

	t.Run("full batch does not wait for the timeout", func(t *testing.T) {
		seq := &tickingSeq{n: 10, interval: time.Millisecond}
		b := FromAsync[int](t.Context(), seq, 5*time.Second, 2)

		start := time.Now()
		next, err := b.Next()
		require.NoError(t, err)
		require.Equal(t, []int{0, 1}, next.Items)
		require.Less(t, time.Since(start), time.Second)
	})
}

func TestFromAsync_Errors(t *testing.T) {
	t.Parallel()

	t.Run("failure after items is delivered on the next call", func(t *testing.T) {
		boom := errors.New("stream reset")
		n := 0
		seq := AsyncSeqFunc[int](func(context.Context) (int, error) {
			n++
			if n > 2 {
				return 0, boom
			}
			return n, nil
		})
		b := FromAsync[int](t.Context(), seq, time.Second, 10)

		next, err := b.Next()
		require.NoError(t, err)
		require.Equal(t, []int{1, 2}, next.Items)

		_, err = b.Next()
		require.ErrorIs(t, err, boom)
	})

	t.Run("cancelled execution context surfaces as error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		seq := AsyncSeqFunc[int](func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
		b := FromAsync[int](ctx, seq, time.Second, 10)

		cancel()
		_, err := b.Next()
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestFromAsync_ZeroTimeoutDoesNotWait(t *testing.T) {
	t.Parallel()

	released := make(chan struct{})
	seq := AsyncSeqFunc[int](func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(released)
		return 0, ctx.Err()
	})
	b := FromAsync[int](t.Context(), seq, 0, 10)

	start := time.Now()
	next, err := b.Next()
	require.NoError(t, err)
	require.Equal(t, types.BatchEmpty, next.Status())
	require.Less(t, time.Since(start), 100*time.Millisecond)

	require.NoError(t, b.Close())
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Close should cancel the in-flight fetch")
	}

	next, err = b.Next()
	require.NoError(t, err)
	require.True(t, next.Exhausted())
}

func TestFromAsync_WithExecutor(t *testing.T) {
	t.Parallel()

	var launched atomic.Int32
	exec := ExecutorFunc(func(task func()) {
		launched.Add(1)
		go task()
	})

	seq := &tickingSeq{n: 2, interval: time.Millisecond}
	b := FromAsync[int](t.Context(), seq, time.Second, 10, WithExecutor(exec))

	next, err := b.Next()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, next.Items)
	require.Equal(t, int32(3), launched.Load())
}
