package intake

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/intake/batch"
	"github.com/arloliu/intake/checkpoint"
	"github.com/arloliu/intake/source"
	"github.com/arloliu/intake/types"
)

// pacedPartition emits one item per poll and asks to be polled again after pace.
type pacedPartition struct {
	items         []int
	offset        int
	pace          time.Duration
	awake         time.Time
	failAt        int // offset at which NextBatch fails, -1 for never
	exhausted     bool
	pollsAfterEnd int
	closes        int
}

func (p *pacedPartition) NextBatch() (types.Batch[int], error) {
	if p.exhausted {
		p.pollsAfterEnd++
	}
	if p.offset == p.failAt {
		return types.Batch[int]{}, errBoom
	}
	if p.offset >= len(p.items) {
		p.exhausted = true
		return types.ExhaustedBatch[int](), nil
	}

	b := types.NewBatch(p.items[p.offset])
	p.offset++
	p.awake = time.Now().Add(p.pace)

	return b, nil
}

func (p *pacedPartition) NextAwake() time.Time { return p.awake }

func (p *pacedPartition) Snapshot() (types.ResumeState, error) {
	return types.ResumeState(strconv.Itoa(p.offset)), nil
}

func (p *pacedPartition) Close() error {
	p.closes++
	return nil
}

type pacedSource struct {
	keys   []string
	size   int
	pace   time.Duration
	failAt int
	built  map[string]*pacedPartition
}

func newPacedSource(size int, pace time.Duration, keys ...string) *pacedSource {
	return &pacedSource{keys: keys, size: size, pace: pace, failAt: -1, built: map[string]*pacedPartition{}}
}

func (s *pacedSource) ListParts(context.Context) ([]string, error) { return s.keys, nil }

func (s *pacedSource) BuildPart(_ context.Context, key string, resume types.ResumeState) (types.StatefulPartition[int], error) {
	offset := 0
	if resume != nil {
		n, err := strconv.Atoi(string(resume))
		if err != nil {
			return nil, types.ErrInvalidResumeState
		}
		offset = n
	}

	items := make([]int, s.size)
	for i := range items {
		items[i] = i
	}

	p := &pacedPartition{items: items, offset: offset, pace: s.pace, failAt: s.failAt}
	s.built[key] = p

	return p, nil
}

var errBoom = errors.New("boom")

type collector struct {
	items map[string][]int
	total int
}

func newCollector() *collector {
	return &collector{items: map[string][]int{}}
}

func (c *collector) sink(_ context.Context, key string, items []int) error {
	c.items[key] = append(c.items[key], items...)
	c.total += len(items)

	return nil
}

func TestNewRunner_Validation(t *testing.T) {
	src := source.NewStatic(map[string][]int{"p": {1}}, 0)
	sink := newCollector().sink

	_, err := NewFixedRunner[int](TestConfig(), nil, sink)
	require.ErrorIs(t, err, ErrSourceRequired)

	_, err = NewFixedRunner[int](TestConfig(), src, nil)
	require.ErrorIs(t, err, ErrSinkRequired)

	_, err = NewDynamicRunner[int](TestConfig(), nil, sink)
	require.ErrorIs(t, err, ErrSourceRequired)

	cfg := TestConfig()
	cfg.WorkerIndex = 3
	_, err = NewFixedRunner[int](cfg, src, sink)
	require.ErrorIs(t, err, ErrInvalidWorker)
}

func TestRunner_DrainsFixedSource(t *testing.T) {
	src := source.NewStatic(map[string][]int{
		"a": {1, 2, 3, 4, 5},
		"b": {10, 20},
		"c": nil,
	}, 2)
	col := newCollector()
	store := checkpoint.NewMemory()

	var built, exhausted []string
	hooks := &Hooks{
		OnPartitionBuilt: func(_ context.Context, key string, resumed bool) error {
			require.False(t, resumed)
			built = append(built, key)
			return nil
		},
		OnPartitionExhausted: func(_ context.Context, key string) error {
			exhausted = append(exhausted, key)
			return nil
		},
	}

	runner, err := NewFixedRunner[int](TestConfig(), src, col.sink, WithCheckpointStore(store), WithHooks(hooks))
	require.NoError(t, err)
	require.NoError(t, runner.Run(t.Context()))

	require.Equal(t, []int{1, 2, 3, 4, 5}, col.items["a"])
	require.Equal(t, []int{10, 20}, col.items["b"])
	require.Empty(t, col.items["c"])
	require.ElementsMatch(t, []string{"a", "b", "c"}, built)
	require.ElementsMatch(t, []string{"a", "b", "c"}, exhausted)

	// Exhausted partitions leave their end position behind.
	cp, found, err := store.Load(t.Context(), "test", "a")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, ResumeState("5"), cp.State)

	t.Run("resumed run reads nothing", func(t *testing.T) {
		again := newCollector()
		runner, err := NewFixedRunner[int](TestConfig(), src, again.sink, WithCheckpointStore(store))
		require.NoError(t, err)
		require.NoError(t, runner.Run(t.Context()))
		require.Zero(t, again.total)
	})
}

func TestRunner_ExactlyOnceResume(t *testing.T) {
	store := checkpoint.NewMemory()
	const total = 200

	// First execution: stop after 40 items, well past the first epoch boundary.
	ctx, cancel := context.WithCancel(t.Context())
	first := newCollector()
	firstSrc := newPacedSource(total, 5*time.Millisecond, "p")
	runner, err := NewFixedRunner[int](TestConfig(), firstSrc, func(ctx context.Context, key string, items []int) error {
		_ = first.sink(ctx, key, items)
		if first.total >= 40 {
			cancel()
		}
		return nil
	}, WithCheckpointStore(store))
	require.NoError(t, err)

	err = runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, firstSrc.built["p"].closes, "aborted runs don't close partitions")

	cp, found, err := store.Load(t.Context(), "test", "p")
	require.NoError(t, err)
	require.True(t, found, "at least one epoch snapshot was saved")
	offset, err := strconv.Atoi(string(cp.State))
	require.NoError(t, err)
	require.Positive(t, offset)
	require.LessOrEqual(t, offset, first.total)

	// Second execution resumes right after the last snapshotted item.
	second := newCollector()
	secondSrc := newPacedSource(total, 0, "p")
	runner, err = NewFixedRunner[int](TestConfig(), secondSrc, second.sink, WithCheckpointStore(store))
	require.NoError(t, err)
	require.NoError(t, runner.Run(t.Context()))
	require.Greater(t, runner.Epoch(), cp.Epoch)

	require.Equal(t, first.items["p"][:offset], secondSrc.built["p"].items[:offset])
	require.Equal(t, offset, second.items["p"][0], "resume starts after the snapshot, never at it")
	require.Len(t, second.items["p"], total-offset)
}

func TestRunner_ExhaustionShape(t *testing.T) {
	src := newPacedSource(3, 0, "a", "b")
	runner, err := NewFixedRunner[int](TestConfig(), src, newCollector().sink)
	require.NoError(t, err)
	require.NoError(t, runner.Run(t.Context()))

	for key, p := range src.built {
		require.Equal(t, 1, p.closes, "partition %s closed exactly once", key)
		require.Zero(t, p.pollsAfterEnd, "partition %s polled after exhaustion", key)
	}
}

// idlePartition returns empty batches, then exhausts. It gives no awake hint.
type idlePartition struct {
	empties int
	polls   []time.Time
}

func (p *idlePartition) NextBatch() (types.Batch[int], error) {
	p.polls = append(p.polls, time.Now())
	if len(p.polls) > p.empties {
		return types.ExhaustedBatch[int](), nil
	}

	return types.EmptyBatch[int](), nil
}

func (p *idlePartition) Snapshot() (types.ResumeState, error) { return nil, nil }

type idleSource struct{ part *idlePartition }

func (s *idleSource) ListParts(context.Context) ([]string, error) { return []string{"idle"}, nil }

func (s *idleSource) BuildPart(context.Context, string, types.ResumeState) (types.StatefulPartition[int], error) {
	return s.part, nil
}

func TestRunner_NoBusySpin(t *testing.T) {
	part := &idlePartition{empties: 10}
	runner, err := NewFixedRunner[int](TestConfig(), &idleSource{part: part}, newCollector().sink)
	require.NoError(t, err)
	require.NoError(t, runner.Run(t.Context()))

	require.Len(t, part.polls, 11)
	for i := 1; i < len(part.polls); i++ {
		require.GreaterOrEqual(t, part.polls[i].Sub(part.polls[i-1]), DefaultIdleDelay)
	}
}

func TestRunner_Aborts(t *testing.T) {
	t.Run("partition error", func(t *testing.T) {
		src := newPacedSource(10, 0, "p")
		src.failAt = 4

		runner, err := NewFixedRunner[int](TestConfig(), src, newCollector().sink)
		require.NoError(t, err)

		err = runner.Run(t.Context())
		require.ErrorIs(t, err, errBoom)
		require.Zero(t, src.built["p"].closes)
	})

	t.Run("sink error", func(t *testing.T) {
		src := newPacedSource(10, 0, "p")
		runner, err := NewFixedRunner[int](TestConfig(), src, func(context.Context, string, []int) error {
			return errBoom
		})
		require.NoError(t, err)

		err = runner.Run(t.Context())
		require.ErrorIs(t, err, errBoom)
		require.Zero(t, src.built["p"].closes)
	})

	t.Run("build error", func(t *testing.T) {
		src := source.NewStatic(map[string][]int{"p": {1}}, 0)
		store := checkpoint.NewMemory()
		require.NoError(t, store.Save(t.Context(), "test", "p", Checkpoint{Epoch: 1, State: ResumeState("garbage")}))

		runner, err := NewFixedRunner[int](TestConfig(), src, newCollector().sink, WithCheckpointStore(store))
		require.NoError(t, err)
		require.ErrorIs(t, runner.Run(t.Context()), ErrInvalidResumeState)
	})

	t.Run("duplicate keys", func(t *testing.T) {
		src := newPacedSource(1, 0, "p", "p")
		runner, err := NewFixedRunner[int](TestConfig(), src, newCollector().sink)
		require.NoError(t, err)
		require.ErrorIs(t, runner.Run(t.Context()), ErrDuplicatePartition)
	})
}

func TestRunner_ContextCancel(t *testing.T) {
	src := newPacedSource(1000, 10*time.Millisecond, "p")
	runner, err := NewFixedRunner[int](TestConfig(), src, newCollector().sink)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	err = runner.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Zero(t, src.built["p"].closes)
}

func TestRunner_RunOnce(t *testing.T) {
	src := source.NewStatic(map[string][]int{"p": {1}}, 0)
	runner, err := NewFixedRunner[int](TestConfig(), src, newCollector().sink)
	require.NoError(t, err)

	require.NoError(t, runner.Run(t.Context()))
	require.ErrorIs(t, runner.Run(t.Context()), ErrAlreadyStarted)
}

func TestRunner_SnapshotSaveFailureIsReported(t *testing.T) {
	var reported []error
	hooks := &Hooks{
		OnError: func(_ context.Context, err error) error {
			reported = append(reported, err)
			return nil
		},
	}

	src := newPacedSource(20, 5*time.Millisecond, "p")
	runner, err := NewFixedRunner[int](TestConfig(), src, newCollector().sink,
		WithCheckpointStore(failingStore{}), WithHooks(hooks))
	require.NoError(t, err)

	require.NoError(t, runner.Run(t.Context()), "save failures don't abort")
	require.NotEmpty(t, reported)
	require.ErrorIs(t, reported[0], errBoom)
}

type failingStore struct{}

func (failingStore) Load(context.Context, string, string) (Checkpoint, bool, error) {
	return Checkpoint{}, false, nil
}

func (failingStore) Save(context.Context, string, string, Checkpoint) error {
	return errBoom
}

func TestRunner_Dynamic(t *testing.T) {
	keys := make([]string, 40)
	for i := range keys {
		keys[i] = fmt.Sprintf("subject.%d", i)
	}
	src := source.NewSharded(keys, 0, func(_ context.Context, owned []string) (types.StatelessPartition[string], error) {
		return batch.NewPartition[string](batch.FromSlice(owned, 4), nil), nil
	})

	const workers = 3
	seen := make(map[string]bool)
	for w := range workers {
		cfg := TestConfig()
		cfg.WorkerIndex = w
		cfg.WorkerCount = workers

		var got []string
		runner, err := NewDynamicRunner[string](cfg, src, func(_ context.Context, key string, items []string) error {
			require.Equal(t, "worker-"+strconv.Itoa(w), key)
			got = append(got, items...)
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, runner.Run(t.Context()))

		for _, k := range got {
			require.False(t, seen[k], "key %s read twice", k)
			seen[k] = true
		}
	}

	require.Len(t, seen, len(keys))
}

func TestRunner_SimplePolling(t *testing.T) {
	ticks := 0
	src, err := source.NewSimplePolling(source.PollingConfig{Interval: 10 * time.Millisecond}, func() (int, error) {
		ticks++
		if ticks > 5 {
			return 0, ErrExhausted
		}
		return ticks, nil
	})
	require.NoError(t, err)

	col := newCollector()
	runner, err := NewFixedRunner[int](TestConfig(), src, col.sink)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, runner.Run(t.Context()))

	require.Equal(t, []int{1, 2, 3, 4, 5}, col.items[source.SingletonKey])
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond, "six polls span five intervals")
}
