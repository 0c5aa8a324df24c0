package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type plainPartition struct{}

func (plainPartition) NextBatch() (Batch[int], error) { return EmptyBatch[int](), nil }

type hintedPartition struct {
	plainPartition
	awake  time.Time
	closed int
}

func (p *hintedPartition) NextAwake() time.Time { return p.awake }

func (p *hintedPartition) Close() error {
	p.closed++
	return errors.New("close failed")
}

func TestNextAwake(t *testing.T) {
	t.Parallel()

	t.Run("zero when partition has no hint capability", func(t *testing.T) {
		require.True(t, NextAwake(plainPartition{}).IsZero())
	})

	t.Run("returns hint when implemented", func(t *testing.T) {
		at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		require.Equal(t, at, NextAwake(&hintedPartition{awake: at}))
	})
}

func TestClosePartition(t *testing.T) {
	t.Parallel()

	require.NoError(t, ClosePartition(plainPartition{}))

	p := &hintedPartition{}
	require.EqualError(t, ClosePartition(p), "close failed")
	require.Equal(t, 1, p.closed)
}

func TestResolveAwake(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	hint := now.Add(5 * time.Second)

	tests := []struct {
		name      string
		hint      time.Time
		lastEmpty bool
		idle      time.Duration
		want      time.Time
	}{
		{name: "hint wins after empty batch", hint: hint, lastEmpty: true, want: hint},
		{name: "hint wins after full batch", hint: hint, lastEmpty: false, want: hint},
		{name: "immediate after full batch", lastEmpty: false, want: now},
		{name: "default idle delay after empty batch", lastEmpty: true, want: now.Add(time.Millisecond)},
		{name: "custom idle delay", lastEmpty: true, idle: 20 * time.Millisecond, want: now.Add(20 * time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAwake(tt.hint, tt.lastEmpty, now, tt.idle)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("empty batch never polls before one millisecond", func(t *testing.T) {
		got := ResolveAwake(time.Time{}, true, now, 0)
		require.GreaterOrEqual(t, got.Sub(now), time.Millisecond)
	})
}
