package checkpoint

import (
	"bytes"
	"context"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/intake/types"
)

// Memory is an in-process checkpoint store.
//
// It is safe for concurrent use. State bytes are copied on Save and on Load
// so callers and partitions never share buffers with the store.
type Memory struct {
	entries *xsync.Map[memoryKey, types.Checkpoint]
}

type memoryKey struct {
	step string
	key  string
}

var _ types.CheckpointStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: xsync.NewMap[memoryKey, types.Checkpoint]()}
}

// Load returns the latest checkpoint of a partition.
func (m *Memory) Load(ctx context.Context, stepID, key string) (types.Checkpoint, bool, error) {
	if err := ctx.Err(); err != nil {
		return types.Checkpoint{}, false, err
	}

	cp, ok := m.entries.Load(memoryKey{step: stepID, key: key})
	if !ok {
		return types.Checkpoint{}, false, nil
	}
	cp.State = bytes.Clone(cp.State)

	return cp, true, nil
}

// Save stores the checkpoint of a partition, replacing any earlier one.
func (m *Memory) Save(ctx context.Context, stepID, key string, cp types.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cp.State = bytes.Clone(cp.State)
	m.entries.Store(memoryKey{step: stepID, key: key}, cp)

	return nil
}

// Len returns the number of stored checkpoints.
func (m *Memory) Len() int {
	return m.entries.Size()
}
