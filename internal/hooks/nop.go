// Package hooks provides default runner hook implementations.
package hooks

import (
	"context"

	"github.com/arloliu/intake/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, string, bool) error = (*NopHooks)(nil).OnPartitionBuilt
	_ func(context.Context, string) error       = (*NopHooks)(nil).OnPartitionExhausted
	_ func(context.Context, error) error        = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnPartitionBuilt:     h.OnPartitionBuilt,
		OnPartitionExhausted: h.OnPartitionExhausted,
		OnError:              h.OnError,
	}
}

// WithDefaults returns h with every nil callback replaced by a no-op.
func WithDefaults(h *types.Hooks) types.Hooks {
	out := NewNop()
	if h == nil {
		return out
	}
	if h.OnPartitionBuilt != nil {
		out.OnPartitionBuilt = h.OnPartitionBuilt
	}
	if h.OnPartitionExhausted != nil {
		out.OnPartitionExhausted = h.OnPartitionExhausted
	}
	if h.OnError != nil {
		out.OnError = h.OnError
	}

	return out
}

// OnPartitionBuilt is a no-op implementation.
func (h *NopHooks) OnPartitionBuilt(ctx context.Context, key string, resumed bool) error {
	return nil
}

// OnPartitionExhausted is a no-op implementation.
func (h *NopHooks) OnPartitionExhausted(ctx context.Context, key string) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
