package natsutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "timeout", err: nats.ErrTimeout, want: true},
		{name: "wrapped disconnect", err: fmt.Errorf("put: %w", nats.ErrDisconnected), want: true},
		{name: "no stream response", err: jetstream.ErrNoStreamResponse, want: true},
		{name: "refused by text", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "canceled", err: context.Canceled, want: false},
		{name: "bucket missing", err: jetstream.ErrBucketNotFound, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsConnectivityError(t *testing.T) {
	require.False(t, IsConnectivityError(nil))
	require.True(t, IsConnectivityError(nats.ErrNoServers))
	require.True(t, IsConnectivityError(errors.New("read: i/o timeout")))
	require.False(t, IsConnectivityError(jetstream.ErrKeyNotFound))
}
