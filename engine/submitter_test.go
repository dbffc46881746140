package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eventmesh/channel"
	"github.com/hupe1980/eventmesh/logging"
)

func TestSubmitterDeliversToReceivers(t *testing.T) {
	actions := channel.New[string](4)
	rcv, err := actions.Subscribe()
	require.NoError(t, err)

	sub := newChannelSubmitter(actions, "test-strategy", logging.NoOpLogger{})

	sub.Submit("fire-and-forget")
	res := sub.SubmitAsync("checked")
	assert.True(t, res.Success)
	assert.NoError(t, res.Err)
	assert.True(t, sub.TrySubmit("best-effort"))

	ctx := context.Background()
	for _, want := range []string{"fire-and-forget", "checked", "best-effort"} {
		got, err := rcv.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSubmitterOnClosedChannel(t *testing.T) {
	actions := channel.New[string](4)
	actions.Close()

	sub := newChannelSubmitter(actions, "test-strategy", logging.NoOpLogger{})

	// Submit swallows the failure so a strategy never crashes on shutdown.
	sub.Submit("dropped")

	res := sub.SubmitAsync("dropped")
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, channel.ErrClosed)

	assert.False(t, sub.TrySubmit("dropped"))
}
