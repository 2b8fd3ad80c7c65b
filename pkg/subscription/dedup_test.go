package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqstart/eduedu/pkg/subscription"
)

func TestMemoryDeduplicator(t *testing.T) {
	t.Parallel()

	t.Run("unseen then marked", func(t *testing.T) {
		t.Parallel()
		d := subscription.NewMemoryDeduplicator(time.Minute)
		ctx := context.Background()

		seen, err := d.Seen(ctx, "evt_1")
		require.NoError(t, err)
		assert.False(t, seen)

		require.NoError(t, d.Mark(ctx, "evt_1"))

		seen, err = d.Seen(ctx, "evt_1")
		require.NoError(t, err)
		assert.True(t, seen)

		seen, err = d.Seen(ctx, "evt_2")
		require.NoError(t, err)
		assert.False(t, seen)
	})

	t.Run("entries expire", func(t *testing.T) {
		t.Parallel()
		d := subscription.NewMemoryDeduplicator(10 * time.Millisecond)
		ctx := context.Background()

		require.NoError(t, d.Mark(ctx, "evt_1"))
		time.Sleep(25 * time.Millisecond)

		seen, err := d.Seen(ctx, "evt_1")
		require.NoError(t, err)
		assert.False(t, seen)
	})
}

func TestNewRedisDeduplicator_PanicsOnNilClient(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		subscription.NewRedisDeduplicator(nil, time.Hour)
	})
}
