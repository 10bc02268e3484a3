package dispatch

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_RunsOnWorker(t *testing.T) {
	ctx := context.Background()
	d := New(ctx, zerolog.Nop())
	defer d.Shutdown()

	var ran bool
	err := d.Submit(ctx, func() { ran = true })
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestSubmit_SerializesConcurrentCallers(t *testing.T) {
	ctx := context.Background()
	d := New(ctx, zerolog.Nop())
	defer d.Shutdown()

	var counter int64
	var maxObserved int64

	const n = 50
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			errs <- d.Submit(ctx, func() {
				cur := atomic.AddInt64(&counter, 1)
				if cur > atomic.LoadInt64(&maxObserved) {
					atomic.StoreInt64(&maxObserved, cur)
				}
				atomic.AddInt64(&counter, -1)
			})
		}()
	}

	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	assert.Equal(t, int64(1), maxObserved)
}

func TestSubmit_AfterShutdownReturnsErrClosed(t *testing.T) {
	ctx := context.Background()
	d := New(ctx, zerolog.Nop())
	require.NoError(t, d.Shutdown())

	err := d.Submit(ctx, func() {})
	assert.ErrorIs(t, err, ErrClosed)
}
