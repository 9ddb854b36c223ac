package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscout/adscout/pkg/logger"
)

func TestNewRefresher_RejectsSubSecondInterval(t *testing.T) {
	t.Parallel()

	_, err := NewRefresher(func(context.Context) error { return nil }, 100*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1s minimum")
}

func TestRefresher_RunsImmediatelyOnStart(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	r, err := NewRefresher(func(context.Context) error {
		runs.Add(1)
		return nil
	}, time.Hour, WithRefresherLogger(logger.Discard()))
	require.NoError(t, err)

	require.NoError(t, r.Start())
	defer r.Stop()

	assert.Equal(t, int64(1), runs.Load(), "first refresh runs before Start returns")
	assert.Equal(t, 1, r.Entries())
}

func TestRefresher_StartTwiceFails(t *testing.T) {
	t.Parallel()

	r, err := NewRefresher(func(context.Context) error { return nil },
		time.Hour, WithRefresherLogger(logger.Discard()))
	require.NoError(t, err)

	require.NoError(t, r.Start())
	defer r.Stop()

	assert.Error(t, r.Start())
}

func TestRefresher_StopPreventsFurtherRuns(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	r, err := NewRefresher(func(context.Context) error {
		runs.Add(1)
		return nil
	}, time.Second, WithRefresherLogger(logger.Discard()))
	require.NoError(t, err)

	require.NoError(t, r.Start())
	r.Stop()

	got := runs.Load()
	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, got, runs.Load())
}

func TestRefresher_StopCancelsRefreshContext(t *testing.T) {
	t.Parallel()

	ctxErr := make(chan error, 1)
	first := true
	r, err := NewRefresher(func(ctx context.Context) error {
		if first {
			first = false
			return nil
		}
		<-ctx.Done()
		ctxErr <- ctx.Err()
		return ctx.Err()
	}, time.Hour, WithRefresherLogger(logger.Discard()))
	require.NoError(t, err)

	require.NoError(t, r.Start())
	r.Stop()

	select {
	case err := <-ctxErr:
		assert.ErrorIs(t, err, context.Canceled)
	default:
		// the periodic job never ran before Stop, which is also fine
	}
}

func TestRefresher_ErrorDoesNotStopSchedule(t *testing.T) {
	t.Parallel()

	var runs atomic.Int64
	r, err := NewRefresher(func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}, time.Second, WithRefresherLogger(logger.Discard()))
	require.NoError(t, err)

	require.NoError(t, r.Start())
	defer r.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 3*time.Second, 20*time.Millisecond)
}
