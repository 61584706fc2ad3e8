package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tripsplit/internal/scheduler"
)

type recalcFunc func(ctx context.Context) (int, error)

func (f recalcFunc) RecalculateAll(ctx context.Context) (int, error) { return f(ctx) }

func TestNew_RejectsBadSpec(t *testing.T) {
	_, err := scheduler.New("every minute", recalcFunc(func(context.Context) (int, error) { return 0, nil }), time.Second)
	assert.Error(t, err)
}

func TestScheduler_Sweep(t *testing.T) {
	var calls atomic.Int32

	recalc := recalcFunc(func(ctx context.Context) (int, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)

		if calls.Add(1) == 2 {
			return 0, errors.New("db down")
		}

		return 3, nil
	})

	s, err := scheduler.New("0 0 3 * * *", recalc, time.Second)
	require.NoError(t, err)

	s.Sweep()
	s.Sweep()

	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	fired := make(chan struct{}, 1)

	recalc := recalcFunc(func(context.Context) (int, error) {
		select {
		case fired <- struct{}{}:
		default:
		}

		return 0, nil
	})

	s, err := scheduler.New("* * * * * *", recalc, time.Second)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("sweep did not run")
	}
}
