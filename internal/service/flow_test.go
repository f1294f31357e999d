package service

import (
	"context"
	"testing"
	"time"

	"ai_authoring_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowLifecycle(t *testing.T) {
	f := NewFlow[string]()
	assert.Equal(t, FlowIdle, f.State())

	require.NoError(t, f.Begin())
	assert.Equal(t, FlowSubmitting, f.State())
	assert.ErrorIs(t, f.Begin(), util.ErrSubmissionInProgress)

	f.Succeed("first")
	snap := f.Snapshot()
	assert.Equal(t, FlowSuccess, snap.State)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "first", *snap.Result)

	require.NoError(t, f.Begin())
	f.Fail(errBoom)
	snap = f.Snapshot()
	assert.Equal(t, FlowIdle, snap.State)
	assert.Equal(t, "boom", snap.Error)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "first", *snap.Result, "failure keeps the last good result")

	require.NoError(t, f.Begin())
	f.Succeed("second")
	assert.Empty(t, f.Snapshot().Error)
	r, ok := f.Result()
	assert.True(t, ok)
	assert.Equal(t, "second", r)

	f.Reset()
	_, ok = f.Result()
	assert.False(t, ok)
}

func TestFlowResultReplacedNotMerged(t *testing.T) {
	f := NewFlow[[]int]()
	require.NoError(t, f.Begin())
	f.Succeed([]int{1, 2, 3})
	require.NoError(t, f.Begin())
	f.Succeed([]int{9})

	r, _ := f.Result()
	assert.Equal(t, []int{9}, r)
}

func TestRunFlowRejectsConcurrentSubmission(t *testing.T) {
	f := NewFlow[int]()
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := runFlow(context.Background(), f, "test", "slow", "sid", func(context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- err
	}()

	<-started
	_, err := runFlow(context.Background(), f, "test", "fast", "sid", func(context.Context) (int, error) {
		return 2, nil
	})
	assert.ErrorIs(t, err, util.ErrSubmissionInProgress)

	close(release)
	require.NoError(t, <-done)
	r, _ := f.Result()
	assert.Equal(t, 1, r)
}

func TestPageRegistryIsolatesSessions(t *testing.T) {
	reg := NewPageRegistry(func() *QuizPage { return newQuizPage() })
	a := reg.Get("a")
	b := reg.Get("b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, reg.Get("a"))
	assert.Equal(t, 2, reg.Len())

	reg.Drop("a")
	_, ok := reg.Peek("a")
	assert.False(t, ok)

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, reg.Sweep(time.Millisecond))
	assert.Equal(t, 0, reg.Len())
}

func TestSimulatorBetweenStaysInRange(t *testing.T) {
	sim := newTestSimulator()
	for _, maxScore := range []float64{5, 7, 10, 15, 20, 3.5} {
		for i := 0; i < 200; i++ {
			v := sim.Between(0.6*maxScore, maxScore)
			assert.GreaterOrEqual(t, v, 0.6*maxScore)
			assert.LessOrEqual(t, v, maxScore)
		}
	}
}
