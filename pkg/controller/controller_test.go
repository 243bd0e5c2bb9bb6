package controller_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/logstate/pkg/controller"
	"github.com/aretw0/logstate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestStart_FromFresh(t *testing.T) {
	c := controller.New()

	res, err := c.Start("/x")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, domain.MsgStarted, res.Message)
	assert.Equal(t, ptr("/x"), res.Path)
	assert.Nil(t, res.PreviousPath)
	assert.True(t, res.Active)
}

func TestStart_SamePathIsIdempotent(t *testing.T) {
	c := controller.New()

	first, err := c.Start("/p")
	require.NoError(t, err)
	second, err := c.Start("/p")
	require.NoError(t, err)

	assert.True(t, first.Success)
	assert.False(t, second.Success)
	assert.Equal(t, domain.MsgAlreadyLogging, second.Message)
	assert.Equal(t, first.Snapshot, second.Snapshot)

	rec, err := c.Diagnostics()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rec.CallCount)
}

func TestStart_TracksPreviousPath(t *testing.T) {
	c := controller.New()

	_, err := c.Start("/a")
	require.NoError(t, err)
	res, err := c.Start("/b")
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, ptr("/b"), res.Path)
	assert.Equal(t, ptr("/a"), res.PreviousPath)
	assert.True(t, res.Active)
}

func TestStart_SamePathAfterStopRestarts(t *testing.T) {
	c := controller.New()

	_, err := c.Start("/a")
	require.NoError(t, err)
	_, err = c.Stop()
	require.NoError(t, err)

	res, err := c.Start("/a")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.MsgStarted, res.Message)
	assert.Equal(t, ptr("/a"), res.Path)
	// Stop cleared the path, so nothing new is moved into PreviousPath.
	assert.Equal(t, ptr("/a"), res.PreviousPath)
}

func TestStart_EmptyPathIsAPath(t *testing.T) {
	c := controller.New()

	res, err := c.Start("")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, ptr(""), res.Path)

	res, err = c.Start("")
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestStop_WhenInactive(t *testing.T) {
	c := controller.New()

	res, err := c.Stop()
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, domain.MsgNotActive, res.Message)
	assert.False(t, res.Active)
	assert.Nil(t, res.Path)
	assert.Nil(t, res.PreviousPath)
}

func TestStatus_IsPureRead(t *testing.T) {
	c := controller.New()
	_, err := c.Start("/s")
	require.NoError(t, err)

	var last domain.Result
	for i := 0; i < 5; i++ {
		res, err := c.Status()
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, domain.MsgActive, res.Message)
		if i > 0 {
			assert.Equal(t, last.Snapshot, res.Snapshot)
		}
		last = res

		rec, err := c.Diagnostics()
		require.NoError(t, err)
		assert.Equal(t, uint64(i+2), rec.CallCount)
	}
}

func TestStatus_Idle(t *testing.T) {
	res, err := controller.New().Status()
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, domain.MsgIdle, res.Message)
}

func TestEndToEnd(t *testing.T) {
	c := controller.New()

	res, err := c.Start("/x")
	require.NoError(t, err)
	assert.Equal(t, domain.Result{
		Snapshot: domain.Snapshot{Path: ptr("/x"), Active: true},
		Success:  true,
		Message:  domain.MsgStarted,
	}, res)

	res, err = c.Stop()
	require.NoError(t, err)
	assert.Equal(t, domain.Result{
		Snapshot: domain.Snapshot{PreviousPath: ptr("/x")},
		Success:  true,
		Message:  domain.MsgStopped,
	}, res)

	res, err = c.Stop()
	require.NoError(t, err)
	assert.Equal(t, domain.Result{
		Snapshot: domain.Snapshot{PreviousPath: ptr("/x")},
		Success:  false,
		Message:  domain.MsgNotActive,
	}, res)
}

func TestCallCount_CountsEveryOperation(t *testing.T) {
	c := controller.New()
	ops := []func() (domain.Result, error){
		func() (domain.Result, error) { return c.Start("/a") },
		c.Status,
		func() (domain.Result, error) { return c.Start("/a") },
		c.Stop,
		c.Stop,
		c.Status,
		func() (domain.Result, error) { return c.Start("/b") },
	}
	for _, op := range ops {
		_, err := op()
		require.NoError(t, err)
	}

	rec, err := c.Diagnostics()
	require.NoError(t, err)
	assert.Equal(t, uint64(len(ops)), rec.CallCount)

	// Diagnostics itself is not a call.
	rec, err = c.Diagnostics()
	require.NoError(t, err)
	assert.Equal(t, uint64(len(ops)), rec.CallCount)
}

func TestHooks_ReceiveEvents(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var events []domain.TransitionEvent

	c := controller.New(
		controller.WithClock(func() time.Time { return fixed }),
		controller.WithHooks(domain.Hooks{
			OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
				events = append(events, *e)
			},
		}),
	)

	_, err := c.Start("/h")
	require.NoError(t, err)
	_, err = c.Stop()
	require.NoError(t, err)
	_, err = c.Status()
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, domain.OpStart, events[0].Operation)
	assert.Equal(t, "/h", events[0].Path)
	assert.Equal(t, uint64(1), events[0].Seq)
	assert.True(t, events[0].Changed())
	assert.Equal(t, fixed, events[0].Timestamp)
	assert.NotEmpty(t, events[0].ID)

	assert.Equal(t, domain.OpStop, events[1].Operation)
	assert.Equal(t, uint64(2), events[1].Seq)

	assert.Equal(t, domain.OpStatus, events[2].Operation)
	assert.False(t, events[2].Changed())
	assert.NotEqual(t, events[0].ID, events[2].ID)
}

func TestConcurrentCalls(t *testing.T) {
	c := controller.New()
	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				var res domain.Result
				var err error
				switch i % 3 {
				case 0:
					res, err = c.Start([]string{"/a", "/b"}[w%2])
				case 1:
					res, err = c.Stop()
				default:
					res, err = c.Status()
				}
				assert.NoError(t, err)
				// A snapshot is never torn: active implies a path, inactive implies none.
				assert.Equal(t, res.Active, res.Path != nil)
			}
		}(w)
	}
	wg.Wait()

	rec, err := c.Diagnostics()
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*perWorker), rec.CallCount)
}
