package runtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartRejectsDuplicateNames(t *testing.T) {
	tm := NewTaskManager(context.Background())
	block := func(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }
	require.NoError(t, tm.Start("http", block))
	require.Error(t, tm.Start("http", block))
	require.NoError(t, tm.StopAll(context.Background()))

	tasks := tm.ListTasks()
	require.Len(t, tasks, 1)
	require.Equal(t, TaskStatusCanceled, tasks[0].Status)
}

func TestFailedTaskIsReported(t *testing.T) {
	tm := NewTaskManager(context.Background())
	require.NoError(t, tm.Start("listener", func(context.Context) error { return errors.New("bind: address in use") }))

	select {
	case name := <-tm.Failed():
		require.Equal(t, "listener", name)
	case <-time.After(time.Second):
		t.Fatal("failure not reported")
	}
	require.NoError(t, tm.StopAll(context.Background()))
	require.Equal(t, "bind: address in use", tm.ListTasks()[0].Error)
}

func TestPanicMarksTaskFailed(t *testing.T) {
	tm := NewTaskManager(context.Background())
	require.NoError(t, tm.Start("boom", func(context.Context) error { panic("oops") }))
	<-tm.Failed()
	require.NoError(t, tm.StopAll(context.Background()))
	task := tm.ListTasks()[0]
	require.Equal(t, TaskStatusFailed, task.Status)
	require.Contains(t, task.Error, "oops")
}

func TestStartPeriodicRunsImmediatelyAndRepeats(t *testing.T) {
	tm := NewTaskManager(context.Background())
	var runs atomic.Int32
	require.NoError(t, tm.StartPeriodic("probe", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("ignored")
	}))
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, tm.StopAll(context.Background()))
	require.Equal(t, TaskStatusCanceled, tm.ListTasks()[0].Status)
}

func TestStartPeriodicRejectsZeroInterval(t *testing.T) {
	tm := NewTaskManager(context.Background())
	require.Error(t, tm.StartPeriodic("probe", 0, func(context.Context) error { return nil }))
}

func TestStopAllHonorsDeadline(t *testing.T) {
	tm := NewTaskManager(context.Background())
	release := make(chan struct{})
	defer close(release)
	require.NoError(t, tm.Start("stuck", func(context.Context) error { <-release; return nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, tm.StopAll(ctx), context.DeadlineExceeded)
}
