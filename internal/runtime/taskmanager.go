package runtime

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusRunning  TaskStatus = "running"
	TaskStatusStopped  TaskStatus = "stopped"
	TaskStatusFailed   TaskStatus = "failed"
	TaskStatusCanceled TaskStatus = "canceled"
)

// Task is a snapshot of one supervised goroutine.
type Task struct {
	Name      string     `json:"name"`
	StartTime time.Time  `json:"start_time"`
	Status    TaskStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
}

// TaskFunc runs until ctx is canceled or its work is done.
type TaskFunc func(ctx context.Context) error

// TaskManager supervises the long-running goroutines of the server process
// (HTTP listener, storage probe) and stops them together.
type TaskManager struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	failed chan string
}

// NewTaskManager creates a manager whose tasks derive from ctx.
func NewTaskManager(ctx context.Context) *TaskManager {
	ctx, cancel := context.WithCancel(ctx)
	return &TaskManager{
		tasks:  make(map[string]*Task),
		ctx:    ctx,
		cancel: cancel,
		failed: make(chan string, 8),
	}
}

// Start runs fn in a goroutine under name. Names are unique.
func (tm *TaskManager) Start(name string, fn TaskFunc) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if _, exists := tm.tasks[name]; exists {
		return fmt.Errorf("task %s already exists", name)
	}
	task := &Task{Name: name, StartTime: time.Now(), Status: TaskStatusRunning}
	tm.tasks[name] = task

	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			tm.finish(task, err)
		}()
		log.WithField("task", name).Debug("task started")
		err = fn(tm.ctx)
	}()
	return nil
}

func (tm *TaskManager) finish(task *Task, err error) {
	tm.mu.Lock()
	switch {
	case err == nil:
		task.Status = TaskStatusStopped
	case errors.Is(err, context.Canceled) || tm.ctx.Err() != nil:
		task.Status = TaskStatusCanceled
	default:
		task.Status = TaskStatusFailed
		task.Error = err.Error()
	}
	status := task.Status
	tm.mu.Unlock()

	entry := log.WithField("task", task.Name)
	if status == TaskStatusFailed {
		entry.WithField("error", task.Error).Error("task failed")
		select {
		case tm.failed <- task.Name:
		default:
		}
		return
	}
	entry.WithField("status", status).Debug("task finished")
}

// StartPeriodic runs fn immediately and then every interval. Errors are logged
// and do not stop the loop.
func (tm *TaskManager) StartPeriodic(name string, interval time.Duration, fn TaskFunc) error {
	if interval <= 0 {
		return fmt.Errorf("task %s: interval must be positive", name)
	}
	return tm.Start(name, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				log.WithFields(log.Fields{"task": name, "error": err}).Warn("periodic task execution failed")
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

// Failed delivers the name of each task that returned an error.
func (tm *TaskManager) Failed() <-chan string { return tm.failed }

// StopAll cancels every task and waits up to the deadline of ctx.
func (tm *TaskManager) StopAll(ctx context.Context) error {
	tm.cancel()
	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListTasks returns a snapshot of all tasks sorted by name.
func (tm *TaskManager) ListTasks() []Task {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	out := make([]Task, 0, len(tm.tasks))
	for _, t := range tm.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
