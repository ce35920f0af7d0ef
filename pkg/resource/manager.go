// Package resource runs the server's long-lived tasks and keeps an eye on
// memory use.
package resource

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-starcruiser/pkg/logging"
)

// Options configures a ResourceManager.
type Options struct {
	MaxMemoryMB     int64
	CheckInterval   time.Duration
	ShutdownTimeout time.Duration
}

// TaskError reports a task that returned an error or panicked.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// ResourceManager tracks the server's tasks, recovers their panics and
// samples memory use.
type ResourceManager struct {
	opts Options

	taskCount     atomic.Int64
	memoryUsageMB atomic.Int64
	lastCheck     atomic.Int64

	tasks  sync.WaitGroup
	failed chan *TaskError

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	running bool
	logger  *logging.Logger
}

// NewResourceManager creates a manager. Start begins memory sampling.
func NewResourceManager(opts Options, logger *logging.Logger) *ResourceManager {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ResourceManager{
		opts:   opts,
		failed: make(chan *TaskError, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: logger.With("component", "resource"),
	}
}

// Start begins the memory monitoring loop.
func (rm *ResourceManager) Start() error {
	rm.mu.Lock()
	if rm.running {
		rm.mu.Unlock()
		return errors.New("resource manager already running")
	}
	rm.running = true
	rm.mu.Unlock()

	rm.CheckMemoryUsage()
	go rm.monitoringLoop()

	rm.logger.Info(rm.ctx, "resource manager started",
		"max_memory_mb", rm.opts.MaxMemoryMB,
		"check_interval", rm.opts.CheckInterval,
	)
	return nil
}

// Go runs fn as a tracked task. A task that fails or panics before ctx is
// cancelled is reported on Failed.
func (rm *ResourceManager) Go(ctx context.Context, name string, fn func(context.Context) error) {
	rm.taskCount.Add(1)
	rm.tasks.Add(1)

	go func() {
		defer rm.tasks.Done()
		defer rm.taskCount.Add(-1)

		err := rm.runTask(ctx, name, fn)
		if err == nil || ctx.Err() != nil {
			rm.logger.Debug(ctx, "task finished", "task", name, "result", err)
			return
		}

		rm.logger.Error(ctx, "task failed", err, "task", name)
		select {
		case rm.failed <- &TaskError{Task: name, Err: err}:
		default:
		}
	}()
}

func (rm *ResourceManager) runTask(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	rm.logger.Debug(ctx, "task started", "task", name)
	return fn(ctx)
}

// Failed delivers the first task failure.
func (rm *ResourceManager) Failed() <-chan *TaskError {
	return rm.failed
}

// CheckMemoryUsage samples heap usage and compares it with the limit.
func (rm *ResourceManager) CheckMemoryUsage() error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	currentMB := int64(m.Alloc / 1024 / 1024)
	rm.memoryUsageMB.Store(currentMB)
	rm.lastCheck.Store(time.Now().UnixNano())

	if currentMB > rm.opts.MaxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, rm.opts.MaxMemoryMB)
	}
	return nil
}

// GetResourceStats returns current resource usage statistics.
func (rm *ResourceManager) GetResourceStats() ResourceStats {
	var lastCheck time.Time
	if nanos := rm.lastCheck.Load(); nanos != 0 {
		lastCheck = time.Unix(0, nanos)
	}
	return ResourceStats{
		TaskCount:       rm.taskCount.Load(),
		GoroutineCount:  int64(runtime.NumGoroutine()),
		MemoryUsageMB:   rm.memoryUsageMB.Load(),
		MaxMemoryMB:     rm.opts.MaxMemoryMB,
		LastMemoryCheck: lastCheck,
	}
}

// ResourceStats contains resource usage statistics.
type ResourceStats struct {
	TaskCount       int64     `json:"task_count"`
	GoroutineCount  int64     `json:"goroutine_count"`
	MemoryUsageMB   int64     `json:"memory_usage_mb"`
	MaxMemoryMB     int64     `json:"max_memory_mb"`
	LastMemoryCheck time.Time `json:"last_memory_check"`
}

// Shutdown stops monitoring and waits for every task to return. Tasks must
// already have been told to stop, usually by cancelling their context.
func (rm *ResourceManager) Shutdown(ctx context.Context) error {
	rm.mu.Lock()
	wasRunning := rm.running
	rm.running = false
	rm.mu.Unlock()

	rm.logger.Info(ctx, "shutting down resource manager")
	rm.cancel()

	shutdownCtx, cancel := context.WithTimeout(ctx, rm.opts.ShutdownTimeout)
	defer cancel()

	if wasRunning {
		select {
		case <-rm.done:
		case <-shutdownCtx.Done():
			rm.logger.Warn(ctx, "resource monitoring loop did not stop gracefully")
		}
	}
	return rm.waitForTasks(shutdownCtx)
}

func (rm *ResourceManager) waitForTasks(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		rm.tasks.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		rm.logger.Info(ctx, "all tasks finished")
		return nil
	case <-ctx.Done():
		remaining := rm.taskCount.Load()
		rm.logger.Warn(ctx, "shutdown timeout exceeded with tasks still running", "remaining", remaining)
		return fmt.Errorf("shutdown timeout: %d tasks still running", remaining)
	}
}

func (rm *ResourceManager) monitoringLoop() {
	defer close(rm.done)

	ticker := time.NewTicker(rm.opts.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.performResourceChecks()
		case <-rm.ctx.Done():
			return
		}
	}
}

func (rm *ResourceManager) performResourceChecks() {
	if err := rm.CheckMemoryUsage(); err != nil {
		rm.logger.Error(rm.ctx, "memory limit exceeded", err,
			"current_mb", rm.memoryUsageMB.Load(),
			"limit_mb", rm.opts.MaxMemoryMB,
		)
	}
	rm.logger.Debug(rm.ctx, "resource usage check",
		"tasks", rm.taskCount.Load(),
		"goroutines", runtime.NumGoroutine(),
		"memory_mb", rm.memoryUsageMB.Load(),
	)
}
