package audit

import (
	"log/slog"
	"sync"
	"time"
)

// ExecutorConfig configures the bounded ingestion worker pool, modeled
// after a ThreadPoolExecutor: a core of long-lived workers, a burst
// capacity above that, a bounded queue in between, and a caller-runs
// policy when the pool is fully saturated.
type ExecutorConfig struct {
	CorePoolSize  int
	MaxPoolSize   int
	QueueCapacity int
	KeepAlive     time.Duration
}

// DefaultExecutorConfig matches the configuration surface defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CorePoolSize:  8,
		MaxPoolSize:   12,
		QueueCapacity: 500,
		KeepAlive:     60 * time.Second,
	}
}

// Executor runs submitted work on a bounded pool of goroutines. When the
// queue is full and the pool is already at MaxPoolSize, Submit runs the
// task synchronously on the caller's goroutine instead of blocking or
// dropping it — no submitted task is ever lost.
type Executor struct {
	logger *slog.Logger
	cfg    ExecutorConfig

	tasks chan func()

	mu       sync.Mutex
	live     int // goroutines currently running (core + burst)
	stopped  bool
	wg       sync.WaitGroup
}

// NewExecutor builds an Executor and starts its core pool.
func NewExecutor(logger *slog.Logger, cfg ExecutorConfig) *Executor {
	if cfg.CorePoolSize <= 0 {
		cfg.CorePoolSize = DefaultExecutorConfig().CorePoolSize
	}
	if cfg.MaxPoolSize < cfg.CorePoolSize {
		cfg.MaxPoolSize = cfg.CorePoolSize
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = DefaultExecutorConfig().QueueCapacity
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = DefaultExecutorConfig().KeepAlive
	}

	e := &Executor{
		logger: logger,
		cfg:    cfg,
		tasks:  make(chan func(), cfg.QueueCapacity),
	}

	e.mu.Lock()
	for i := 0; i < cfg.CorePoolSize; i++ {
		e.spawnWorker(true, nil)
	}
	e.mu.Unlock()

	return e
}

// spawnWorker starts a worker goroutine. The caller must hold e.mu. A
// non-nil first task is run by the new worker before it reads the queue.
func (e *Executor) spawnWorker(core bool, first func()) {
	e.live++

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			e.live--
			e.mu.Unlock()
		}()

		if first != nil {
			e.runSafely(first)
		}

		idle := time.NewTimer(e.cfg.KeepAlive)
		defer idle.Stop()

		for {
			select {
			case task, ok := <-e.tasks:
				if !ok {
					return
				}
				e.runSafely(task)
				if !idle.Stop() {
					<-idle.C
				}
				idle.Reset(e.cfg.KeepAlive)
			case <-idle.C:
				if core {
					idle.Reset(e.cfg.KeepAlive)
					continue
				}
				return
			}
		}
	}()
}

func (e *Executor) runSafely(task func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("executor: task panicked", "recovered", r)
		}
	}()
	task()
}

// Submit enqueues task for asynchronous execution. If the queue is full
// and the pool has not yet reached MaxPoolSize, a burst worker is spawned
// to absorb it. If the pool is already at MaxPoolSize and the queue is
// full, task runs synchronously on the calling goroutine (caller-runs).
func (e *Executor) Submit(task func()) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		e.runSafely(task)
		return
	}
	e.mu.Unlock()

	select {
	case e.tasks <- task:
		return
	default:
	}

	e.mu.Lock()
	if e.live < e.cfg.MaxPoolSize {
		e.spawnWorker(false, task)
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	e.logger.Warn("executor: pool saturated, running task on caller goroutine")
	e.runSafely(task)
}

// Shutdown marks the executor stopped, so later Submit calls run their task
// on the calling goroutine, closes the task channel so workers exit once it
// is drained, and waits up to timeout for all in-flight and queued tasks to
// complete.
func (e *Executor) Shutdown(timeout time.Duration) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()

	close(e.tasks)

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		e.logger.Warn("executor: shutdown timed out with tasks still in flight")
	}
}
