// Package workerpool runs deferred payload write-backs on a fixed number
// of goroutines draining a buffered channel FIFO, strictly separate from
// request-handling concurrency so user requests never block on write-backs.
package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Task is a deferred unit of work. Args are
// folded into the closure rather than carried separately, which is the
// idiomatic Go shape for this.
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Stats is the pool's counter snapshot: queued/completed/failed counts
// plus average processing time.
type Stats struct {
	Queued        int64
	Completed     int64
	Failed        int64
	TotalDuration time.Duration
}

func (s Stats) AverageDuration() time.Duration {
	if s.Completed == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Completed)
}

// Pool is the background worker pool. Ordering is FIFO globally; tasks
// for the same document id may still be reordered across workers, so
// callers MUST write complete payloads and treat writes as last-writer-wins
//.
type Pool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	stopped chan struct{}
	stopOne sync.Once

	queued, completed, failed int64
	totalDurationNanos        int64
}

// New starts a Pool with the given number of workers (default 2) and
// queue capacity.
func New(workers, queueCapacity int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueCapacity <= 0 {
		queueCapacity = 256
	}
	p := &Pool{
		tasks:   make(chan Task, queueCapacity),
		stopped: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	return p
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for task := range p.tasks {
		start := time.Now()
		// Workers drain the current task even after Stop is called
		//.
		err := task.Fn(context.Background())
		atomic.AddInt64(&p.totalDurationNanos, int64(time.Since(start)))
		if err != nil {
			atomic.AddInt64(&p.failed, 1)
			log.Error().Err(err).Str("task", task.Name).Int("worker", id).Msg("workerpool_task_failed")
			continue
		}
		atomic.AddInt64(&p.completed, 1)
	}
}

// AddTask enqueues a task without blocking the caller, unless the queue is
// full, in which case it blocks briefly rather than silently dropping work;
// callers on a request path should usually do this from a goroutine anyway
// since the answer flow never waits on background work.
func (p *Pool) AddTask(t Task) {
	select {
	case <-p.stopped:
		log.Warn().Str("task", t.Name).Msg("workerpool_add_after_stop")
		return
	default:
	}
	atomic.AddInt64(&p.queued, 1)
	p.tasks <- t
}

// Stop sets the stop flag and closes the queue so workers drain remaining
// tasks and exit; it blocks until all workers have returned.
func (p *Pool) Stop() {
	p.stopOne.Do(func() {
		close(p.stopped)
		close(p.tasks)
	})
	p.wg.Wait()
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Queued:        atomic.LoadInt64(&p.queued),
		Completed:     atomic.LoadInt64(&p.completed),
		Failed:        atomic.LoadInt64(&p.failed),
		TotalDuration: time.Duration(atomic.LoadInt64(&p.totalDurationNanos)),
	}
}
