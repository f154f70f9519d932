package workerpool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAddTaskRunsAsynchronously(t *testing.T) {
	p := New(2, 8)
	defer p.Stop()

	var mu sync.Mutex
	var ran []string
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		name := string(rune('a' + i))
		p.AddTask(Task{Name: name, Fn: func(ctx context.Context) error {
			mu.Lock()
			ran = append(ran, name)
			mu.Unlock()
			wg.Done()
			return nil
		}})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ran, 3)
}

func TestFailedTaskIncrementsCounterAndPoolContinues(t *testing.T) {
	p := New(1, 4)
	defer p.Stop()

	var wg sync.WaitGroup
	wg.Add(2)
	p.AddTask(Task{Name: "boom", Fn: func(ctx context.Context) error {
		defer wg.Done()
		return errors.New("kaboom")
	}})
	var secondRan bool
	p.AddTask(Task{Name: "ok", Fn: func(ctx context.Context) error {
		defer wg.Done()
		secondRan = true
		return nil
	}})
	wg.Wait()

	// the counters are bumped after Fn returns; Stop waits for the worker
	p.Stop()
	require.True(t, secondRan)
	stats := p.Stats()
	require.Equal(t, int64(1), stats.Failed)
	require.Equal(t, int64(1), stats.Completed)
}

func TestStopDrainsQueuedTasks(t *testing.T) {
	p := New(1, 8)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		p.AddTask(Task{Name: "t", Fn: func(ctx context.Context) error {
			mu.Lock()
			count++
			mu.Unlock()
			return nil
		}})
	}
	p.Stop()
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 5, count)
}

func TestAverageDuration(t *testing.T) {
	s := Stats{Completed: 2, TotalDuration: 100 * time.Millisecond}
	require.Equal(t, 50*time.Millisecond, s.AverageDuration())
}
