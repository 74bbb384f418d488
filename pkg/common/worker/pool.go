package worker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

type Job func() error

const defaultSize = 4

var (
	pool     *ants.Pool
	initOnce sync.Once
	initErr  error
	mu       sync.RWMutex
	stats    = struct {
		Submitted uint64
		Completed uint64
		Failed    uint64
		LastErr   string
		LastDur   time.Duration
		LastAt    time.Time
	}{}
)

// Init creates the global pool with the given size. Only the first call
// has any effect.
func Init(size int) error {
	initOnce.Do(func() {
		if size <= 0 {
			size = defaultSize
		}
		pool, initErr = ants.NewPool(size)
	})
	return initErr
}

// Run executes every job on the pool and waits for all of them. Submission
// blocks while the pool is saturated. The errors of failed jobs are joined.
func Run(jobs ...Job) error {
	if err := Init(defaultSize); err != nil {
		return err
	}
	var (
		wg   sync.WaitGroup
		errM sync.Mutex
		errs []error
	)
	record := func(err error) {
		errM.Lock()
		errs = append(errs, err)
		errM.Unlock()
	}
	for _, j := range jobs {
		j := j
		wg.Add(1)
		mu.Lock()
		stats.Submitted++
		mu.Unlock()
		err := pool.Submit(func() {
			defer wg.Done()
			if err := execute(j); err != nil {
				record(err)
			}
		})
		if err != nil {
			wg.Done()
			record(fmt.Errorf("submit: %w", err))
		}
	}
	wg.Wait()
	return errors.Join(errs...)
}

// execute runs j, turning a panic into an error, and updates the stats.
func execute(j Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("worker panic recovered")
			err = fmt.Errorf("worker panic: %v", r)
		}
		mu.Lock()
		stats.Completed++
		if err != nil {
			stats.Failed++
			stats.LastErr = err.Error()
		}
		stats.LastDur = time.Since(start)
		stats.LastAt = time.Now()
		mu.Unlock()
	}()
	return j()
}

// Cap returns pool capacity.
func Cap() int {
	if pool == nil {
		return 0
	}
	return pool.Cap()
}

// Running returns currently running goroutines.
func Running() int {
	if pool == nil {
		return 0
	}
	return pool.Running()
}

// StatsSnapshot returns a copy of current pool statistics.
func StatsSnapshot() map[string]any {
	mu.RLock()
	defer mu.RUnlock()
	return map[string]any{
		"capacity":         Cap(),
		"running":          Running(),
		"submitted":        stats.Submitted,
		"completed":        stats.Completed,
		"failed":           stats.Failed,
		"last_error":       stats.LastErr,
		"last_duration_ms": stats.LastDur.Milliseconds(),
		"last_finished_at": stats.LastAt,
	}
}
