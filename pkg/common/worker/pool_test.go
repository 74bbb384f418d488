package worker

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunWaitsForAllJobs(t *testing.T) {
	if err := Init(2); err != nil {
		t.Fatalf("init: %v", err)
	}
	var done atomic.Int32
	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = func() error {
			done.Add(1)
			return nil
		}
	}
	if err := Run(jobs...); err != nil {
		t.Fatalf("run: %v", err)
	}
	if done.Load() != 10 {
		t.Errorf("expected 10 jobs done, got %d", done.Load())
	}
}

func TestRunJoinsErrors(t *testing.T) {
	first := errors.New("count gs_user failed")
	second := errors.New("count gs_usergroup failed")
	err := Run(
		func() error { return first },
		func() error { return nil },
		func() error { return second },
	)
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both errors joined, got %v", err)
	}
}

func TestRunRecoversPanics(t *testing.T) {
	err := Run(func() error { panic("boom") })
	if err == nil {
		t.Fatal("expected panic to surface as error")
	}
	snap := StatsSnapshot()
	if snap["failed"].(uint64) == 0 {
		t.Error("expected failed counter to increase")
	}
	if snap["capacity"].(int) <= 0 {
		t.Error("expected pool to be initialized")
	}
}
