package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRetryEventuallySucceeds(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(1)
	pool.SetRetry(2, 0)

	results := pool.Execute(context.Background(), []string{"a.wav"}, func(context.Context, string) error {
		if calls.Add(1) <= 2 {
			return errors.New("forced failure")
		}
		return nil
	})
	if len(results) != 1 || !results[0].Success {
		t.Fatalf("expected success after retries, got %+v", results)
	}
	if results[0].Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", results[0].Attempts)
	}
}

func TestPoolKeepsInputOrderAndReportsProgress(t *testing.T) {
	paths := []string{"a", "b", "c", "d", "e"}
	pool := NewPool(3)
	pool.SetRetry(0, 0)

	var mu sync.Mutex
	var progress []int
	pool.OnProgress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != len(paths) {
			t.Errorf("unexpected total %d", total)
		}
		progress = append(progress, done)
	}

	results := pool.Execute(context.Background(), paths, func(_ context.Context, p string) error {
		if p == "c" {
			return errors.New("broken")
		}
		return nil
	})
	for i, r := range results {
		if r.Path != paths[i] || r.Index != i {
			t.Fatalf("result %d out of order: %+v", i, r)
		}
	}
	if len(progress) != len(paths) || progress[len(progress)-1] != len(paths) {
		t.Fatalf("unexpected progress calls: %v", progress)
	}

	s := GetSummary(results, time.Second)
	if s.Total != 5 || s.Succeeded != 4 || s.Failed != 1 || s.Errors[0].Path != "c" {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestPoolSkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(2)
	results := pool.Execute(ctx, []string{"a", "b"}, func(context.Context, string) error {
		t.Errorf("task must not run after cancel")
		return nil
	})
	s := GetSummary(results, 0)
	if s.Skipped != 2 || s.Failed != 0 {
		t.Fatalf("expected all skipped, got %+v", s)
	}
}
