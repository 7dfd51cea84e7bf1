package batch

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Task tek bir dosya üzerinde çalışan iştir.
type Task func(ctx context.Context, path string) error

// Result bir dosyanın iş sonucunu tutar.
type Result struct {
	Index    int
	Path     string
	Success  bool
	Skipped  bool
	Attempts int
	Error    error
	Duration time.Duration
}

// Pool dosya işlerini sınırlı sayıda worker ile paralel çalıştırır.
type Pool struct {
	Workers    int
	RetryMax   int
	RetryDelay time.Duration
	OnProgress func(completed, total int)

	processed atomic.Int64
}

// NewPool yeni bir worker pool oluşturur. workers<=0 ise CPU sayısı kullanılır.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if max := runtime.NumCPU() * 2; workers > max {
		workers = max
	}
	return &Pool{
		Workers:    workers,
		RetryDelay: 500 * time.Millisecond,
	}
}

// SetRetry retry davranışını ayarlar.
func (p *Pool) SetRetry(max int, delay time.Duration) {
	if max < 0 {
		max = 0
	}
	p.RetryMax = max
	if delay >= 0 {
		p.RetryDelay = delay
	}
}

// Execute task'ı her yol için çalıştırır. Sonuçlar girdi sırasıyla döner.
// ctx iptal edilince bekleyen işler atlanmış sayılır.
func (p *Pool) Execute(ctx context.Context, paths []string, task Task) []Result {
	results := make([]Result, len(paths))
	p.processed.Store(0)
	if len(paths) == 0 {
		return results
	}

	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.run(ctx, idx, paths[idx], task)
				done := int(p.processed.Add(1))
				if p.OnProgress != nil {
					p.OnProgress(done, len(paths))
				}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func (p *Pool) run(ctx context.Context, idx int, path string, task Task) Result {
	start := time.Now()
	res := Result{Index: idx, Path: path}
	if ctx.Err() != nil {
		res.Skipped = true
		res.Error = ctx.Err()
		return res
	}

	attempts := p.RetryMax + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		res.Attempts = attempt
		err := task(ctx, path)
		if err == nil {
			res.Success = true
			res.Error = nil
			break
		}
		res.Error = err
		if ctx.Err() != nil {
			break
		}
		if attempt < attempts && p.RetryDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(p.RetryDelay):
			}
		}
	}
	res.Duration = time.Since(start)
	return res
}

// Summary toplu iş sonuçlarını özetler.
type Summary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Errors    []JobError    `json:"errors,omitempty"`
}

// JobError başarısız olan bir işin hata bilgisi.
type JobError struct {
	Path     string `json:"path"`
	Error    string `json:"error"`
	Attempts int    `json:"attempts"`
}

// GetSummary iş sonuçlarından özet oluşturur.
func GetSummary(results []Result, total time.Duration) Summary {
	s := Summary{Total: len(results), Duration: total}
	for _, r := range results {
		switch {
		case r.Success:
			s.Succeeded++
		case r.Skipped:
			s.Skipped++
		default:
			s.Failed++
			msg := "bilinmeyen hata"
			if r.Error != nil {
				msg = r.Error.Error()
			}
			s.Errors = append(s.Errors, JobError{Path: r.Path, Error: msg, Attempts: r.Attempts})
		}
	}
	return s
}
