// Package worker bakes many gradients in parallel.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MeKo-Tech/noiselut/internal/gradient"
	"github.com/MeKo-Tech/noiselut/internal/lut"
)

// Baker turns one task into a color buffer. Implementations may also persist
// the result; the returned buffer is handed back in Result.
type Baker interface {
	Bake(ctx context.Context, task Task) (*lut.EncodedBuffer, error)
}

// BakerFunc adapts a function to Baker.
type BakerFunc func(ctx context.Context, task Task) (*lut.EncodedBuffer, error)

// Bake calls f.
func (f BakerFunc) Bake(ctx context.Context, task Task) (*lut.EncodedBuffer, error) {
	return f(ctx, task)
}

// Task is one named gradient to bake.
type Task struct {
	Name     string
	Gradient gradient.ColorGradient
}

// Result is the outcome of a task.
type Result struct {
	Task    Task
	Buffer  *lut.EncodedBuffer
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Baker      Baker
	OnProgress ProgressFunc
}

// Pool runs bake tasks on a fixed number of goroutines.
type Pool struct {
	workers    int
	baker      Baker
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		baker:      cfg.Baker,
		onProgress: cfg.OnProgress,
	}
}

// Run executes all tasks and returns one result per task in task order.
// It blocks until every task finished or was cancelled through ctx.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	type indexed struct {
		i int
		r Result
	}

	taskCh := make(chan int, len(tasks))
	resultCh := make(chan indexed, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range taskCh {
				resultCh <- indexed{i: i, r: p.run(ctx, tasks[i])}
			}
		}()
	}

	for i := range tasks {
		taskCh <- i
	}
	close(taskCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]Result, len(tasks))
	completed, failed := 0, 0
	for ir := range resultCh {
		results[ir.i] = ir.r
		completed++
		if ir.r.Err != nil {
			failed++
		}
		if p.onProgress != nil {
			p.onProgress(completed, len(tasks), failed)
		}
	}

	return results
}

func (p *Pool) run(ctx context.Context, task Task) Result {
	if err := ctx.Err(); err != nil {
		return Result{Task: task, Err: err}
	}

	start := time.Now()
	buf, err := p.baker.Bake(ctx, task)
	return Result{
		Task:    task,
		Buffer:  buf,
		Err:     err,
		Elapsed: time.Since(start),
	}
}
