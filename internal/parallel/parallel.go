// Package parallel runs independent jobs, such as snapshot renders, with a
// bounded worker count.
package parallel

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/msalah0e/skillgraph/internal/ui"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of one job.
type Result struct {
	Name    string
	OK      bool
	Err     error
	Output  string
	Elapsed time.Duration
}

// Task is one job. Output is a short summary, e.g. the file written.
type Task struct {
	Name string
	Fn   func(ctx context.Context) (string, error)
}

// Runner executes tasks. Progress lines go to Out; a nil Out is silent.
type Runner struct {
	Concurrency int
	Out         io.Writer
}

// Run executes tasks with the runner's concurrency limit and returns
// results in submission order. Tasks not yet started when ctx is cancelled
// fail with the context error.
func (r Runner) Run(ctx context.Context, tasks []Task) []Result {
	limit := r.Concurrency
	if limit < 1 {
		limit = 4
	}

	results := make([]Result, len(tasks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			start := time.Now()
			if err := gctx.Err(); err != nil {
				results[i] = Result{Name: task.Name, Err: err}
				return nil
			}

			output, err := task.Fn(gctx)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[i] = Result{Name: task.Name, Err: err, Output: output, Elapsed: elapsed}
				r.printf("  %s %s %s\n", ui.StatusIcon(false), task.Name, ui.Bad.Sprintf("(%v)", err))
				return nil
			}
			results[i] = Result{Name: task.Name, OK: true, Output: output, Elapsed: elapsed}
			r.printf("  %s %s %s %s\n", ui.StatusIcon(true), task.Name,
				ui.Subtle.Sprint(output), ui.Subtle.Sprintf("%.2fs", elapsed.Seconds()))
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (r Runner) printf(format string, args ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

// Failed returns the results that did not succeed.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
