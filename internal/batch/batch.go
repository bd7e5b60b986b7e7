// Package batch renders many mesh files concurrently.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/tinyrender/internal/config"
	"github.com/taigrr/tinyrender/internal/scene"
	"github.com/taigrr/tinyrender/pkg/render"
)

// Job is one mesh to render.
type Job struct {
	Input  string
	Output string
}

// Result holds the outcome of processing one job.
type Result struct {
	Job
	Stats    render.Stats
	Duration time.Duration
	Success  bool
	Error    string
}

// Plan maps every input to OutputDir/<name>.<Format>. Inputs sharing a base
// name get a -2, -3, ... suffix in input order, so no two jobs write the
// same file.
func Plan(inputs []string, s config.Settings) []Job {
	jobs := make([]Job, len(inputs))
	taken := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		name := base
		for n := 2; taken[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		taken[name] = true
		jobs[i] = Job{
			Input:  in,
			Output: filepath.Join(s.OutputDir, name+"."+s.Format),
		}
	}
	return jobs
}

// Run renders jobs with at most s.Workers running at once. A failing job is
// reported in its Result and does not stop the others; only cancellation of
// ctx ends the run early, in which case the context error is returned along
// with the results gathered so far.
func Run(ctx context.Context, jobs []Job, s config.Settings) ([]Result, error) {
	results := make([]Result, len(jobs))
	var processed atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = process(job, s)
			n := processed.Add(1)
			render.Logger().Debug("rendered",
				"input", job.Input,
				"progress", fmt.Sprintf("%d/%d", n, len(jobs)),
				"ok", results[i].Success,
			)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	render.Logger().Info("batch finished",
		"jobs", len(jobs),
		"processed", processed.Load(),
		"elapsed", time.Since(start),
	)
	return results, err
}

func process(job Job, s config.Settings) Result {
	start := time.Now()
	stats, err := scene.RenderFile(job.Input, job.Output, s)
	res := Result{
		Job:      job,
		Stats:    stats,
		Duration: time.Since(start),
		Success:  err == nil,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// Summary counts successes and failures.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Success {
			ok++
		} else if r.Input != "" {
			failed++
		}
	}
	return ok, failed
}
