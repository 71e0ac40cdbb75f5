// Package batch converts several independent library files concurrently.
// Each conversion operates on its own Library instance, so no coordination
// is needed beyond bounding parallelism.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ethiapath/djmusicorganizer/internal/engine"
	"github.com/ethiapath/djmusicorganizer/internal/library"
)

// Job is one file conversion.
type Job struct {
	InputPath  string
	OutputPath string
	Source     library.Schema
	Target     library.Schema
}

// Result pairs a job with its outcome. A failed job carries Err; the other
// jobs in the batch are unaffected.
type Result struct {
	Job      Job
	Warnings library.Warnings
	Err      error
}

// Options controls batch execution.
type Options struct {
	MaxConcurrentTasks int
	ShowProgress       bool
}

// Process converts all jobs with bounded parallelism. Per-file failures are
// recorded in the results rather than aborting the batch; only context
// cancellation returns an error.
func Process(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	maxWorkers := opts.MaxConcurrentTasks
	if maxWorkers < 1 || maxWorkers > 10 {
		slog.Warn("invalid max workers, defaulting to 4", "maxWorkers", opts.MaxConcurrentTasks)
		maxWorkers = 4
	}

	var bar *progressbar.ProgressBar
	if opts.ShowProgress {
		bar = progressbar.NewOptions(
			len(jobs),
			progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionFullWidth(),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Converting libraries...[reset]"),
		)
	}

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, job := range jobs {
		g.Go(func() error {
			defer func() {
				if bar != nil {
					_ = bar.Add(1)
				}
			}()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			results[i] = runJob(job)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runJob(job Job) Result {
	res := Result{Job: job}

	doc, err := os.ReadFile(job.InputPath)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", job.InputPath, err)
		return res
	}

	out, warnings, err := engine.Convert(doc, job.Source, job.Target)
	if err != nil {
		res.Err = fmt.Errorf("convert %s: %w", job.InputPath, err)
		return res
	}
	res.Warnings = warnings

	if err := os.WriteFile(job.OutputPath, out, 0644); err != nil {
		res.Err = fmt.Errorf("write %s: %w", job.OutputPath, err)
		return res
	}

	slog.Debug("converted library",
		"input", job.InputPath,
		"output", job.OutputPath,
		"warnings", len(warnings))
	return res
}
