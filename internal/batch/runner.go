package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/restorer/internal/images"
	"github.com/lehigh-university-libraries/restorer/internal/session"
	"github.com/lehigh-university-libraries/restorer/internal/upload"
	"golang.org/x/sync/errgroup"
)

const maxRemoteBytes = 20 << 20

// Runner restores manifest jobs, each through its own session controller
type Runner struct {
	restorer    session.Restorer
	fetcher     *images.Fetcher
	concurrency int
}

func NewRunner(restorer session.Restorer, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		restorer:    restorer,
		fetcher:     images.NewFetcher(maxRemoteBytes),
		concurrency: concurrency,
	}
}

// Run restores every job. A failed job is recorded in its result and does
// not stop the others. Results are in job order.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	outputs := outputPaths(jobs)

	var g errgroup.Group
	g.SetLimit(r.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			results[i] = r.runJob(ctx, job, outputs[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) runJob(ctx context.Context, job Job, output string) Result {
	start := time.Now()
	result := Result{Image: job.Image, Mode: job.Mode}

	err := r.restore(ctx, job, output)
	result.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		slog.Error("Restoration job failed", "image", job.Image, "err", err)
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	slog.Info("Restored image", "image", job.Image, "output", output, "duration_ms", result.DurationMS)
	result.Status = StatusRestored
	result.Output = output
	return result
}

func (r *Runner) restore(ctx context.Context, job Job, output string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	option, err := job.Option()
	if err != nil {
		return err
	}
	prefs, err := job.Preferences()
	if err != nil {
		return err
	}
	img, err := r.load(ctx, job.Image)
	if err != nil {
		return err
	}

	ctrl := session.NewController(r.restorer)
	ctrl.Upload(img)
	ctrl.SelectOption(option)
	ctrl.UpdatePreferences(prefs.Update())

	if err := ctrl.Restore(ctx); err != nil {
		return err
	}

	download, ok := ctrl.Download()
	if !ok {
		return fmt.Errorf("no restored image for %s", job.Image)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(output, download.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}

func (r *Runner) load(ctx context.Context, image string) (upload.Image, error) {
	if images.IsURL(image) {
		return r.fetcher.Fetch(ctx, image)
	}
	return upload.FromFile(image)
}

// outputPaths gives every job a distinct destination. Default outputs that
// collide with an earlier job get the job's 1-based index before the extension.
func outputPaths(jobs []Job) []string {
	paths := make([]string, len(jobs))
	taken := make(map[string]bool, len(jobs))
	for i, job := range jobs {
		p := job.OutputPath()
		if job.Output == "" && taken[p] {
			ext := filepath.Ext(p)
			p = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(p, ext), i+1, ext)
		}
		taken[p] = true
		paths[i] = p
	}
	return paths
}
