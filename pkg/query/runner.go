package query

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/clustersnap/clustersnap/pkg/defaults"
)

// Runner executes external read-only query commands with a per-query timeout
// and a shared rate limit across all callers. A missing binary or non-zero
// exit becomes a failed Result, never a raised error.
type Runner struct {
	// Timeout bounds each query; zero means defaults.QueryTimeout.
	Timeout time.Duration

	limiter *rate.Limiter
}

// NewRunner creates a Runner with the given per-query timeout and sustained
// queries-per-second limit. qps <= 0 disables rate limiting.
func NewRunner(timeout time.Duration, qps float64) *Runner {
	r := &Runner{Timeout: timeout}
	if qps > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(qps), 1)
	}
	return r
}

// Run executes name with args, capturing combined stdout and stderr.
// The result is always returned; inspect Result.Status for the outcome.
func (r *Runner) Run(ctx context.Context, name string, args ...string) Result {
	return r.RunWithTimeout(ctx, r.timeout(), name, args...)
}

// RunWithTimeout executes one query under an explicit deadline, for queries
// with a different latency profile than the default (e.g. log captures).
func (r *Runner) RunWithTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) Result {
	command := name + " " + strings.Join(args, " ")
	start := time.Now()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return Result{Command: command, Err: err, Duration: time.Since(start)}
		}
	}

	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path, err := exec.LookPath(name)
	if err != nil {
		return Result{
			Command:  command,
			Err:      fmt.Errorf("%s not found in PATH: %w", name, err),
			Duration: time.Since(start),
		}
	}

	cmd := exec.CommandContext(qctx, path, args...)
	output, err := cmd.CombinedOutput()

	res := Result{
		Command:  command,
		Output:   output,
		Err:      err,
		Duration: time.Since(start),
	}

	if err != nil && errors.Is(qctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.Err = fmt.Errorf("query exceeded %s deadline: %w", timeout, err)
	}

	return res
}

// Present reports whether the named binary is available on PATH.
func (r *Runner) Present(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return defaults.QueryTimeout
}
