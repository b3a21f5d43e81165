package snapshot

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"k8s.io/client-go/kubernetes"

	apperrors "github.com/clustersnap/clustersnap/pkg/errors"
	"github.com/clustersnap/clustersnap/pkg/k8s/client"
	"github.com/clustersnap/clustersnap/pkg/query"
	"github.com/clustersnap/clustersnap/pkg/sink"
)

// PreflightFunc validates the cluster is reachable before any task runs and
// returns the cluster context identity. Failures here are fatal: they abort
// the run before collection begins.
type PreflightFunc func(ctx context.Context) (string, error)

// Snapshotter orchestrates a collection run: it decides what to collect, in
// what order, how partial failures are tolerated, and how results are laid
// out. Tasks run in a fixed sequence and write to disjoint subtrees; a single
// task's failure never prevents subsequent tasks from running.
type Snapshotter struct {
	// Config is the immutable run configuration.
	Config Config

	// Client is the cluster API client. If nil, one is built from the
	// configured kubeconfig during preflight.
	Client kubernetes.Interface

	// Kubectl is the rendering query capability. If nil, one is built
	// during preflight.
	Kubectl *query.Kubectl

	// Helm is the optional release-manager capability. May stay nil.
	Helm *query.Helm

	// Preflight overrides the reachability check, for testing. If nil,
	// the default probe runs.
	Preflight PreflightFunc

	// Extensions are caller-supplied tasks appended after the built-in
	// sequence, writing into the custom/ subtree.
	Extensions []Task
}

// builtinTasks returns the fixed collection sequence. Order matters only for
// operator readability of progress output, not for correctness.
func builtinTasks() []Task {
	return []Task{
		clusterInfoTask{},
		eventsTask{},
		resourcesTask{},
		namespacesTask{},
		secretsTask{},
		helmTask{},
		imagesTask{},
		podLogsTask{},
		configTask{},
	}
}

// Run executes the full collection sequence and generates the summary.
// It returns a fatal error only when the cluster query capability is
// unavailable, the cluster is unreachable, or the output root is unwritable.
// Cancellation mid-run stops dispatching new queries; the partial archive is
// valid and still gets a summary.
func (s *Snapshotter) Run(ctx context.Context) (*Summary, error) {
	cfg := s.Config.normalized()
	start := time.Now()
	defer func() { runDuration.Observe(time.Since(start).Seconds()) }()

	contextName, err := s.preflight(ctx, cfg)
	if err != nil {
		runTotal.WithLabelValues("fatal").Inc()
		return nil, err
	}

	out, err := sink.New(cfg.OutputDir)
	if err != nil {
		runTotal.WithLabelValues("fatal").Inc()
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "output destination unusable", err)
	}

	rec := NewRecorder(out)
	env := &Env{
		Cfg:     cfg,
		Client:  s.Client,
		Kubectl: s.Kubectl,
		Helm:    s.Helm,
		Sink:    out,
		Rec:     rec,
	}

	tasks := append(builtinTasks(), s.Extensions...)

	// Every declared output subtree exists before any task writes into
	// it, so the archive never has holes that look like missing dirs.
	for _, ns := range cfg.Namespaces {
		if err := out.EnsureDir(ns); err != nil {
			return nil, err
		}
	}
	for _, task := range tasks {
		for _, dir := range task.Dirs(cfg) {
			if err := out.EnsureDir(dir); err != nil {
				return nil, err
			}
		}
	}

	slog.Info("starting collection",
		"context", contextName,
		"namespaces", cfg.Namespaces,
		"workers", cfg.Workers,
		"output", out.Root())

	canceled := false
	for _, task := range tasks {
		if ctx.Err() != nil {
			slog.Warn("run canceled, skipping remaining tasks", "task", task.Name())
			canceled = true
			break
		}

		slog.Info("collecting", "task", task.Name())
		rec.Touch(task.Name())

		taskStart := time.Now()
		if err := task.Run(ctx, env); err != nil {
			slog.Error("task failed", "task", task.Name(), "error", err)
			rec.FailTask(task.Name(), err)
		}
		taskDuration.WithLabelValues(task.Name()).Observe(time.Since(taskStart).Seconds())
	}

	summary := s.buildSummary(cfg, rec, out, contextName, start, canceled)
	s.writeSummary(out, summary)

	if canceled {
		runTotal.WithLabelValues("canceled").Inc()
	} else {
		runTotal.WithLabelValues("completed").Inc()
	}

	slog.Info("collection complete",
		"artifacts", summary.TotalArtifacts,
		"size", formatBytes(summary.TotalBytes),
		"duration", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))

	return summary, nil
}

// preflight verifies capabilities and builds missing clients. All conditions
// detected here abort before any task runs.
func (s *Snapshotter) preflight(ctx context.Context, cfg Config) (string, error) {
	if s.Kubectl == nil || s.Helm == nil {
		runner := query.NewRunner(cfg.QueryTimeout, cfg.QPS)
		if s.Kubectl == nil {
			s.Kubectl = query.NewKubectl(runner, cfg.Kubeconfig)
		}
		if s.Helm == nil {
			s.Helm = query.NewHelm(runner, cfg.Kubeconfig)
		}
	}

	if s.Client == nil {
		clientset, _, err := client.BuildKubeClient(cfg.Kubeconfig)
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrCodeUnavailable, "cluster query capability unavailable", err)
		}
		s.Client = clientset
	}

	if s.Preflight != nil {
		return s.Preflight(ctx)
	}

	if err := s.Kubectl.Probe(ctx); err != nil {
		return "", err
	}
	if _, err := s.Client.Discovery().ServerVersion(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeUnavailable, "cluster is not reachable", err)
	}

	contextName, err := client.CurrentContext(cfg.Kubeconfig)
	if err != nil {
		// Identity is informational; collection proceeds without it.
		slog.Warn("could not determine cluster context", "error", err)
		contextName = "unknown"
	}
	return contextName, nil
}

func (s *Snapshotter) buildSummary(cfg Config, rec *Recorder, out *sink.Sink, contextName string, start time.Time, canceled bool) *Summary {
	return &Summary{
		RunID:          uuid.NewString(),
		Context:        contextName,
		StartedAt:      start,
		FinishedAt:     time.Now(),
		Namespaces:     cfg.Namespaces,
		Tasks:          rec.Reports(),
		TotalArtifacts: rec.TotalArtifacts(),
		TotalFiles:     out.FileCount(),
		TotalBytes:     out.Size(),
		Canceled:       canceled,
	}
}

// writeSummary persists the report and its structured sidecar. The directory
// is complete and self-describing after this, ready for the compression step.
func (s *Snapshotter) writeSummary(out *sink.Sink, summary *Summary) {
	if err := out.Write("summary.txt", []byte(summary.Report())); err != nil {
		slog.Error("failed to write summary report", "error", err)
	}
	data, err := summary.YAML()
	if err == nil {
		err = out.Write("summary.yaml", data)
	}
	if err != nil {
		slog.Error("failed to write summary sidecar", "error", err)
	}
}

// DefaultOutputDir returns a timestamped run directory name under base.
func DefaultOutputDir(base string, now time.Time) string {
	return filepath.Join(base, "clustersnap-"+now.Format("20060102-150405"))
}
