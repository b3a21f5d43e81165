package snapshot

import (
	"log/slog"
	"sync"

	"github.com/clustersnap/clustersnap/pkg/query"
	"github.com/clustersnap/clustersnap/pkg/sink"
)

// Outcome classifies one collected artifact.
type Outcome string

const (
	// OutcomeSuccess means the artifact holds the query output.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the query failed; the artifact holds the
	// captured diagnostic output so the archive has no holes.
	OutcomeFailure Outcome = "failure"
	// OutcomeSkipped means the artifact was intentionally not collected
	// (e.g. release manager absent).
	OutcomeSkipped Outcome = "skipped"
)

// Artifact is one captured piece of output bound to a fixed destination path.
type Artifact struct {
	Name    string
	Path    string
	Outcome Outcome
}

// TaskReport accumulates per-task artifact accounting for the run summary.
type TaskReport struct {
	Task      string `yaml:"task"`
	Attempted int    `yaml:"attempted"`
	Succeeded int    `yaml:"succeeded"`
	Failed    int    `yaml:"failed"`
	Skipped   int    `yaml:"skipped"`
	// Note carries a task-level condition, such as why a task was skipped
	// or the error that failed it as a whole.
	Note string `yaml:"note,omitempty"`
}

// Recorder is the run's only shared mutable state: a mutex-protected
// accumulator of artifact outcomes, writing captured bytes through the sink.
// It is safe for concurrent use by worker-pool items.
type Recorder struct {
	mu    sync.Mutex
	sink  *sink.Sink
	order []string
	tasks map[string]*TaskReport
}

// NewRecorder creates a Recorder writing through the given sink.
func NewRecorder(s *sink.Sink) *Recorder {
	return &Recorder{
		sink:  s,
		tasks: make(map[string]*TaskReport),
	}
}

// Capture persists the query result at rel and records the artifact under
// task. Failed results are written too, with their diagnostic body; the
// destination path exists regardless of content success.
func (r *Recorder) Capture(task, name, rel string, res query.Result) Artifact {
	outcome := OutcomeSuccess
	if !res.OK() {
		outcome = OutcomeFailure
		slog.Debug("query failed",
			"task", task,
			"artifact", name,
			"status", res.Status(),
			"error", res.Err)
	}

	if err := r.sink.Write(rel, res.Body()); err != nil {
		// Destination trouble below the root; record the failure and keep going.
		slog.Error("artifact write failed", "task", task, "path", rel, "error", err)
		outcome = OutcomeFailure
	}

	return r.record(task, Artifact{Name: name, Path: rel, Outcome: outcome})
}

// Put persists locally generated content (not a query capture) at rel.
func (r *Recorder) Put(task, name, rel string, data []byte, err error) Artifact {
	if err != nil {
		return r.Capture(task, name, rel, query.Failed(name, err))
	}
	return r.Capture(task, name, rel, query.Captured(name, data, nil))
}

// SkipTask marks an entire task as intentionally skipped with zero artifacts.
func (r *Recorder) SkipTask(task, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep := r.ensure(task)
	rep.Skipped++
	rep.Note = reason
}

// FailTask records a task-level failure note. The run continues.
func (r *Recorder) FailTask(task string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(task).Note = err.Error()
}

// Touch registers a task with the recorder so the summary enumerates what was
// attempted even when the task produced no artifacts.
func (r *Recorder) Touch(task string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(task)
}

// Reports returns per-task accounting in task registration order.
func (r *Recorder) Reports() []TaskReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TaskReport, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.tasks[name])
	}
	return out
}

// TotalArtifacts returns the number of artifacts recorded across all tasks.
func (r *Recorder) TotalArtifacts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, rep := range r.tasks {
		total += rep.Attempted
	}
	return total
}

func (r *Recorder) record(task string, a Artifact) Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := r.ensure(task)
	rep.Attempted++
	switch a.Outcome {
	case OutcomeFailure:
		rep.Failed++
	case OutcomeSkipped:
		rep.Skipped++
	default:
		rep.Succeeded++
	}
	artifactOutcomes.WithLabelValues(task, string(a.Outcome)).Inc()
	return a
}

func (r *Recorder) ensure(task string) *TaskReport {
	rep, ok := r.tasks[task]
	if !ok {
		rep = &TaskReport{Task: task}
		r.tasks[task] = rep
		r.order = append(r.order, task)
	}
	return rep
}
