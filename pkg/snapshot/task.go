package snapshot

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/client-go/kubernetes"

	"github.com/clustersnap/clustersnap/pkg/defaults"
	"github.com/clustersnap/clustersnap/pkg/query"
	"github.com/clustersnap/clustersnap/pkg/sink"
)

// Config is the immutable run configuration, constructed once by the caller
// and passed into the orchestrator. The namespace set's order determines
// output ordering; duplicates are permitted but harmless.
type Config struct {
	// Namespaces is the operator-selected namespace set.
	Namespaces []string
	// OutputDir is the run directory root.
	OutputDir string
	// Kubeconfig optionally overrides kubeconfig discovery.
	Kubeconfig string
	// Workers bounds concurrent collection items; <= 1 means strictly
	// sequential.
	Workers int
	// QueryTimeout bounds each individual query.
	QueryTimeout time.Duration
	// QPS is the sustained query rate against the API server.
	QPS float64
	// TailLines limits log captures to the last N lines; 0 captures all.
	TailLines int64
}

// normalized applies defaults and caps.
func (c Config) normalized() Config {
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
	if c.Workers > defaults.MaxWorkers {
		c.Workers = defaults.MaxWorkers
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = defaults.QueryTimeout
	}
	if c.QPS == 0 {
		c.QPS = defaults.QueryQPS
	}
	return c
}

// Env carries the shared capabilities a task collects with.
type Env struct {
	Cfg     Config
	Client  kubernetes.Interface
	Kubectl *query.Kubectl
	Helm    *query.Helm
	Sink    *sink.Sink
	Rec     *Recorder
}

// Task is one named collection unit. Dirs declares the output subtrees the
// task writes into; the orchestrator creates them eagerly before any task
// runs. Run's returned error is a task-level failure: it is recorded and the
// run continues with the next task.
type Task interface {
	Name() string
	Dirs(cfg Config) []string
	Run(ctx context.Context, env *Env) error
}

// workItem is one leaf collection operation: a single capture that can run
// independently of its siblings. Expressing fan-outs as work items lets the
// same enumeration execute sequentially or on a bounded worker pool.
type workItem struct {
	name string
	fn   func(ctx context.Context)
}

// runItems executes items with at most workers in flight. Cancellation stops
// dispatching new items; items already in flight finish their single query.
func runItems(ctx context.Context, workers int, items []workItem) {
	if workers <= 1 {
		for _, it := range items {
			if ctx.Err() != nil {
				return
			}
			it.fn(ctx)
		}
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, it := range items {
		if ctx.Err() != nil {
			break
		}
		it := it
		g.Go(func() error {
			if ctx.Err() == nil {
				it.fn(ctx)
			}
			return nil
		})
	}
	_ = g.Wait()
}
