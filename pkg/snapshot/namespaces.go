package snapshot

import (
	"context"
	"log/slog"
	"path"

	"github.com/clustersnap/clustersnap/pkg/query"
)

// namespaceWorkloadKinds are the namespace-scoped workload kinds captured per
// selected namespace, structured and human-readable.
var namespaceWorkloadKinds = []string{
	"deployments",
	"statefulsets",
	"daemonsets",
	"replicasets",
	"services",
}

// namespacesTask captures per-namespace workload and storage listings plus a
// descriptive dump of every pod discovered at execution time.
type namespacesTask struct{}

func (namespacesTask) Name() string { return "namespaces" }

func (namespacesTask) Dirs(cfg Config) []string {
	dirs := make([]string, 0, len(cfg.Namespaces)*3)
	for _, ns := range cfg.Namespaces {
		dirs = append(dirs,
			path.Join(ns, "pods"),
			path.Join(ns, "workloads"),
			path.Join(ns, "storage"),
		)
	}
	return dirs
}

func (t namespacesTask) Run(ctx context.Context, env *Env) error {
	for _, ns := range env.Cfg.Namespaces {
		if ctx.Err() != nil {
			return nil
		}
		t.collectNamespace(ctx, env, ns)
	}
	return nil
}

func (t namespacesTask) collectNamespace(ctx context.Context, env *Env, ns string) {
	rec := env.Rec
	kc := env.Kubectl

	rec.Capture(t.Name(), "pods "+ns, path.Join(ns, "pods", "pods.yaml"), kc.List(ctx, "pods", ns))
	rec.Capture(t.Name(), "pods table "+ns, path.Join(ns, "pods", "pods.txt"), kc.Wide(ctx, "pods", ns))

	for _, kind := range namespaceWorkloadKinds {
		rec.Capture(t.Name(), kind+" "+ns,
			path.Join(ns, "workloads", kind+".yaml"), kc.List(ctx, kind, ns))
		rec.Capture(t.Name(), kind+" table "+ns,
			path.Join(ns, "workloads", kind+".txt"), kc.Wide(ctx, kind, ns))
	}

	rec.Capture(t.Name(), "pvc "+ns,
		path.Join(ns, "storage", "persistentvolumeclaims.yaml"), kc.List(ctx, "persistentvolumeclaims", ns))
	rec.Capture(t.Name(), "pvc table "+ns,
		path.Join(ns, "storage", "persistentvolumeclaims.txt"), kc.Wide(ctx, "persistentvolumeclaims", ns))

	// Per-pod descriptive dump, enumerated dynamically. Discovery must
	// complete before any pod-scoped capture is queued for this namespace.
	pods, err := discoverPods(ctx, env.Client, ns)
	if err != nil {
		slog.Warn("pod discovery failed", "namespace", ns, "error", err)
		rec.Capture(t.Name(), "pod discovery "+ns,
			path.Join(ns, "pods", "describe-failed.txt"), query.Failed("list pods "+ns, err))
		return
	}

	items := make([]workItem, 0, len(pods))
	for _, pod := range pods {
		pod := pod
		items = append(items, workItem{
			name: "describe " + pod.Name,
			fn: func(ctx context.Context) {
				rec.Capture(t.Name(), "describe "+ns+"/"+pod.Name,
					path.Join(ns, "pods", pod.Name+".txt"),
					kc.Describe(ctx, "pod", pod.Name, ns))
			},
		})
	}
	runItems(ctx, env.Cfg.Workers, items)
}
