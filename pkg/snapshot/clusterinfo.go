package snapshot

import (
	"context"
	"path"
)

// clusterInfoTask captures cluster-wide identity and health: node state,
// versions, component health, and the API surface. No namespace parameter.
type clusterInfoTask struct{}

func (clusterInfoTask) Name() string { return "cluster-info" }

func (clusterInfoTask) Dirs(Config) []string { return []string{"cluster"} }

func (t clusterInfoTask) Run(ctx context.Context, env *Env) error {
	rec := env.Rec
	kc := env.Kubectl

	rec.Capture(t.Name(), "cluster info", path.Join("cluster", "cluster-info.txt"), kc.ClusterInfo(ctx))
	rec.Capture(t.Name(), "versions", path.Join("cluster", "version.txt"), kc.Version(ctx))
	rec.Capture(t.Name(), "node list", path.Join("cluster", "nodes.txt"), kc.Wide(ctx, "nodes", ""))
	rec.Capture(t.Name(), "node detail", path.Join("cluster", "nodes.yaml"), kc.ListAll(ctx, "nodes"))
	rec.Capture(t.Name(), "node descriptions", path.Join("cluster", "nodes-describe.txt"), kc.DescribeAll(ctx, "nodes", ""))
	rec.Capture(t.Name(), "component health", path.Join("cluster", "componentstatuses.txt"), kc.Wide(ctx, "componentstatuses", ""))
	rec.Capture(t.Name(), "api surface", path.Join("cluster", "api-resources.txt"), kc.APIResources(ctx))

	return nil
}
