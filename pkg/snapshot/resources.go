package snapshot

import (
	"context"
	"path"
)

// trackedKinds are the resource kinds captured by the resources task:
// workloads, storage, RBAC, quotas, and networking. Each kind is collected
// independently so one absent or forbidden kind does not block the others.
var trackedKinds = []string{
	"deployments",
	"daemonsets",
	"statefulsets",
	"replicasets",
	"jobs",
	"cronjobs",
	"pods",
	"services",
	"endpoints",
	"ingresses",
	"networkpolicies",
	"persistentvolumes",
	"persistentvolumeclaims",
	"storageclasses",
	"serviceaccounts",
	"roles",
	"rolebindings",
	"clusterroles",
	"clusterrolebindings",
	"resourcequotas",
	"limitranges",
	"namespaces",
	"customresourcedefinitions",
}

// resourcesTask captures cluster-scoped and all-namespace listings for each
// tracked kind, structured and human-readable, one work item per kind.
type resourcesTask struct{}

func (resourcesTask) Name() string { return "resources" }

func (resourcesTask) Dirs(Config) []string { return []string{"resources"} }

func (t resourcesTask) Run(ctx context.Context, env *Env) error {
	items := make([]workItem, 0, len(trackedKinds))
	for _, kind := range trackedKinds {
		kind := kind
		items = append(items, workItem{
			name: kind,
			fn: func(ctx context.Context) {
				env.Rec.Capture(t.Name(), kind+" detail",
					path.Join("resources", kind+".yaml"), env.Kubectl.ListAll(ctx, kind))
				env.Rec.Capture(t.Name(), kind+" list",
					path.Join("resources", kind+".txt"), env.Kubectl.Wide(ctx, kind, ""))
			},
		})
	}

	runItems(ctx, env.Cfg.Workers, items)
	return nil
}
