package snapshot

import (
	"context"
	"path"
)

// configTask captures the all-namespace structured listing of non-sensitive
// configuration objects.
type configTask struct{}

func (configTask) Name() string { return "config" }

func (configTask) Dirs(Config) []string { return []string{"config"} }

func (t configTask) Run(ctx context.Context, env *Env) error {
	env.Rec.Capture(t.Name(), "configmaps",
		path.Join("config", "configmaps.yaml"), env.Kubectl.ListAll(ctx, "configmaps"))
	env.Rec.Capture(t.Name(), "configmaps list",
		path.Join("config", "configmaps.txt"), env.Kubectl.Wide(ctx, "configmaps", ""))
	return nil
}
