package snapshot

import (
	"context"
	"path"
)

// secretsTask captures namespace-scoped access-credential objects, structured
// and human-readable. Output is segregated under <ns>/secrets so downstream
// redaction tooling can target it precisely. Content is collected verbatim.
type secretsTask struct{}

func (secretsTask) Name() string { return "secrets" }

func (secretsTask) Dirs(cfg Config) []string {
	dirs := make([]string, 0, len(cfg.Namespaces))
	for _, ns := range cfg.Namespaces {
		dirs = append(dirs, path.Join(ns, "secrets"))
	}
	return dirs
}

func (t secretsTask) Run(ctx context.Context, env *Env) error {
	for _, ns := range env.Cfg.Namespaces {
		if ctx.Err() != nil {
			return nil
		}
		env.Rec.Capture(t.Name(), "secrets "+ns,
			path.Join(ns, "secrets", "secrets.yaml"), env.Kubectl.List(ctx, "secrets", ns))
		env.Rec.Capture(t.Name(), "secrets detail "+ns,
			path.Join(ns, "secrets", "secrets.txt"), env.Kubectl.DescribeAll(ctx, "secrets", ns))
	}
	return nil
}
