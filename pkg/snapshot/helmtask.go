package snapshot

import (
	"context"
	"log/slog"
	"path"
)

// helmTask captures chart release state through the release manager, when
// present. Absence of the helm binary skips the task entirely; per-release
// failures do not stop remaining releases.
type helmTask struct{}

func (helmTask) Name() string { return "helm-releases" }

func (helmTask) Dirs(cfg Config) []string {
	dirs := make([]string, 0, len(cfg.Namespaces))
	for _, ns := range cfg.Namespaces {
		dirs = append(dirs, path.Join(ns, "helm"))
	}
	return dirs
}

func (t helmTask) Run(ctx context.Context, env *Env) error {
	if env.Helm == nil || !env.Helm.Present() {
		slog.Info("release manager not present, skipping", "task", t.Name())
		env.Rec.SkipTask(t.Name(), "helm binary not present")
		return nil
	}

	for _, ns := range env.Cfg.Namespaces {
		if ctx.Err() != nil {
			return nil
		}
		t.collectNamespace(ctx, env, ns)
	}
	return nil
}

func (t helmTask) collectNamespace(ctx context.Context, env *Env, ns string) {
	rec := env.Rec

	releases, res := env.Helm.List(ctx, ns)
	rec.Capture(t.Name(), "releases "+ns, path.Join(ns, "helm", "releases.json"), res)
	if !res.OK() {
		return
	}

	items := make([]workItem, 0, len(releases))
	for _, rel := range releases {
		rel := rel
		items = append(items, workItem{
			name: "release " + rel.Name,
			fn: func(ctx context.Context) {
				dir := path.Join(ns, "helm", rel.Name)
				rec.Capture(t.Name(), rel.Name+" status", path.Join(dir, "status.txt"), env.Helm.Status(ctx, rel.Name, ns))
				rec.Capture(t.Name(), rel.Name+" values", path.Join(dir, "values.yaml"), env.Helm.Values(ctx, rel.Name, ns))
				rec.Capture(t.Name(), rel.Name+" manifest", path.Join(dir, "manifest.yaml"), env.Helm.Manifest(ctx, rel.Name, ns))
				rec.Capture(t.Name(), rel.Name+" notes", path.Join(dir, "notes.txt"), env.Helm.Notes(ctx, rel.Name, ns))
				rec.Capture(t.Name(), rel.Name+" history", path.Join(dir, "history.txt"), env.Helm.History(ctx, rel.Name, ns))
			},
		})
	}
	runItems(ctx, env.Cfg.Workers, items)
}
