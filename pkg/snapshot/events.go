package snapshot

import (
	"context"
	"path"
)

// eventsTask captures the all-namespace event stream sorted by last observed
// time, a warnings-only view, and one filtered view per selected namespace.
type eventsTask struct{}

func (eventsTask) Name() string { return "events" }

func (eventsTask) Dirs(cfg Config) []string {
	dirs := []string{"events"}
	for _, ns := range cfg.Namespaces {
		dirs = append(dirs, ns)
	}
	return dirs
}

func (t eventsTask) Run(ctx context.Context, env *Env) error {
	rec := env.Rec
	kc := env.Kubectl

	rec.Capture(t.Name(), "all events", path.Join("events", "events.txt"), kc.Events(ctx, "", false))
	rec.Capture(t.Name(), "warning events", path.Join("events", "events-warnings.txt"), kc.Events(ctx, "", true))

	for _, ns := range env.Cfg.Namespaces {
		if ctx.Err() != nil {
			return nil
		}
		rec.Capture(t.Name(), "events "+ns, path.Join(ns, "events.txt"), kc.Events(ctx, ns, false))
	}
	return nil
}
