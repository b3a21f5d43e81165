package snapshot

import (
	"context"
	"path"
)

// CustomQuery is one caller-supplied query → sink-write pair.
type CustomQuery struct {
	// Name labels the artifact in progress output and the summary.
	Name string
	// Args is the raw read-only kubectl argument vector.
	Args []string
	// Dest is the destination file, relative to the task's custom subtree.
	Dest string
}

// CustomTask is a caller-supplied extension task appended after the built-in
// sequence. All output lands under the dedicated custom/ subtree.
type CustomTask struct {
	// Title names the task's subtree under custom/.
	Title string
	// Queries are executed in order; each failure is recorded individually.
	Queries []CustomQuery
}

// Name implements Task.
func (t *CustomTask) Name() string { return "custom:" + t.Title }

// Dirs implements Task.
func (t *CustomTask) Dirs(Config) []string {
	return []string{path.Join("custom", t.Title)}
}

// Run implements Task.
func (t *CustomTask) Run(ctx context.Context, env *Env) error {
	for _, q := range t.Queries {
		if ctx.Err() != nil {
			return nil
		}
		env.Rec.Capture(t.Name(), q.Name,
			path.Join("custom", t.Title, q.Dest), env.Kubectl.Raw(ctx, q.Args...))
	}
	return nil
}
