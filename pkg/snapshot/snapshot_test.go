package snapshot

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/clustersnap/clustersnap/pkg/query"
)

// relativePaths returns the sorted set of file paths under root, relative to
// it, with timestamp-free names suitable for idempotence comparison.
func relativePaths(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, rerr := filepath.Rel(root, p)
		if rerr != nil {
			return rerr
		}
		paths = append(paths, rel)
		return nil
	})
	require.NoError(t, err)
	sort.Strings(paths)
	return paths
}

func newTestSnapshotter(t *testing.T, outDir string, namespaces []string, objects ...runtime.Object) *Snapshotter {
	t.Helper()
	runner := query.NewRunner(2*time.Second, 0)
	return &Snapshotter{
		Config: Config{
			Namespaces:   namespaces,
			OutputDir:    outDir,
			Workers:      2,
			QueryTimeout: 2 * time.Second,
			QPS:          -1,
		},
		Client:  fake.NewClientset(objects...),
		Kubectl: query.NewKubectl(runner, ""),
		Helm:    query.NewHelm(runner, ""),
		Preflight: func(context.Context) (string, error) {
			return "test-context", nil
		},
	}
}

func TestSnapshotter_NamespaceSubtreesAlwaysExist(t *testing.T) {
	// kubectl is absent in the test environment, so every rendered query
	// fails; the namespace subtrees must exist regardless.
	out := filepath.Join(t.TempDir(), "run")
	s := newTestSnapshotter(t, out, []string{"default", "kube-system"})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.DirExists(t, filepath.Join(out, "default"))
	assert.DirExists(t, filepath.Join(out, "kube-system"))
	assert.DirExists(t, filepath.Join(out, "default", "logs"))
	assert.DirExists(t, filepath.Join(out, "kube-system", "secrets"))
	assert.DirExists(t, filepath.Join(out, "resources"))
	assert.DirExists(t, filepath.Join(out, "cluster"))
}

func TestSnapshotter_SummaryEnumeratesAllTasks(t *testing.T) {
	out := filepath.Join(t.TempDir(), "run")
	s := newTestSnapshotter(t, out, []string{"default"})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	var names []string
	for _, rep := range summary.Tasks {
		names = append(names, rep.Task)
	}
	assert.Equal(t, []string{
		"cluster-info", "events", "resources", "namespaces",
		"secrets", "helm-releases", "images", "pod-logs", "config",
	}, names)

	assert.Equal(t, "test-context", summary.Context)
	assert.NotEmpty(t, summary.RunID)
	assert.FileExists(t, filepath.Join(out, "summary.txt"))
	assert.FileExists(t, filepath.Join(out, "summary.yaml"))
}

func TestSnapshotter_ReleaseManagerAbsentIsSkipped(t *testing.T) {
	out := filepath.Join(t.TempDir(), "run")
	s := newTestSnapshotter(t, out, []string{"default"})

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	var helmReport *TaskReport
	for i := range summary.Tasks {
		if summary.Tasks[i].Task == "helm-releases" {
			helmReport = &summary.Tasks[i]
		}
	}
	require.NotNil(t, helmReport)
	assert.Zero(t, helmReport.Attempted)
	assert.Equal(t, 1, helmReport.Skipped)
	assert.Zero(t, helmReport.Failed)
}

func TestSnapshotter_Idempotence(t *testing.T) {
	pod := multiContainerPod("default", "web-1", "app", "sidecar")

	first := newTestSnapshotter(t, filepath.Join(t.TempDir(), "a"), []string{"default"}, pod)
	second := newTestSnapshotter(t, filepath.Join(t.TempDir(), "b"), []string{"default"}, pod.DeepCopy())

	_, err := first.Run(context.Background())
	require.NoError(t, err)
	_, err = second.Run(context.Background())
	require.NoError(t, err)

	// Same inputs against an unchanged cluster produce identical path sets.
	assert.Equal(t,
		relativePaths(t, first.Config.OutputDir),
		relativePaths(t, second.Config.OutputDir))
}

// failingTask is an injected extension that always fails at the task level.
type failingTask struct{}

func (failingTask) Name() string            { return "custom:broken" }
func (failingTask) Dirs(Config) []string    { return []string{"custom/broken"} }
func (failingTask) Run(context.Context, *Env) error {
	return assert.AnError
}

func TestSnapshotter_FaultIsolation(t *testing.T) {
	pod := multiContainerPod("default", "web-1", "app")

	baseline := newTestSnapshotter(t, filepath.Join(t.TempDir(), "a"), []string{"default"}, pod)
	injected := newTestSnapshotter(t, filepath.Join(t.TempDir(), "b"), []string{"default"}, pod.DeepCopy())
	injected.Extensions = []Task{failingTask{}}

	base, err := baseline.Run(context.Background())
	require.NoError(t, err)
	faulty, err := injected.Run(context.Background())
	require.NoError(t, err)

	// A forced failure in one task changes no other task's artifact count.
	baseCounts := map[string]int{}
	for _, rep := range base.Tasks {
		baseCounts[rep.Task] = rep.Attempted
	}
	for _, rep := range faulty.Tasks {
		if rep.Task == "custom:broken" {
			assert.Contains(t, rep.Note, assert.AnError.Error())
			continue
		}
		assert.Equal(t, baseCounts[rep.Task], rep.Attempted, rep.Task)
	}
}

func TestSnapshotter_CancellationYieldsPartialArchive(t *testing.T) {
	out := filepath.Join(t.TempDir(), "run")
	s := newTestSnapshotter(t, out, []string{"default"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := s.Run(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Canceled)
	// Partial archives are valid: the summary is still written.
	assert.FileExists(t, filepath.Join(out, "summary.txt"))
}

func TestSnapshotter_ExtensionTaskWritesUnderCustom(t *testing.T) {
	out := filepath.Join(t.TempDir(), "run")
	s := newTestSnapshotter(t, out, []string{"default"})
	s.Extensions = []Task{&CustomTask{
		Title: "gpu",
		Queries: []CustomQuery{
			{Name: "gpu nodes", Args: []string{"get", "nodes", "-l", "gpu=true"}, Dest: "gpu-nodes.txt"},
		},
	}}

	summary, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "custom", "gpu", "gpu-nodes.txt"))
	found := false
	for _, rep := range summary.Tasks {
		if rep.Task == "custom:gpu" {
			found = true
			assert.Equal(t, 1, rep.Attempted)
		}
	}
	assert.True(t, found)
}

func TestConfig_Normalized(t *testing.T) {
	cfg := Config{}.normalized()
	assert.Positive(t, cfg.Workers)
	assert.Positive(t, cfg.QueryTimeout)

	capped := Config{Workers: 10_000}.normalized()
	assert.LessOrEqual(t, capped.Workers, 32)
}
