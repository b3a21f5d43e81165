package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"

	"github.com/clustersnap/clustersnap/pkg/defaults"
	"github.com/clustersnap/clustersnap/pkg/query"
)

// podLogsTask is the namespace fan-out driver for point-in-time log capture.
// Per namespace it snapshots the pod list, then per pod captures a combined
// current and combined previous artifact, and per container an individual
// current and previous artifact. Every query is attempted exactly once:
// transient errors become failed artifacts, not retries.
type podLogsTask struct{}

func (podLogsTask) Name() string { return "pod-logs" }

func (podLogsTask) Dirs(cfg Config) []string {
	dirs := make([]string, 0, len(cfg.Namespaces))
	for _, ns := range cfg.Namespaces {
		dirs = append(dirs, path.Join(ns, "logs"))
	}
	return dirs
}

func (t podLogsTask) Run(ctx context.Context, env *Env) error {
	for _, ns := range env.Cfg.Namespaces {
		if ctx.Err() != nil {
			return nil
		}
		t.collectNamespace(ctx, env, ns)
	}
	return nil
}

// collectNamespace snapshots the namespace's pods and drains their log
// captures. Discovery completes before any pod-scoped item is queued, so
// pods are never re-listed mid-fan-out.
func (t podLogsTask) collectNamespace(ctx context.Context, env *Env, ns string) {
	pods, err := discoverPods(ctx, env.Client, ns)
	if err != nil {
		// Zero pods for this namespace; the logs dir already exists.
		slog.Warn("pod discovery failed, skipping namespace logs", "namespace", ns, "error", err)
		env.Rec.Capture(t.Name(), "pod discovery "+ns,
			path.Join(ns, "logs", "pod-discovery-failed.txt"), query.Failed("list pods "+ns, err))
		return
	}

	slog.Info("collecting pod logs", "namespace", ns, "pods", len(pods))

	var items []workItem
	for _, pod := range pods {
		pod := pod
		items = append(items,
			workItem{
				name: pod.Name + " current",
				fn: func(ctx context.Context) {
					env.Rec.Capture(t.Name(), pod.Name+" current",
						path.Join(ns, "logs", pod.Name+"-current.log"),
						combinedLogs(ctx, env, pod, false))
				},
			},
			workItem{
				name: pod.Name + " previous",
				fn: func(ctx context.Context) {
					env.Rec.Capture(t.Name(), pod.Name+" previous",
						path.Join(ns, "logs", pod.Name+"-previous.log"),
						combinedLogs(ctx, env, pod, true))
				},
			},
		)
		for _, container := range pod.Containers {
			container := container
			items = append(items,
				workItem{
					name: pod.Name + "/" + container + " current",
					fn: func(ctx context.Context) {
						env.Rec.Capture(t.Name(), pod.Name+"/"+container+" current",
							path.Join(ns, "logs", pod.Name+"-"+container+".log"),
							containerLogs(ctx, env.Client, env.Cfg, pod, container, false))
					},
				},
				workItem{
					name: pod.Name + "/" + container + " previous",
					fn: func(ctx context.Context) {
						env.Rec.Capture(t.Name(), pod.Name+"/"+container+" previous",
							path.Join(ns, "logs", pod.Name+"-"+container+"-previous.log"),
							containerLogs(ctx, env.Client, env.Cfg, pod, container, true))
					},
				},
			)
		}
	}

	runItems(ctx, env.Cfg.Workers, items)
}

// containerLogs captures one container's log stream, timestamped. A previous
// capture on a pod that never restarted fails the same way a retrieval error
// does; both surface as a failed artifact whose body names the cause.
func containerLogs(ctx context.Context, client kubernetes.Interface, cfg Config, pod PodDescriptor, container string, previous bool) query.Result {
	command := fmt.Sprintf("logs %s/%s -c %s previous=%t", pod.Namespace, pod.Name, container, previous)

	opts := &corev1.PodLogOptions{
		Container:  container,
		Previous:   previous,
		Timestamps: true,
	}
	if cfg.TailLines > 0 {
		opts.TailLines = ptr.To(cfg.TailLines)
	}

	lctx, cancel := context.WithTimeout(ctx, defaults.LogQueryTimeout)
	defer cancel()

	stream, err := client.CoreV1().Pods(pod.Namespace).GetLogs(pod.Name, opts).Stream(lctx)
	if err != nil {
		return query.Failed(command, err)
	}
	defer func() { _ = stream.Close() }()

	data, err := io.ReadAll(stream)
	return query.Captured(command, data, err)
}

// combinedLogs captures all of a pod's containers into one artifact, each
// under a container banner. The artifact succeeds if at least one container
// stream was readable.
func combinedLogs(ctx context.Context, env *Env, pod PodDescriptor, previous bool) query.Result {
	command := fmt.Sprintf("logs %s/%s all-containers previous=%t", pod.Namespace, pod.Name, previous)

	var buf bytes.Buffer
	var firstErr error
	succeeded := 0

	for _, container := range pod.Containers {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(&buf, "==== container %s ====\n", container)
		res := containerLogs(ctx, env.Client, env.Cfg, pod, container, previous)
		buf.Write(res.Body())
		if res.OK() {
			succeeded++
		} else if firstErr == nil {
			firstErr = res.Err
		}
		buf.WriteByte('\n')
	}

	if succeeded == 0 && firstErr != nil {
		return query.Result{Command: command, Output: buf.Bytes(), Err: firstErr}
	}
	return query.Captured(command, buf.Bytes(), nil)
}
