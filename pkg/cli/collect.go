package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/clustersnap/clustersnap/pkg/defaults"
	"github.com/clustersnap/clustersnap/pkg/k8s/client"
	"github.com/clustersnap/clustersnap/pkg/oci"
	"github.com/clustersnap/clustersnap/pkg/snapshot"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Capture a diagnostic snapshot of cluster state and workload logs",
		Description: `Capture a point-in-time, read-only snapshot of cluster state into a
portable archive directory:

  - cluster-level state (version, nodes, API resources, events)
  - rendered resources per kind (structured YAML plus human-readable text)
  - per-namespace workloads, storage, secrets, and Helm releases
  - current and previous container logs for every pod
  - the container image inventory across the cluster

Individual query failures never abort the run: each failed capture is written
in place as a diagnostic artifact and the run continues. The archive always
ends with summary.txt and summary.yaml describing what was captured.

# Examples

Snapshot two namespaces into a timestamped directory:

  clustersnap collect -n payments -n checkout

Snapshot with a custom destination and tighter query budget:

  clustersnap collect -n kube-system --output /tmp/snap --query-timeout 10s

Snapshot and push the finished archive to a registry:

  clustersnap collect -n payments --publish oci://ghcr.io/acme/snapshots:incident-4711`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "namespace",
				Aliases:  []string{"n"},
				Usage:    "namespace to collect (can be repeated)",
				Sources:  cli.EnvVars("CLUSTERSNAP_NAMESPACES"),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "snapshot directory (default: ./clustersnap-<timestamp>)",
				Sources: cli.EnvVars("CLUSTERSNAP_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "kubeconfig",
				Usage:   "kubeconfig path (default: $KUBECONFIG, then ~/.kube/config)",
				Sources: cli.EnvVars("CLUSTERSNAP_KUBECONFIG"),
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "max concurrent collection queries (1 = strictly sequential)",
				Sources: cli.EnvVars("CLUSTERSNAP_WORKERS"),
				Value:   defaults.Workers,
			},
			&cli.DurationFlag{
				Name:    "query-timeout",
				Usage:   "per-query timeout",
				Sources: cli.EnvVars("CLUSTERSNAP_QUERY_TIMEOUT"),
				Value:   defaults.QueryTimeout,
			},
			&cli.Float64Flag{
				Name:    "qps",
				Usage:   "sustained query rate against the API server",
				Sources: cli.EnvVars("CLUSTERSNAP_QPS"),
				Value:   defaults.QueryQPS,
			},
			&cli.Int64Flag{
				Name:    "tail-lines",
				Usage:   "limit log captures to the last N lines (0 captures everything)",
				Sources: cli.EnvVars("CLUSTERSNAP_TAIL_LINES"),
			},
			&cli.StringFlag{
				Name:    "publish",
				Usage:   "push the finished snapshot to an OCI registry (oci://host/repo[:tag])",
				Sources: cli.EnvVars("CLUSTERSNAP_PUBLISH"),
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "use HTTP for the publish registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "skip TLS certificate verification for the publish registry",
			},
		},
		Action: runCollect,
	}
}

func runCollect(ctx context.Context, cmd *cli.Command) error {
	cfg := buildConfig(cmd, time.Now())

	// Parse the publish destination up front so a bad reference fails
	// before the (potentially long) collection run.
	var target *oci.Target
	if dest := cmd.String("publish"); dest != "" {
		t, err := oci.ParseTarget(dest)
		if err != nil {
			return err
		}
		target = t
	}

	snap := &snapshot.Snapshotter{Config: cfg}

	// Build the API client here so the namespace check can run before
	// collection starts. If the build fails, leave it to the snapshot
	// preflight to report the condition as fatal.
	if clientset, _, err := client.BuildKubeClient(cfg.Kubeconfig); err == nil {
		snap.Client = clientset
		warnMissingNamespaces(ctx, clientset, cfg.Namespaces)
	}

	summary, err := snap.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Writer, summary.Report())

	if target != nil {
		if target.Tag == "" {
			target.Tag = summary.StartedAt.UTC().Format("20060102-150405")
		}
		res, err := oci.Publish(ctx, oci.PublishOptions{
			SourceDir:   cfg.OutputDir,
			Target:      target,
			RunID:       summary.RunID,
			PlainHTTP:   cmd.Bool("plain-http"),
			InsecureTLS: cmd.Bool("insecure-tls"),
		})
		if err != nil {
			return fmt.Errorf("snapshot collected to %s but publish failed: %w", cfg.OutputDir, err)
		}
		slog.Info("snapshot published",
			"reference", res.Reference,
			"digest", res.Digest)
	}

	return nil
}

// buildConfig translates parsed flags into the run configuration. The output
// directory defaults to a timestamped name under the working directory.
func buildConfig(cmd *cli.Command, now time.Time) snapshot.Config {
	out := cmd.String("output")
	if out == "" {
		out = snapshot.DefaultOutputDir(".", now)
	}
	return snapshot.Config{
		Namespaces:   cmd.StringSlice("namespace"),
		OutputDir:    out,
		Kubeconfig:   cmd.String("kubeconfig"),
		Workers:      int(cmd.Int("workers")),
		QueryTimeout: cmd.Duration("query-timeout"),
		QPS:          cmd.Float64("qps"),
		TailLines:    cmd.Int64("tail-lines"),
	}
}
