package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/clustersnap/clustersnap/pkg/defaults"
	"github.com/clustersnap/clustersnap/pkg/snapshot"
)

// parseConfig runs the collect flag set over args and captures the resulting
// run configuration without starting a collection.
func parseConfig(t *testing.T, args []string) snapshot.Config {
	t.Helper()

	var got snapshot.Config
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	cmd := &cli.Command{
		Name:  "collect",
		Flags: collectCmd().Flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			got = buildConfig(cmd, now)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), append([]string{"collect"}, args...)))
	return got
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg := parseConfig(t, []string{"-n", "payments"})

	assert.Equal(t, []string{"payments"}, cfg.Namespaces)
	assert.Equal(t, "clustersnap-20260314-092653", cfg.OutputDir)
	assert.Empty(t, cfg.Kubeconfig)
	assert.Equal(t, defaults.Workers, cfg.Workers)
	assert.Equal(t, defaults.QueryTimeout, cfg.QueryTimeout)
	assert.Equal(t, defaults.QueryQPS, cfg.QPS)
	assert.Zero(t, cfg.TailLines)
}

func TestBuildConfig_AllFlags(t *testing.T) {
	cfg := parseConfig(t, []string{
		"-n", "payments",
		"-n", "checkout",
		"--output", "/tmp/snap",
		"--kubeconfig", "/etc/kube/config",
		"--workers", "8",
		"--query-timeout", "10s",
		"--qps", "2.5",
		"--tail-lines", "500",
	})

	assert.Equal(t, []string{"payments", "checkout"}, cfg.Namespaces)
	assert.Equal(t, "/tmp/snap", cfg.OutputDir)
	assert.Equal(t, "/etc/kube/config", cfg.Kubeconfig)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 2.5, cfg.QPS)
	assert.Equal(t, int64(500), cfg.TailLines)
}

func TestCollect_NamespaceRequired(t *testing.T) {
	cmd := &cli.Command{
		Name:  "collect",
		Flags: collectCmd().Flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return nil
		},
	}

	err := cmd.Run(context.Background(), []string{"collect"})
	assert.Error(t, err)
}

func TestCollect_RejectsBadPublishTarget(t *testing.T) {
	cmd := collectCmd()
	err := cmd.Run(context.Background(), []string{
		"collect", "-n", "payments", "--publish", "/not/a/registry",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oci://")
}
