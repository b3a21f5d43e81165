package query

import (
	"context"

	"github.com/clustersnap/clustersnap/pkg/defaults"
	apperrors "github.com/clustersnap/clustersnap/pkg/errors"
)

// kubectlBin is the cluster query binary. Rendering arbitrary resource kinds
// in both structured and human-readable form has no client-go equivalent, so
// those captures shell out the same way helm queries do.
const kubectlBin = "kubectl"

// Kubectl issues read-only cluster queries through the kubectl binary and
// returns captured Results. All methods are safe for concurrent use.
type Kubectl struct {
	runner     *Runner
	kubeconfig string
}

// NewKubectl creates a kubectl query wrapper. kubeconfig may be empty to use
// the ambient discovery chain.
func NewKubectl(runner *Runner, kubeconfig string) *Kubectl {
	return &Kubectl{runner: runner, kubeconfig: kubeconfig}
}

// Probe verifies the kubectl binary is present and the cluster responds.
// This is the fatal preflight: collection cannot start without it.
func (k *Kubectl) Probe(ctx context.Context) error {
	if !k.runner.Present(kubectlBin) {
		return apperrors.New(apperrors.ErrCodeUnavailable, "kubectl not found in PATH")
	}
	res := k.runner.RunWithTimeout(ctx, defaults.PreflightTimeout, kubectlBin, k.args("version")...)
	if !res.OK() {
		return apperrors.WrapWithContext(
			apperrors.ErrCodeUnavailable,
			"cluster is not reachable",
			res.Err,
			map[string]any{"output": string(res.Output)},
		)
	}
	return nil
}

// List captures a structured (YAML) listing of kind in the given namespace.
func (k *Kubectl) List(ctx context.Context, kind, namespace string) Result {
	return k.run(ctx, "get", kind, "-n", namespace, "-o", "yaml")
}

// ListAll captures a structured listing of kind across all namespaces. For
// cluster-scoped kinds the flag is accepted and ignored by the server.
func (k *Kubectl) ListAll(ctx context.Context, kind string) Result {
	return k.run(ctx, "get", kind, "--all-namespaces", "-o", "yaml")
}

// Wide captures a human-readable wide table of kind in namespace; an empty
// namespace means all namespaces.
func (k *Kubectl) Wide(ctx context.Context, kind, namespace string) Result {
	if namespace == "" {
		return k.run(ctx, "get", kind, "--all-namespaces", "-o", "wide")
	}
	return k.run(ctx, "get", kind, "-n", namespace, "-o", "wide")
}

// Get captures a single object in structured form.
func (k *Kubectl) Get(ctx context.Context, kind, name, namespace string) Result {
	return k.run(ctx, "get", kind, name, "-n", namespace, "-o", "yaml")
}

// Describe captures the human-readable description of a single object.
func (k *Kubectl) Describe(ctx context.Context, kind, name, namespace string) Result {
	return k.run(ctx, "describe", kind, name, "-n", namespace)
}

// DescribeAll captures descriptions of every object of kind; an empty
// namespace means cluster scope.
func (k *Kubectl) DescribeAll(ctx context.Context, kind, namespace string) Result {
	if namespace == "" {
		return k.run(ctx, "describe", kind)
	}
	return k.run(ctx, "describe", kind, "-n", namespace)
}

// Events captures the event stream sorted by last observed time. namespace
// empty means all namespaces; warningsOnly filters to warning severity.
func (k *Kubectl) Events(ctx context.Context, namespace string, warningsOnly bool) Result {
	args := []string{"get", "events", "--sort-by=.lastTimestamp"}
	if namespace == "" {
		args = append(args, "--all-namespaces")
	} else {
		args = append(args, "-n", namespace)
	}
	if warningsOnly {
		args = append(args, "--field-selector", "type=Warning")
	}
	return k.run(ctx, args...)
}

// Version captures the client and server version report.
func (k *Kubectl) Version(ctx context.Context) Result {
	return k.run(ctx, "version")
}

// APIResources captures the API surface of the cluster.
func (k *Kubectl) APIResources(ctx context.Context) Result {
	return k.run(ctx, "api-resources", "-o", "wide")
}

// Raw captures the output of an arbitrary read-only kubectl invocation, for
// caller-supplied extension queries.
func (k *Kubectl) Raw(ctx context.Context, args ...string) Result {
	return k.run(ctx, args...)
}

// ClusterInfo captures the control plane endpoint summary.
func (k *Kubectl) ClusterInfo(ctx context.Context) Result {
	return k.run(ctx, "cluster-info")
}

func (k *Kubectl) run(ctx context.Context, args ...string) Result {
	return k.runner.Run(ctx, kubectlBin, k.args(args...)...)
}

// args prepends the kubeconfig flag so every query targets the same cluster
// the preflight validated.
func (k *Kubectl) args(args ...string) []string {
	if k.kubeconfig == "" {
		return args
	}
	return append([]string{"--kubeconfig", k.kubeconfig}, args...)
}
