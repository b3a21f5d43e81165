package query

import (
	"context"
	"encoding/json"
	"fmt"
)

// helmBin is the optional release-manager binary.
const helmBin = "helm"

// Release is one installed chart release as reported by helm list.
type Release struct {
	Name       string `json:"name"`
	Namespace  string `json:"namespace"`
	Chart      string `json:"chart"`
	AppVersion string `json:"app_version"`
	Status     string `json:"status"`
	Updated    string `json:"updated"`
}

// Helm issues read-only release-manager queries through the helm binary.
// Presence must be probed before use; absence is not an error, the release
// task is skipped.
type Helm struct {
	runner     *Runner
	kubeconfig string
}

// NewHelm creates a helm query wrapper.
func NewHelm(runner *Runner, kubeconfig string) *Helm {
	return &Helm{runner: runner, kubeconfig: kubeconfig}
}

// Present reports whether the helm binary is available.
func (h *Helm) Present() bool {
	return h.runner.Present(helmBin)
}

// List enumerates releases in the namespace. The raw captured output is in
// the Result; on success the parsed releases are returned as well.
func (h *Helm) List(ctx context.Context, namespace string) ([]Release, Result) {
	res := h.run(ctx, "list", "-n", namespace, "--output", "json")
	if !res.OK() {
		return nil, res
	}

	var releases []Release
	if err := json.Unmarshal(res.Output, &releases); err != nil {
		res.Err = fmt.Errorf("failed to parse helm releases: %w", err)
		return nil, res
	}
	return releases, res
}

// Status captures the full release state.
func (h *Helm) Status(ctx context.Context, release, namespace string) Result {
	return h.run(ctx, "status", release, "-n", namespace, "--show-resources")
}

// Values captures the user-supplied values of the release.
func (h *Helm) Values(ctx context.Context, release, namespace string) Result {
	return h.run(ctx, "get", "values", release, "-n", namespace, "--output", "yaml")
}

// Manifest captures the rendered manifest of the release.
func (h *Helm) Manifest(ctx context.Context, release, namespace string) Result {
	return h.run(ctx, "get", "manifest", release, "-n", namespace)
}

// Notes captures the release notes.
func (h *Helm) Notes(ctx context.Context, release, namespace string) Result {
	return h.run(ctx, "get", "notes", release, "-n", namespace)
}

// History captures the revision history of the release.
func (h *Helm) History(ctx context.Context, release, namespace string) Result {
	return h.run(ctx, "history", release, "-n", namespace)
}

func (h *Helm) run(ctx context.Context, args ...string) Result {
	if h.kubeconfig != "" {
		args = append([]string{"--kubeconfig", h.kubeconfig}, args...)
	}
	return h.runner.Run(ctx, helmBin, args...)
}
