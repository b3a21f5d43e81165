package cli

import (
	"context"
	"log/slog"
	"slices"

	"github.com/agnivade/levenshtein"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// maxSuggestDistance bounds how far a requested name may be from an existing
// one before a suggestion becomes noise.
const maxSuggestDistance = 3

// suggestName returns the closest existing name within the edit-distance
// bound, or "" when nothing is close enough.
func suggestName(requested string, existing []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range existing {
		if d := levenshtein.ComputeDistance(requested, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// warnMissingNamespaces checks the requested namespaces against the cluster
// and warns about any that do not exist, suggesting near matches for likely
// typos. Collection proceeds regardless: a missing namespace simply yields
// failed captures in its subtree.
func warnMissingNamespaces(ctx context.Context, clientset kubernetes.Interface, requested []string) {
	list, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		slog.Warn("namespace existence check skipped", "error", err)
		return
	}

	existing := make([]string, 0, len(list.Items))
	for i := range list.Items {
		existing = append(existing, list.Items[i].Name)
	}

	for _, ns := range requested {
		if slices.Contains(existing, ns) {
			continue
		}
		if hint := suggestName(ns, existing); hint != "" {
			slog.Warn("namespace not found in cluster",
				"namespace", ns,
				"didYouMean", hint)
		} else {
			slog.Warn("namespace not found in cluster", "namespace", ns)
		}
	}
}
