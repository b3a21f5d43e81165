package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/clustersnap/clustersnap/pkg/errors"
)

// URIScheme marks OCI registry publish destinations (oci://host/repo:tag).
const URIScheme = "oci://"

// Target is a parsed OCI publish destination.
type Target struct {
	// Registry is the registry host (e.g. "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path.
	Repository string
	// Tag is the image tag. Empty means the caller should apply a default.
	Tag string
}

// String returns the full image reference.
func (t *Target) String() string {
	return fmt.Sprintf("%s/%s:%s", t.Registry, t.Repository, t.Tag)
}

// ParseTarget parses an oci:// destination into its components.
func ParseTarget(target string) (*Target, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("publish target must start with %s", URIScheme))
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}

	t := &Target{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		t.Tag = tagged.Tag()
	}
	return t, nil
}
