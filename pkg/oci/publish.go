package oci

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
)

// ArtifactType is the media type for published snapshot archives.
const ArtifactType = "application/vnd.clustersnap.snapshot"

// runIDAnnotation links a published artifact back to its collection run.
const runIDAnnotation = "io.clustersnap.run-id"

// PublishOptions configures pushing a finished snapshot directory.
type PublishOptions struct {
	// SourceDir is the completed snapshot directory.
	SourceDir string
	// Target is the parsed oci:// destination.
	Target *Target
	// RunID is recorded as a manifest annotation.
	RunID string
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// PublishResult describes a successful push.
type PublishResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Publish pushes the snapshot directory to an OCI registry as a single-layer
// OCI 1.1 artifact using ORAS. The core's contract holds: the directory is
// complete and self-describing before this runs.
func Publish(ctx context.Context, opts PublishOptions) (*PublishResult, error) {
	if opts.Target == nil || opts.Target.Tag == "" {
		return nil, fmt.Errorf("publish target with tag is required")
	}

	absDir, err := filepath.Abs(opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve snapshot dir: %w", err)
	}

	refString := opts.Target.String()
	if _, err := reference.ParseNormalizedNamed(refString); err != nil {
		return nil, fmt.Errorf("invalid image reference %q: %w", refString, err)
	}

	fs, err := file.New(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()
	fs.TarReproducible = true

	layer, err := fs.Add(ctx, ".", ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to add snapshot dir to store: %w", err)
	}

	packOpts := oras.PackManifestOptions{
		Layers: []ociv1.Descriptor{layer},
	}
	if opts.RunID != "" {
		packOpts.ManifestAnnotations = map[string]string{runIDAnnotation: opts.RunID}
	}

	manifest, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to pack manifest: %w", err)
	}
	if err := fs.Tag(ctx, manifest, opts.Target.Tag); err != nil {
		return nil, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}

	repo, err := remote.NewRepository(opts.Target.Registry + "/" + opts.Target.Repository)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = newAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	desc, err := oras.Copy(ctx, fs, opts.Target.Tag, repo, opts.Target.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to push snapshot to registry: %w", err)
	}

	return &PublishResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// newAuthClient builds the registry HTTP client with Docker credential
// support and optional TLS relaxation.
func newAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, _ := credentials.NewStoreFromDocker(credentials.StoreOptions{})

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
		}
	}

	return &auth.Client{
		Client:     &http.Client{Transport: transport},
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(credStore),
	}
}
