package oci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("oci://ghcr.io/acme/snapshots:2026-08-29")
	require.NoError(t, err)
	assert.Equal(t, "ghcr.io", got.Registry)
	assert.Equal(t, "acme/snapshots", got.Repository)
	assert.Equal(t, "2026-08-29", got.Tag)
	assert.Equal(t, "ghcr.io/acme/snapshots:2026-08-29", got.String())
}

func TestParseTarget_NoTag(t *testing.T) {
	got, err := ParseTarget("oci://localhost:5000/snapshots")
	require.NoError(t, err)
	assert.Equal(t, "localhost:5000", got.Registry)
	assert.Equal(t, "snapshots", got.Repository)
	assert.Empty(t, got.Tag)
}

func TestParseTarget_RejectsPlainPath(t *testing.T) {
	_, err := ParseTarget("/tmp/out")
	assert.Error(t, err)
}

func TestParseTarget_RejectsInvalidReference(t *testing.T) {
	_, err := ParseTarget("oci://GHCR.IO/Not A Repo")
	assert.Error(t, err)
}
