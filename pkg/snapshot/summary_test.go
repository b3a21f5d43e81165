package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testSummary() *Summary {
	start := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	return &Summary{
		RunID:      "3e9c2f1a-0000-4000-8000-1234567890ab",
		Context:    "prod-east",
		StartedAt:  start,
		FinishedAt: start.Add(92 * time.Second),
		Namespaces: []string{"default", "payments"},
		Tasks: []TaskReport{
			{Task: "cluster-info", Attempted: 7, Succeeded: 7},
			{Task: "secrets", Attempted: 4, Succeeded: 0, Failed: 4},
			{Task: "helm-releases", Skipped: 1, Note: "helm binary not present"},
		},
		TotalArtifacts: 11,
		TotalFiles:     13,
		TotalBytes:     3 * 1024 * 1024,
	}
}

func TestSummary_Report(t *testing.T) {
	report := testSummary().Report()

	assert.Contains(t, report, "context:     prod-east")
	assert.Contains(t, report, "default, payments")
	assert.Contains(t, report, "cluster-info")
	// Attempt accounting surfaces silent gaps: secrets failed, not absent.
	assert.Contains(t, report, "secrets")
	assert.Contains(t, report, "helm binary not present")
	assert.Contains(t, report, "3.0 MB")
}

func TestSummary_ReportMarksCancellation(t *testing.T) {
	s := testSummary()
	s.Canceled = true
	assert.Contains(t, s.Report(), "archive is partial")
}

func TestSummary_YAMLRoundTrip(t *testing.T) {
	data, err := testSummary().YAML()
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "prod-east", decoded.Context)
	assert.Len(t, decoded.Tasks, 3)
	assert.Equal(t, 11, decoded.TotalArtifacts)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KB", formatBytes(1024))
	assert.Equal(t, "1.5 MB", formatBytes(3*512*1024))
	assert.Equal(t, "2.0 GB", formatBytes(2*1024*1024*1024))
}
