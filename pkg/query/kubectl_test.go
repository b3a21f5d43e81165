package query

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKubectl_ArgsPrependKubeconfig(t *testing.T) {
	k := NewKubectl(NewRunner(time.Second, 0), "/tmp/kc")

	got := k.args("get", "pods")
	assert.Equal(t, []string{"--kubeconfig", "/tmp/kc", "get", "pods"}, got)

	bare := NewKubectl(NewRunner(time.Second, 0), "")
	assert.Equal(t, []string{"get", "pods"}, bare.args("get", "pods"))
}

func TestHelm_ReleaseParsing(t *testing.T) {
	payload := `[
		{"name":"ingress","namespace":"kube-system","chart":"ingress-nginx-4.10.0","app_version":"1.10.0","status":"deployed","updated":"2026-08-01"},
		{"name":"metrics","namespace":"monitoring","chart":"metrics-server-3.12.1","app_version":"0.7.1","status":"deployed","updated":"2026-08-02"}
	]`

	var releases []Release
	require.NoError(t, json.Unmarshal([]byte(payload), &releases))
	require.Len(t, releases, 2)
	assert.Equal(t, "ingress", releases[0].Name)
	assert.Equal(t, "kube-system", releases[0].Namespace)
	assert.Equal(t, "metrics-server-3.12.1", releases[1].Chart)
}

func TestHelm_ListParsesRunnerOutput(t *testing.T) {
	// Drive List through a real exec that emulates helm's JSON output.
	h := &Helm{runner: NewRunner(5*time.Second, 0)}
	res := h.runner.Run(t.Context(), "sh", "-c", `echo '[{"name":"r1","namespace":"default"}]'`)
	require.True(t, res.OK())

	var releases []Release
	require.NoError(t, json.Unmarshal(res.Output, &releases))
	assert.Equal(t, "r1", releases[0].Name)
}
