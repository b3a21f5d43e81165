package snapshot

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/clustersnap/clustersnap/pkg/sink"
)

func testPod(ns, name string, images []string, initImages ...string) *corev1.Pod {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: ns, Name: name},
	}
	for i, img := range images {
		pod.Spec.Containers = append(pod.Spec.Containers, corev1.Container{
			Name:  containerName("c", i),
			Image: img,
		})
	}
	for i, img := range initImages {
		pod.Spec.InitContainers = append(pod.Spec.InitContainers, corev1.Container{
			Name:  containerName("init", i),
			Image: img,
		})
	}
	return pod
}

func containerName(prefix string, i int) string {
	return prefix + string(rune('0'+i))
}

func newImagesEnv(t *testing.T, pods ...*corev1.Pod) (*Env, *sink.Sink) {
	t.Helper()

	s, err := sink.New(t.TempDir())
	require.NoError(t, err)

	objects := make([]runtime.Object, 0, len(pods))
	for _, pod := range pods {
		objects = append(objects, pod)
	}
	client := fake.NewClientset(objects...)

	return &Env{
		Cfg:    Config{Workers: 1}.normalized(),
		Client: client,
		Sink:   s,
		Rec:    NewRecorder(s),
	}, s
}

func TestImagesTask_Dedup(t *testing.T) {
	env, s := newImagesEnv(t,
		testPod("default", "web-1", []string{"registry.example.com/app:v1"}),
		testPod("default", "web-2", []string{"registry.example.com/app:v1"}),
		testPod("kube-system", "dns-1", []string{"registry.example.com/dns:v2"}),
	)

	require.NoError(t, imagesTask{}.Run(context.Background(), env))

	data, err := os.ReadFile(s.Path("images/unique-images.yaml"))
	require.NoError(t, err)

	var unique []string
	require.NoError(t, yaml.Unmarshal(data, &unique))
	// {a, a, b} dedups to exactly {a, b}.
	assert.Equal(t, []string{
		"registry.example.com/app:v1",
		"registry.example.com/dns:v2",
	}, unique)
}

func TestImagesTask_IncludesInitContainers(t *testing.T) {
	env, s := newImagesEnv(t,
		testPod("default", "web-1", []string{"registry.example.com/app:v1"}, "registry.example.com/setup:v1"),
	)

	require.NoError(t, imagesTask{}.Run(context.Background(), env))

	data, err := os.ReadFile(s.Path("images/pod-images.yaml"))
	require.NoError(t, err)

	var perPod []PodImages
	require.NoError(t, yaml.Unmarshal(data, &perPod))
	require.Len(t, perPod, 1)
	assert.Equal(t, "web-1", perPod[0].Pod)
	assert.ElementsMatch(t, []string{
		"registry.example.com/setup:v1",
		"registry.example.com/app:v1",
	}, perPod[0].Images)
}

func TestImagesTask_ListFailureRecordsBothArtifacts(t *testing.T) {
	env, s := newImagesEnv(t)
	env.Client.(*fake.Clientset).PrependReactor("list", "pods",
		func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, assert.AnError
		})
	_ = s

	err := imagesTask{}.Run(context.Background(), env)
	assert.Error(t, err)

	reports := env.Rec.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Failed)
	// Paths still exist with the error text.
	assert.FileExists(t, env.Sink.Path("images/pod-images.yaml"))
	assert.FileExists(t, env.Sink.Path("images/unique-images.yaml"))
}

func TestNormalizeImage(t *testing.T) {
	// Bare names normalize to their canonical familiar form so default
	// registry and tag spellings dedup together.
	assert.Equal(t, normalizeImage("nginx"), normalizeImage("docker.io/library/nginx:latest"))
	assert.Equal(t, "registry.example.com/app:v1", normalizeImage("registry.example.com/app:v1"))
	// Unparseable references are kept verbatim.
	assert.Equal(t, "not a ref!!", normalizeImage("not a ref!!"))
}
