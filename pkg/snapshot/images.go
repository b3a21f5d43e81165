package snapshot

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/distribution/reference"
	"gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PodImages maps one pod to the images its spec references.
type PodImages struct {
	Namespace string   `yaml:"namespace"`
	Pod       string   `yaml:"pod"`
	Images    []string `yaml:"images"`
}

// imagesTask derives the set of container images in use by projecting image
// references out of pod specs, including init and ephemeral containers. It
// produces a per-pod mapping and a deduplicated unique list.
type imagesTask struct{}

func (imagesTask) Name() string { return "images" }

func (imagesTask) Dirs(Config) []string { return []string{"images"} }

func (t imagesTask) Run(ctx context.Context, env *Env) error {
	rec := env.Rec

	pods, err := env.Client.CoreV1().Pods("").List(ctx, metav1.ListOptions{})
	if err != nil {
		err = fmt.Errorf("failed to list pods: %w", err)
		rec.Put(t.Name(), "pod image map", path.Join("images", "pod-images.yaml"), nil, err)
		rec.Put(t.Name(), "unique images", path.Join("images", "unique-images.yaml"), nil, err)
		return err
	}

	perPod := make([]PodImages, 0, len(pods.Items))
	unique := make(map[string]struct{})

	for _, pod := range pods.Items {
		entry := PodImages{Namespace: pod.Namespace, Pod: pod.Name}
		record := func(image string) {
			if image == "" {
				return
			}
			entry.Images = append(entry.Images, image)
			unique[normalizeImage(image)] = struct{}{}
		}
		for _, c := range pod.Spec.InitContainers {
			record(c.Image)
		}
		for _, c := range pod.Spec.Containers {
			record(c.Image)
		}
		for _, c := range pod.Spec.EphemeralContainers {
			record(c.Image)
		}
		perPod = append(perPod, entry)
	}

	uniqueList := make([]string, 0, len(unique))
	for image := range unique {
		uniqueList = append(uniqueList, image)
	}
	sort.Strings(uniqueList)

	perPodYAML, err := yaml.Marshal(perPod)
	rec.Put(t.Name(), "pod image map", path.Join("images", "pod-images.yaml"), perPodYAML, err)

	uniqueYAML, err := yaml.Marshal(uniqueList)
	rec.Put(t.Name(), "unique images", path.Join("images", "unique-images.yaml"), uniqueYAML, err)

	return nil
}

// normalizeImage canonicalizes a reference so the same image spelled with and
// without its default registry or tag dedups to one entry. Unparseable
// references are kept verbatim rather than dropped.
func normalizeImage(image string) string {
	named, err := reference.ParseNormalizedNamed(image)
	if err != nil {
		return image
	}
	return reference.FamiliarString(reference.TagNameOnly(named))
}
