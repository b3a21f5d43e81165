package snapshot

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// PodDescriptor identifies one pod and its container names as discovered at
// task execution time. Descriptors are a point-in-time snapshot and are not
// cached across tasks: a pod listed during one task may be gone by the time
// another runs. That race is accepted, not an error.
type PodDescriptor struct {
	Namespace  string
	Name       string
	Containers []string
}

// discoverPods lists the current pods of a namespace through the API client.
func discoverPods(ctx context.Context, client kubernetes.Interface, namespace string) ([]PodDescriptor, error) {
	pods, err := client.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in %s: %w", namespace, err)
	}

	descriptors := make([]PodDescriptor, 0, len(pods.Items))
	for _, pod := range pods.Items {
		d := PodDescriptor{Namespace: namespace, Name: pod.Name}
		for _, c := range pod.Spec.InitContainers {
			d.Containers = append(d.Containers, c.Name)
		}
		for _, c := range pod.Spec.Containers {
			d.Containers = append(d.Containers, c.Name)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}
