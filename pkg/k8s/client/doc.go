// Package client provides Kubernetes client construction with kubeconfig
// discovery and cluster context identity, used by the collection preflight
// and the structured collectors.
package client
