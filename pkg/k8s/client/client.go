package client

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is an alias for kubernetes.Interface to allow easier mocking in tests.
// This enables using fake.NewClientset() which returns kubernetes.Interface.
type Interface = kubernetes.Interface

// InClusterContext is the identity reported when running with a service
// account instead of a kubeconfig context.
const InClusterContext = "in-cluster"

// BuildKubeClient creates a Kubernetes client from the given kubeconfig file.
//
// If kubeconfig is empty, configuration is discovered from:
//  1. KUBECONFIG environment variable
//  2. ~/.kube/config (if it exists)
//  3. In-cluster service account
//
// Clients are built explicitly per run; there is no process-wide singleton,
// so callers control the configuration they collect against.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	var config *rest.Config
	var err error

	kubeconfig = resolveKubeconfig(kubeconfig)

	// Use InClusterConfig directly when no kubeconfig is available.
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, config, nil
}

// CurrentContext returns the name of the active kubeconfig context, using the
// same discovery order as BuildKubeClient. When no kubeconfig is present
// (in-cluster operation) it returns InClusterContext.
func CurrentContext(kubeconfig string) (string, error) {
	kubeconfig = resolveKubeconfig(kubeconfig)
	if kubeconfig == "" {
		return InClusterContext, nil
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = kubeconfig
	cfg, err := rules.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load kubeconfig %s: %w", kubeconfig, err)
	}
	if cfg.CurrentContext == "" {
		return InClusterContext, nil
	}
	return cfg.CurrentContext, nil
}

// resolveKubeconfig applies KUBECONFIG and home directory discovery to an
// explicit path, returning empty when no kubeconfig exists.
func resolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	def := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(def); err == nil {
		return def
	}
	return ""
}
