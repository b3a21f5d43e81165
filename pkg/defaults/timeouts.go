package defaults

import "time"

// Query execution limits.
const (
	// QueryTimeout bounds a single read-only cluster query so one hung
	// endpoint cannot stall the whole run.
	QueryTimeout = 30 * time.Second

	// LogQueryTimeout bounds a single pod log capture. Log endpoints on
	// unhealthy kubelets are the slowest queries in practice.
	LogQueryTimeout = 60 * time.Second

	// PreflightTimeout bounds the startup reachability checks. Failures
	// here are fatal, so keep the operator from waiting long.
	PreflightTimeout = 15 * time.Second

	// QueryQPS is the default sustained rate of queries against the API
	// server across all workers.
	QueryQPS = 10.0
)

// Worker pool sizing.
const (
	// Workers is the default bounded-concurrency pool size for independent
	// collection items (pod log captures, resource kinds, releases).
	Workers = 4

	// MaxWorkers caps operator-supplied pool sizes.
	MaxWorkers = 32
)
