// Package cli implements the clustersnap command-line interface.
//
// # Commands
//
// collect - capture a diagnostic snapshot:
//
//	clustersnap collect -n payments -n checkout [--output DIR] [--publish oci://host/repo:tag]
//
// Captures read-only cluster state (versions, nodes, events, rendered
// resources, Helm releases, secrets, container logs, image inventory) for the
// selected namespaces into a portable archive directory, then optionally
// pushes the archive to an OCI registry.
//
// # Exit codes
//
// The collect command exits non-zero only when the run cannot start at all
// (unreachable cluster, unusable output destination) or when an explicitly
// requested publish fails. Partial archives from flaky clusters or an
// interrupt exit zero: the summary records what was and was not captured.
//
// # Global flags
//
//	--log-level  Logging verbosity: debug, info, warn, error (default: info)
//	--version    Show version information
//
// Every collect flag can also be set through a CLUSTERSNAP_* environment
// variable (for example CLUSTERSNAP_NAMESPACES, CLUSTERSNAP_OUTPUT).
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/clustersnap/clustersnap/pkg/cli.version=1.0.0'"
package cli
