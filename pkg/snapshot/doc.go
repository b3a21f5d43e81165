// Package snapshot orchestrates read-only diagnostic collection from a live
// cluster: a fixed sequence of collection tasks fans out over the selected
// namespaces, their pods, and containers, capturing state and logs into a
// deterministic directory tree. Failures are isolated per task and per
// artifact; a failed query still occupies its destination path with the
// captured diagnostics, and the run summary enumerates everything attempted.
package snapshot
