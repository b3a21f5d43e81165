// Package defaults centralizes timeout and sizing constants shared across
// clustersnap components.
package defaults
