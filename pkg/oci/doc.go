// Package oci publishes finished snapshot directories to OCI-compliant registries.
//
// A completed snapshot is pushed as a single-layer OCI 1.1 artifact using the
// ORAS (OCI Registry As Storage) library, so archives can be stored alongside
// images in any registry (GHCR, ECR, Harbor, local registries, etc.).
package oci
