// Package auth provides the host's authentication surface: claims identities
// attached to each request, bearer token middleware for identity-backed
// deployments, an anonymous middleware for local development, and the token
// exchange seam used to obtain delegated (on-behalf-of) tokens for the
// observability exporter.
//
// The actual OAuth/OBO protocol is owned by the platform; this package only
// models the seams the host needs.
package auth
