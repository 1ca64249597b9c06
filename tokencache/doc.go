// Package tokencache holds delegated bearer tokens for the observability
// exporter, keyed by tenant and agent identifiers. Entries are overwritten on
// every put (last write wins) and evicted by TTL and capacity so the key
// space stays bounded across long-lived processes.
package tokencache
