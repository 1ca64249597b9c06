// Package session provides volatile per-conversation state for the host. The
// store keeps a turn transcript per conversation id so handlers can consult
// prior turns; it is in-memory only and best suited for development and
// single-process deployments.
package session
