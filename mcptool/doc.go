// Package mcptool connects the orchestrator to remote tool servers speaking
// the Model Context Protocol over streamable HTTP. Discovered tools are
// adapted to the local tool.Tool interface so the model layer treats remote
// and in-process tools uniformly.
//
// Registration is tracked by an explicit state machine: not attempted,
// succeeded, or failed. A RetryPolicy decides whether a failed registration
// may be retried; the default policy attempts registration exactly once.
package mcptool
