// Package host runs an agent behind an HTTP endpoint compatible with the
// M365/Teams message routing contract. It owns the transport, auth
// middleware, activity dispatch, observability token caching and the agent
// lifecycle; the hosted agent only implements the agent.Agent contract.
package host
