// Package orchestrator implements the main hosted agent: it routes user
// messages through a chat model, delegating to specialist sub-agents
// registered as tools and to remote tools discovered over MCP.
//
// Sub-agents are plain tools. To add one, write a factory that wraps a model
// call behind tool.Tool and append it to the tool list in New.
package orchestrator
