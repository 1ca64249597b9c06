// Package model defines the chat model abstraction the orchestrator drives:
// a normalized request/response shape with tool definitions and a tagged
// union of content parts, plus a mock implementation for tests. Provider
// adapters live in the azure and anthropic subpackages.
package model
