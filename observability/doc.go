// Package observability configures OpenTelemetry export for the starter kit:
// a tracer provider with an OTLP/HTTP exporter carrying the service name and
// namespace as resource attributes, a baggage builder that stamps tenant and
// agent identifiers onto each turn, and an instrumentor that wraps model
// calls in spans.
//
// Configuration failures are expected to be treated as degraded-start
// conditions by callers: log and continue without telemetry.
package observability
