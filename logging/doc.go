// Package logging provides a minimal logging interface and adapters for the
// starter kit.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the host, orchestrator and tool layers use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(logging.LevelInfo, "json")
//	h, err := host.New(cfg, factory, host.WithLogger(logger))
//
// The design intentionally keeps the interface minimal so callers can plug
// any structured logger while the built-in adapter covers the common case.
package logging
