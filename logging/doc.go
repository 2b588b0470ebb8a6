// Package logging provides a minimal logging interface and adapters for CapKit.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the runtime and plugins use for observability. This
// package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	rt := capkit.New(func(o *capkit.Options) { o.Logger = logger })
//
// The default output is stderr: a plugin process reserves stdout for the
// single JSON response envelope.
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
