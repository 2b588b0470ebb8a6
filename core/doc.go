// Package core provides the foundational domain types and interfaces used by
// CapKit. It defines the core abstractions for:
//
//   - The error taxonomy and typed Error values shared by every component
//   - Operation log entries, error records and rolling Stats
//   - HandlerContext (the constrained surface handed to action handlers)
//   - Pluggable contracts for the keyed store, result cache and audit trail
//
// The package intentionally keeps implementation concerns (concrete stores,
// dispatch, the wire boundary) out of scope, exposing small interfaces to
// enable custom backends and extensions.
package core
