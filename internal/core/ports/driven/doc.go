// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Renderer: renders a document's pages to rasters with stable identities
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - CacheStore: persistent fingerprint/result cache. Without it, every
//     run recomputes from pixels.
//   - SessionStore: persisted comparison runs. Without it, --save-session
//     is disabled.
//   - ReportExporter: report output. Without it, only CLI output is
//     available.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
