// Package core is the application layer between the transports (HTTP, CLI)
// and the domain packages.
//
// # Service
//
// [Service] answers every reference query against the snapshot currently
// published by a [reference.Store]. Each call takes one snapshot and uses
// it throughout, so a concurrent reload never mixes two tables in one
// answer. It also validates plans and renders their exports, bounded by an
// [ExportLimiter].
//
// # Reload
//
// The table is loaded once at startup. [Service.Reload] refreshes it on
// demand and [Service.StartReloadScheduler] refreshes it on a timer. A
// failed reload keeps the previous table.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Codes
// are grouped by area:
//
//   - REF001-REF005: reference table (empty, malformed, unavailable, not loaded, no match)
//   - PLAN001-PLAN003: plan export and validation
//   - REQ001-REQ004: request input, timeouts and cancellation
//   - RATE001-RATE002: throttling
//   - ERR000: fallback
package core
