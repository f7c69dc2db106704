// Package service implements the business logic of the registrar core.
//
// The School service sits between the HTTP handlers and the repository
// layer. It owns field validation, the error taxonomy surfaced to
// callers, and the import/export adapter (JSON upsert import, JSON and
// CSV export, database file backup).
//
// # Design Principles
//
// - Services own validation; handlers only invoke and render
// - Repository pattern for data access
// - Context-aware for cancellation and timeouts
// - Errors are returned, never swallowed; every failure carries enough
//   detail for a user-facing message
package service
