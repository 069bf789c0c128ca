// Package store provides SQLite-backed durable storage for climbers and
// competition results.
//
// The store holds one table per record kind:
//   - climbers: Athlete profiles keyed by climber_id
//   - lead_results, boulder_results: Round results keyed by id
//   - speed_results: Speed results keyed by id
//
// # Contracts
//
// Identity-level idempotency:
//   - Inserts use ON CONFLICT(<identity>) DO NOTHING
//   - A duplicate insert reports DuplicateSkipped and leaves the stored
//     record untouched
//
// Atomic single-record mutations:
//   - Every insert, update and delete is one SQL statement
//   - Readers never observe a half-written record
//   - Batches are best-effort: one record's duplicate does not abort the rest
//
// Not-found is a value, not an error:
//   - Get, Update and Delete report ok=false for unknown identities
//
// Deterministic listings:
//   - All queries ORDER BY the identity column COLLATE BINARY
//
// No semantic validation:
//   - The store enforces identity uniqueness only; dangling climber
//     references and progression rules are the producer's concern
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single pooled connection: One writer at a time
package store
