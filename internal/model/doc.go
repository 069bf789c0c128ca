// Package model provides the record types stored and exchanged by ascent.
//
// This package contains type definitions and small helpers only. Every other
// internal package imports model; model imports nothing internal.
//
// Key design constraints:
//   - Optional values are pointers; nil means "absent", which is distinct
//     from a present empty string
//   - Time and score fields stay strings, since they may hold sentinels such
//     as "fall" or "DNS" next to numeric times (see Outcome)
//   - Identity fields are never rewritten after insert
//   - JSON tags use lowerCamelCase to match the CSV column names
package model
