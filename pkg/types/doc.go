// Package types defines the shared vocabulary of gen3kit: game identities,
// slot references, typed errors, and diagnostics.
//
// Design goals:
//   - Small, copyable values (Variant, SlotRef) instead of large object graphs.
//   - Paranoid bounds checking; never panic on malformed input.
//   - Typed errors with stable categories so callers (GUI layers, the CLI)
//     can block an action with the specific reason instead of a generic one.
//
// This package has no dependencies beyond the standard library.
package types
