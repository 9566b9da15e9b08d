// Package transfer moves creature records between two decoded saves.
//
// Transfer protocol:
//  1. Acquire both images in ascending image id order.
//  2. Validate, in order: destination valid, destination slot usable,
//     storage unlocked, source non-empty. A failure rejects the request
//     with no mutation.
//  3. Apply the edit to both Sections in memory.
//  4. Commit the destination, then the source. A same-save move commits
//     once.
//
// Crash behaviour:
// Each commit is atomic per save (see package save). If the destination
// commits and the source does not, the record exists in both saves on
// disk; Execute reports this as PartialTransfer and never as success.
//
// A Request is consumed by its first Execute call whatever the outcome.
package transfer
