// Package save reads and writes Generation 3 flash save images.
//
// # File Structure
//
// A save image holds two redundant banks of fourteen 4 KiB sectors:
//
//	[bank 0: 14 sectors] [bank 1: 14 sectors] [tail: Hall of Fame, ...]
//
// Each sector ends in a footer carrying the logical section id, a checksum
// over the section's payload, a signature, and the save counter. Inside a
// bank the sections are rotated, so a section is located by the id in its
// footer rather than by position.
//
// # Active Bank
//
// A bank is valid when all fourteen section ids are present once, every
// signature and checksum matches, and all sectors share one counter. Among
// valid banks the one with the newer counter is active; counters compare as
// serial numbers so a roll-over still orders correctly. When both banks carry
// the same counter, bank 0 wins. When no bank is valid, loading fails with
// types.ErrCorruptSave.
//
// # Commit Protocol
//
// Commit never touches the active bank:
//  1. Build the inactive bank from the new section payloads with
//     counter = active counter + 1 and the rotation advanced by one.
//  2. Re-scan the staged bank; it must validate and be newer than the active one.
//  3. Hand the staged image to the Sink (atomic temp file + rename + fdatasync).
//  4. If the Sink can read back, re-scan what it returns.
//  5. Only then swap the staged buffer in; the old active bank stays
//     untouched as the implicit backup until the next commit reuses it.
//
// # Thread Safety
//
// An Image is not safe for concurrent mutation. Callers serialize work
// against one Image with Acquire; read-only accessors copy out of the buffer.
package save
