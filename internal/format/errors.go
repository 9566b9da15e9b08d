package format

import "errors"

var (
	// ErrSignatureMismatch indicates a sector footer had an unexpected signature.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrChecksum indicates a stored checksum disagreed with the payload.
	ErrChecksum = errors.New("format: checksum mismatch")
	// ErrSectionID indicates a footer carried a section id outside 0..13.
	ErrSectionID = errors.New("format: section id out of range")
)
