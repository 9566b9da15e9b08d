package text

import (
	"bytes"
	"fmt"
)

// Field is a decoded fixed-width text field.
type Field struct {
	Text string

	// Trailer holds the bytes after the terminator when they are anything
	// other than 0xFF padding. The game leaves stale bytes there; keeping
	// them makes re-encoding byte-exact.
	Trailer []byte
}

// DecodeField decodes a terminated, fixed-width field. A field with no
// terminator uses its whole width.
func (c *Charset) DecodeField(b []byte) (Field, error) {
	n := bytes.IndexByte(b, Terminator)
	if n < 0 {
		n = len(b)
	}
	s, err := c.NewDecoder().Bytes(b[:n])
	if err != nil {
		return Field{}, err
	}
	f := Field{Text: string(s)}
	if n+1 < len(b) {
		rest := b[n+1:]
		if len(bytes.Trim(rest, "\xff")) > 0 {
			f.Trailer = append([]byte(nil), rest...)
		}
	}
	return f, nil
}

// EncodeField encodes f into exactly width bytes.
func (c *Charset) EncodeField(f Field, width int) ([]byte, error) {
	enc, err := c.NewEncoder().Bytes([]byte(f.Text))
	if err != nil {
		return nil, err
	}
	if len(enc) > width {
		return nil, fmt.Errorf("text: %q needs %d bytes, field holds %d", f.Text, len(enc), width)
	}
	out := make([]byte, width)
	copy(out, enc)
	if len(enc) == width {
		return out, nil
	}
	out[len(enc)] = Terminator
	rest := out[len(enc)+1:]
	if f.Trailer != nil && len(f.Trailer) == len(rest) {
		copy(rest, f.Trailer)
		return out, nil
	}
	for i := range rest {
		rest[i] = Terminator
	}
	return out, nil
}

// DecodeString decodes a field and drops its trailer.
func (c *Charset) DecodeString(b []byte) (string, error) {
	f, err := c.DecodeField(b)
	return f.Text, err
}

// EncodeString encodes s into a width-byte field padded with 0xFF.
func (c *Charset) EncodeString(s string, width int) ([]byte, error) {
	return c.EncodeField(Field{Text: s}, width)
}
