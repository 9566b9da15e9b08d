package writer

// MemWriter captures save bytes in memory.
type MemWriter struct {
	Buf    []byte
	Writes int

	// Err, when set, is returned by WriteSave without storing anything.
	Err error
	// Tamper, when set, edits the copy ReadSave returns. The stored
	// bytes are unchanged.
	Tamper func(buf []byte)
}

// WriteSave stores a copy of buf.
func (w *MemWriter) WriteSave(buf []byte) error {
	if w.Err != nil {
		return w.Err
	}
	w.Buf = append(w.Buf[:0], buf...)
	w.Writes++
	return nil
}

// ReadSave returns a copy of the stored bytes.
func (w *MemWriter) ReadSave() ([]byte, error) {
	out := append([]byte(nil), w.Buf...)
	if w.Tamper != nil {
		w.Tamper(out)
	}
	return out, nil
}
