// Package writer exposes sinks for save emission.
package writer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileWriter writes save bytes to a filesystem path atomically.
type FileWriter struct {
	Path string

	// Backup copies the existing file to <Path>.<timestamp>.bak before the
	// first overwrite made through this writer.
	Backup bool

	backedUp bool
	now      func() time.Time
}

// WriteSave writes buf to the configured path atomically via temp file +
// rename, syncing file data before the rename.
func (w *FileWriter) WriteSave(buf []byte) error {
	if w.Backup && !w.backedUp {
		if err := w.backup(); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		w.backedUp = true
	}

	// Create temp file in same directory to ensure atomic rename
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".gen3kit-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(buf); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}
	if syncErr := syncData(tmpFile); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil // Don't clean up in defer

	if renameErr := os.Rename(tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}
	return syncDir(dir)
}

// ReadSave returns the bytes currently stored at Path.
func (w *FileWriter) ReadSave() ([]byte, error) {
	return os.ReadFile(w.Path)
}

// BackupPath returns the name a backup taken at t would use.
func (w *FileWriter) BackupPath(t time.Time) string {
	return w.Path + "." + t.Format("20060102_150405") + ".bak"
}

func (w *FileWriter) backup() error {
	src, err := os.Open(w.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	now := time.Now
	if w.now != nil {
		now = w.now
	}
	dst, err := os.OpenFile(w.BackupPath(now()), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	if err := syncData(dst); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open dir: %w", err)
	}
	defer d.Close()
	// Some filesystems refuse fsync on directories; the rename already happened.
	_ = d.Sync()
	return nil
}
