package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gba")
	want := []byte{0xde, 0xad, 0xbe, 0xef, 0x42}
	require.NoError(t, os.WriteFile(path, want, 0o644))

	data, release, err := Map(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, want, data)
	require.NoError(t, release())
	require.NoError(t, release(), "second release is a no-op")
}

func TestMapZeroLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gba")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	data, release, err := Map(path, 1024)
	require.NoError(t, err)
	assert.Empty(t, data)
	require.NoError(t, release())
}

func TestMapLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.gba")
	require.NoError(t, os.WriteFile(path, make([]byte, 64), 0o644))

	_, _, err := Map(path, 63)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestMapMissing(t *testing.T) {
	_, _, err := Map(filepath.Join(t.TempDir(), "nope.gba"), 1024)
	require.ErrorIs(t, err, os.ErrNotExist)
}
