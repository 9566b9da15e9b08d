package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := Errorf(ErrKindCorruptSave, nil, "bank %d: checksum", 1)
	wrapped := fmt.Errorf("load: %w", err)

	require.ErrorIs(t, wrapped, ErrCorruptSave)
	require.NotErrorIs(t, wrapped, ErrSectionLayoutMismatch)
	assert.Equal(t, ErrKindCorruptSave, KindOf(wrapped))
}

func TestErrorIsMatchesReason(t *testing.T) {
	err := Reject(ReasonSlotOccupied, "box 1 slot 2 is occupied")

	require.ErrorIs(t, err, ErrRejected)
	require.ErrorIs(t, err, ErrSlotOccupied)
	require.NotErrorIs(t, err, ErrEmptySource)
	assert.Contains(t, err.Error(), "SlotOccupied")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Errorf(ErrKindPartialTransfer, cause, "source commit failed")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "source commit failed: disk full", err.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, ErrKind(0), KindOf(errors.New("plain")))
	assert.Equal(t, ErrKind(0), KindOf(nil))
}
