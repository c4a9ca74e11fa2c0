package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataLock_ExclusiveAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewDataLock(dir)
	require.NoError(t, first.Lock())

	// Another instance on the same directory cannot acquire the lock.
	second := NewDataLock(dir)
	acquired, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, first.Unlock())

	acquired, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, second.Unlock())
}

func TestDataLock_UnlockWithoutLock(t *testing.T) {
	l := NewDataLock(t.TempDir())

	assert.NoError(t, l.Unlock())
}

func TestDataLock_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	l := NewDataLock(dir)
	require.NoError(t, l.Lock())
	assert.FileExists(t, l.Path())
	require.NoError(t, l.Unlock())
}
