package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "sub", "a.webp")

	require.NoError(t, WriteFile(fn, func(w io.Writer) error {
		_, err := w.Write([]byte("first"))
		return err
	}))
	data, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
	assert.True(t, IsRegular(fn))

	// a failing writer keeps the previous content and leaves no temp file
	err = WriteFile(fn, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("encode fail")
	})
	assert.EqualError(t, err, "encode fail")
	data, _ = os.ReadFile(fn)
	assert.Equal(t, "first", string(data))

	entries, err := os.ReadDir(filepath.Dir(fn))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDirHelpers(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsDir(dir))
	assert.True(t, IsEmptyDir(dir))
	assert.False(t, IsRegular(dir))
	assert.False(t, Exists(filepath.Join(dir, "none")))
	assert.False(t, IsEmptyDir(filepath.Join(dir, "none")))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), nil, 0644))
	assert.False(t, IsEmptyDir(dir))
	assert.False(t, IsDir(filepath.Join(dir, "f")))
	assert.True(t, Exists(filepath.Join(dir, "f")))

	require.NoError(t, ReadyDir(filepath.Join(dir, "x", "y", "z.txt")))
	assert.True(t, IsDir(filepath.Join(dir, "x", "y")))
}
