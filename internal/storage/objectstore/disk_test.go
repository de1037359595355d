package objectstore

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisk_PutAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	d, err := NewDisk(dir, "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	path, err := d.Put(ctx, "logo.png", bytes.NewReader([]byte("png-bytes")), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/logo.png", path)

	data, err := os.ReadFile(filepath.Join(dir, "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not remain")

	require.NoError(t, d.Delete(ctx, path))
	_, err = os.Stat(filepath.Join(dir, "logo.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, d.Delete(ctx, path), "deleting a missing object is not an error")
}

func TestDisk_RejectsTraversal(t *testing.T) {
	d, err := NewDisk(t.TempDir(), "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "..", "../evil.png", "a/b.png", `a\b.png`} {
		_, err := d.Put(ctx, key, bytes.NewReader(nil), 0, "")
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}

	for _, p := range []string{"/uploads/../etc/passwd", "/elsewhere/logo.png", "/uploads/"} {
		assert.ErrorIs(t, d.Delete(ctx, p), ErrInvalidKey, "path %q", p)
	}
}

func TestDisk_CanceledContext(t *testing.T) {
	d, err := NewDisk(t.TempDir(), "/uploads/")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Put(ctx, "logo.png", bytes.NewReader([]byte("x")), 1, "image/png")
	assert.ErrorIs(t, err, context.Canceled)
}
