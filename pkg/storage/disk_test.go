package stores

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whistleline/pkg/errors"
)

func textUpload(name, contentType, content string) Upload {
	return Upload{
		Name:        name,
		Size:        int64(len(content)),
		ContentType: contentType,
		Open:        func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(content)), nil },
	}
}

func TestDiskStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save writes under the category", func(t *testing.T) {
		d := NewDiskStore(t.TempDir())
		require.NoError(t, d.Init("docs"))

		stored, err := d.Save(ctx, "docs", textUpload("report.pdf", "application/pdf", "hello"), SaveOptions{})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stored.Path, "docs/"))
		assert.True(t, strings.HasSuffix(stored.Path, ".pdf"))
		assert.Equal(t, int64(5), stored.Size)
		assert.Equal(t, "report.pdf", stored.OriginalName)

		raw, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(stored.Path)))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(raw))
	})

	t.Run("same original name yields distinct files", func(t *testing.T) {
		d := NewDiskStore(t.TempDir())
		require.NoError(t, d.Init("docs"))

		a, err := d.Save(ctx, "docs", textUpload("x.txt", "text/plain", "a"), SaveOptions{})
		require.NoError(t, err)
		b, err := d.Save(ctx, "docs", textUpload("x.txt", "text/plain", "b"), SaveOptions{})
		require.NoError(t, err)
		assert.NotEqual(t, a.Path, b.Path)
	})

	t.Run("size limit", func(t *testing.T) {
		d := NewDiskStore(t.TempDir())
		require.NoError(t, d.Init("docs"))

		_, err := d.Save(ctx, "docs", textUpload("big.txt", "text/plain", "0123456789"), SaveOptions{MaxSize: 5})
		assert.True(t, errors.HasCode(err, errors.CodeFileTooLarge))

		entries, rerr := os.ReadDir(filepath.Join(d.Root, "docs"))
		require.NoError(t, rerr)
		assert.Empty(t, entries)
	})

	t.Run("type allowlist", func(t *testing.T) {
		d := NewDiskStore(t.TempDir())
		require.NoError(t, d.Init("docs"))

		_, err := d.Save(ctx, "docs", textUpload("x.exe", "application/x-msdownload", "MZ"), SaveOptions{
			AllowedTypes: []string{"application/pdf"},
		})
		assert.True(t, errors.HasCode(err, errors.CodeUnsupportedFileType))
	})

	t.Run("remove", func(t *testing.T) {
		d := NewDiskStore(t.TempDir())
		require.NoError(t, d.Init("docs"))

		stored, err := d.Save(ctx, "docs", textUpload("x.txt", "text/plain", "x"), SaveOptions{})
		require.NoError(t, err)
		require.NoError(t, d.Remove(ctx, stored.Path))
		_, err = os.Stat(filepath.Join(d.Root, filepath.FromSlash(stored.Path)))
		assert.True(t, os.IsNotExist(err))

		// Removing an already-gone file is not an error.
		assert.NoError(t, d.Remove(ctx, stored.Path))
	})

	t.Run("remove rejects traversal", func(t *testing.T) {
		d := NewDiskStore(t.TempDir())
		assert.Error(t, d.Remove(ctx, "../outside.txt"))
		assert.Error(t, d.Remove(ctx, "/etc/passwd"))
	})
}
