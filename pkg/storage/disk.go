package stores

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"whistleline/pkg/errors"
)

// DiskStore writes uploads under a local root directory, one
// subdirectory per category. The root doubles as the static file tree
// served under the public upload prefix.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{Root: root}
}

func (d *DiskStore) Init(categories ...string) error {
	for _, cat := range categories {
		if err := os.MkdirAll(filepath.Join(d.Root, cat), 0o755); err != nil {
			return errors.Wrap(errors.CodeStorage, err, "create upload directory")
		}
	}
	return nil
}

func (d *DiskStore) Save(ctx context.Context, category string, up Upload, opts SaveOptions) (*StoredFile, error) {
	if err := checkUpload(up, opts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.CodeStorage, err, "save aborted")
	}

	src, err := up.Open()
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, err, "open upload")
	}
	defer src.Close()

	name := storageName(up.Name)
	relPath := category + "/" + name
	dst, err := os.Create(filepath.Join(d.Root, category, name))
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorage, err, "create file")
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filepath.Join(d.Root, category, name))
		return nil, errors.Wrap(errors.CodeStorage, err, "write file")
	}

	return &StoredFile{
		Path:         relPath,
		Size:         written,
		MimeType:     up.ContentType,
		OriginalName: up.Name,
	}, nil
}

func (d *DiskStore) Remove(ctx context.Context, relPath string) error {
	// Reject traversal outside the root; stored paths are always relative.
	clean := filepath.Clean(strings.ReplaceAll(relPath, "\\", "/"))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return errors.WithCodef(errors.CodeStorage, "invalid stored path %q", relPath)
	}
	err := os.Remove(filepath.Join(d.Root, clean))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.CodeStorage, err, "remove file")
	}
	return nil
}
