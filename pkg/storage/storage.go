package stores

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/google/uuid"

	"whistleline/pkg/errors"
)

// Upload is a pending file independent of the transport that carried it.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader adapts a multipart file to an Upload.
func FromFileHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// StoredFile describes a persisted upload. Path is relative to the
// storage root and uses forward slashes.
type StoredFile struct {
	Path         string
	Size         int64
	MimeType     string
	OriginalName string
}

type SaveOptions struct {
	MaxSize      int64
	AllowedTypes []string // empty accepts any MIME type
}

// Store persists uploaded files under category-namespaced keys.
type Store interface {
	// Init prepares the given categories (e.g. creates directories).
	Init(categories ...string) error
	Save(ctx context.Context, category string, up Upload, opts SaveOptions) (*StoredFile, error)
	// Remove deletes a stored file; a file that is already gone is not an error.
	Remove(ctx context.Context, relPath string) error
}

func checkUpload(up Upload, opts SaveOptions) error {
	if opts.MaxSize > 0 && up.Size > opts.MaxSize {
		return errors.WithCodef(errors.CodeFileTooLarge, "file %q exceeds the %d byte limit", up.Name, opts.MaxSize)
	}
	if len(opts.AllowedTypes) > 0 {
		allowed := false
		for _, t := range opts.AllowedTypes {
			if up.ContentType == t {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.WithCodef(errors.CodeUnsupportedFileType, "file type %q is not allowed", up.ContentType)
		}
	}
	return nil
}

// storageName derives a collision-resistant name keeping the original extension.
// The original name survives only in the attachment row.
func storageName(original string) string {
	return uuid.NewString() + filepath.Ext(original)
}
