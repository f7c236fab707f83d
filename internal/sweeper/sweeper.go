// Package sweeper reconciles the upload tree with the database. Files
// whose rows were deleted without a matching file delete pile up as
// orphans; a periodic sweep removes them.
package sweeper

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"whistleline/internal/models"
	"whistleline/pkg/logger"
)

type Sweeper struct {
	db   *gorm.DB
	root string
}

func New(db *gorm.DB, root string) *Sweeper {
	return &Sweeper{db: db, root: root}
}

// Run deletes every file under the upload root that no attachment or
// action row references. Database reads happen first, so a file written
// mid-sweep for a new row is at worst spared until the next pass.
func (s *Sweeper) Run(ctx context.Context) {
	referenced, err := s.referencedPaths()
	if err != nil {
		logger.Error("load referenced upload paths", zap.Error(err))
		return
	}

	var removed, kept int
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if referenced[rel] {
			kept++
			return nil
		}
		if err := os.Remove(path); err != nil {
			logger.Warn("remove orphaned file", zap.String("path", rel), zap.Error(err))
			return nil
		}
		removed++
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		logger.Error("sweep upload tree", zap.Error(err))
		return
	}

	logger.Info("orphaned file sweep finished",
		zap.Int("removed", removed), zap.Int("kept", kept))
}

func (s *Sweeper) referencedPaths() (map[string]bool, error) {
	referenced := make(map[string]bool)

	var attachmentPaths []string
	if err := s.db.Model(&models.Attachment{}).Pluck("file_path", &attachmentPaths).Error; err != nil {
		return nil, err
	}
	for _, p := range attachmentPaths {
		referenced[filepath.ToSlash(p)] = true
	}

	var imagePaths []string
	if err := s.db.Model(&models.Action{}).Where("image_path IS NOT NULL").
		Pluck("image_path", &imagePaths).Error; err != nil {
		return nil, err
	}
	for _, p := range imagePaths {
		referenced[filepath.ToSlash(p)] = true
	}

	return referenced, nil
}
