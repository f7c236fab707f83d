package models

import (
	"context"
	"time"

	"gorm.io/gorm"

	"whistleline/pkg/errors"
	"whistleline/pkg/logger"
	stores "whistleline/pkg/storage"

	"go.uber.org/zap"
)

// ActionImageCategory is the storage namespace for action images.
const ActionImageCategory = "action-images"

// MaxActionImageSize bounds an action image upload.
const MaxActionImageSize = 5 << 20

// ActionImageTypes restricts action images to browser-renderable formats.
var ActionImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Action is an organizational initiative published on the public site.
type Action struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255"`
	Content   string    `json:"content" gorm:"type:text"`
	Link      *string   `json:"link,omitempty" gorm:"size:512"`
	Status    string    `json:"status" gorm:"size:20"`
	ImagePath *string   `json:"image_path,omitempty" gorm:"size:512"`
	AdminID   uint      `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateAction inserts an action, persisting the optional image first
// and compensating with a file delete if the insert fails.
func CreateAction(ctx context.Context, db *gorm.DB, store stores.Store, action *Action, image *stores.Upload) (*Action, error) {
	if action.Status == "" {
		action.Status = "draft"
	}
	var imagePath string
	if image != nil {
		stored, err := store.Save(ctx, ActionImageCategory, *image, stores.SaveOptions{
			MaxSize:      MaxActionImageSize,
			AllowedTypes: ActionImageTypes,
		})
		if err != nil {
			return nil, err
		}
		imagePath = stored.Path
		action.ImagePath = &imagePath
	}

	if err := db.Create(action).Error; err != nil {
		if imagePath != "" {
			if rerr := store.Remove(ctx, imagePath); rerr != nil {
				logger.Warn("cleanup of action image after failed insert",
					zap.String("path", imagePath), zap.Error(rerr))
			}
		}
		return nil, errors.Wrap(errors.CodePersistence, err, "insert action")
	}
	return action, nil
}

func ListActions(db *gorm.DB) ([]Action, error) {
	var actions []Action
	if err := db.Order("created_at DESC").Find(&actions).Error; err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "list actions")
	}
	return actions, nil
}

func GetAction(db *gorm.DB, id uint) (*Action, error) {
	var action Action
	err := db.First(&action, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.WithCode(errors.CodeNotFound, "action not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.CodePersistence, err, "load action")
	}
	return &action, nil
}

// DeleteAction removes the row, then deletes the image best-effort; a
// failed file delete is logged and reconciled later by the sweep.
func DeleteAction(ctx context.Context, db *gorm.DB, store stores.Store, id uint) error {
	action, err := GetAction(db, id)
	if err != nil {
		return err
	}
	if err := db.Delete(&Action{}, id).Error; err != nil {
		return errors.Wrap(errors.CodePersistence, err, "delete action")
	}
	if action.ImagePath != nil {
		if rerr := store.Remove(ctx, *action.ImagePath); rerr != nil {
			logger.Warn("delete of action image failed",
				zap.String("path", *action.ImagePath), zap.Error(rerr))
		}
	}
	return nil
}
