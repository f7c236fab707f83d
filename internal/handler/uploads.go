package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whistleline/internal/models"
	"whistleline/pkg/logger"
	"whistleline/pkg/response"
	stores "whistleline/pkg/storage"
)

// uploadAllowedTypes restricts the admin-facing single-file upload path.
// The public submission path accepts any MIME type on purpose; the two
// paths serve different trust levels.
var uploadAllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// handleUploadAttachment attaches a single file to an existing alert.
func (h *Handlers) handleUploadAttachment(c *gin.Context) {
	id, ok := h.alertID(c, "alertId")
	if !ok {
		return
	}
	if _, err := models.GetAlert(h.db, id); err != nil {
		h.fail(c, err, "an error occurred while loading the alert")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "no file uploaded")
		return
	}

	stored, err := h.store.Save(c.Request.Context(), models.AttachmentCategory, stores.FromFileHeader(fh), stores.SaveOptions{
		MaxSize:      models.MaxAttachmentSize,
		AllowedTypes: uploadAllowedTypes,
	})
	if err != nil {
		h.fail(c, err, "an error occurred while storing the file")
		return
	}

	att := models.Attachment{
		AlertID:      id,
		OriginalName: stored.OriginalName,
		FilePath:     stored.Path,
		MimeType:     stored.MimeType,
		FileSize:     stored.Size,
	}
	if err := h.db.Create(&att).Error; err != nil {
		if rerr := h.store.Remove(c.Request.Context(), stored.Path); rerr != nil {
			logger.Warn("cleanup of attachment after failed insert",
				zap.String("path", stored.Path), zap.Error(rerr))
		}
		h.fail(c, err, "an error occurred while saving the attachment")
		return
	}

	response.Created(c, "file uploaded successfully", att)
}

func (h *Handlers) handleListAttachments(c *gin.Context) {
	id, ok := h.alertID(c, "alertId")
	if !ok {
		return
	}
	var attachments []models.Attachment
	if err := h.db.Where("alert_id = ?", id).Find(&attachments).Error; err != nil {
		h.fail(c, err, "an error occurred while fetching attachments")
		return
	}
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	response.Data(c, attachments)
}

// handleDeleteAttachment removes the row first; the file delete is
// best-effort cleanup and never undoes the row removal.
func (h *Handlers) handleDeleteAttachment(c *gin.Context) {
	raw, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || raw == 0 {
		response.Fail(c, http.StatusNotFound, "file not found")
		return
	}

	var att models.Attachment
	if err := h.db.First(&att, uint(raw)).Error; err != nil {
		response.Fail(c, http.StatusNotFound, "file not found")
		return
	}
	if err := h.db.Delete(&models.Attachment{}, att.ID).Error; err != nil {
		h.fail(c, err, "an error occurred while deleting the attachment")
		return
	}
	if err := h.store.Remove(c.Request.Context(), att.FilePath); err != nil {
		logger.Warn("delete of attachment file failed",
			zap.String("path", att.FilePath), zap.Error(err))
	}

	response.Success(c, "file deleted successfully", nil)
}
