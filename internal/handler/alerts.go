package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whistleline/internal/forms"
	"whistleline/internal/models"
	"whistleline/pkg/logger"
	"whistleline/pkg/metrics"
	"whistleline/pkg/response"
	stores "whistleline/pkg/storage"
)

// handleCreateAlert accepts the public submission form. Validation runs
// before any write; the alert row, attachment rows and file writes
// succeed or fail as one unit.
func (h *Handlers) handleCreateAlert(c *gin.Context) {
	form := forms.AlertForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Urgency:     c.PostForm("urgency"),
		Evidence:    c.PostForm("evidence"),
		Anonymous:   c.PostForm("anonymous"),
		Name:        c.PostForm("name"),
		Contact:     c.PostForm("contact"),
	}
	sub, fieldErrs := form.Validate()
	if fieldErrs != nil {
		response.ValidationFailed(c, fieldErrs, "validation failed")
		return
	}

	var uploads []stores.Upload
	if mp, err := c.MultipartForm(); err == nil && mp != nil {
		for _, fh := range mp.File["files"] {
			uploads = append(uploads, stores.FromFileHeader(fh))
		}
	}

	meta := models.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	alert, err := models.CreateAlert(c.Request.Context(), h.db, h.store, sub, uploads, meta)
	if err != nil {
		h.fail(c, err, "an error occurred while recording the alert")
		return
	}

	metrics.ObserveAlertCreated()
	response.Created(c, "your alert has been recorded successfully", gin.H{
		"id":        alert.ID,
		"title":     alert.Title,
		"status":    alert.Status,
		"reference": alert.Reference(),
	})
}

func (h *Handlers) handleListAlerts(c *gin.Context) {
	var status *models.AlertStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := models.ParseStatusFilter(raw)
		if err != nil {
			h.fail(c, err, "")
			return
		}
		status = &parsed
	}

	alerts, err := models.ListAlerts(h.db, status)
	if err != nil {
		h.fail(c, err, "an error occurred while fetching alerts")
		return
	}
	response.Data(c, alerts)
}

func (h *Handlers) handleUpdateAlertStatus(c *gin.Context) {
	id, ok := h.alertID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid status, must be one of: pending, published, rejected")
		return
	}
	status, err := models.ParseAlertStatus(body.Status)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	var processedBy *uint
	if admin := models.CurrentAdmin(c); admin != nil {
		processedBy = &admin.ID
	}

	alert, err := models.UpdateAlertStatus(h.db, id, status, processedBy)
	if err != nil {
		h.fail(c, err, "an error occurred while updating the alert status")
		return
	}

	metrics.ObserveStatusChange(string(status))
	h.syncSearchIndex(alert)
	response.Data(c, alert)
}

func (h *Handlers) handleDeleteAlert(c *gin.Context) {
	id, ok := h.alertID(c, "id")
	if !ok {
		return
	}
	if err := models.DeleteAlert(h.db, id); err != nil {
		h.fail(c, err, "an error occurred while deleting the alert")
		return
	}
	if h.search != nil {
		if err := h.search.Remove(id); err != nil {
			logger.Warn("remove alert from search index", zap.Uint("id", id), zap.Error(err))
		}
	}
	response.Success(c, "alert deleted successfully", nil)
}

// alertID parses the numeric path id; unparsable ids behave like
// missing rows.
func (h *Handlers) alertID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusNotFound, "alert not found")
		return 0, false
	}
	return uint(id), true
}

func (h *Handlers) syncSearchIndex(alert *models.Alert) {
	if h.search == nil {
		return
	}
	var err error
	if alert.Status == models.AlertStatusPublished {
		err = h.search.Index(alert.ID, alert.Title, alert.Description, alert.Category)
	} else {
		err = h.search.Remove(alert.ID)
	}
	if err != nil {
		logger.Warn("sync alert search index", zap.Uint("id", alert.ID), zap.Error(err))
	}
}
