package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"whistleline/internal/models"
	"whistleline/pkg/response"
	stores "whistleline/pkg/storage"
)

func (h *Handlers) handleListActions(c *gin.Context) {
	actions, err := models.ListActions(h.db)
	if err != nil {
		h.fail(c, err, "an error occurred while fetching actions")
		return
	}
	if actions == nil {
		actions = []models.Action{}
	}
	response.Data(c, actions)
}

func (h *Handlers) handleGetAction(c *gin.Context) {
	id, ok := actionID(c)
	if !ok {
		return
	}
	action, err := models.GetAction(h.db, id)
	if err != nil {
		h.fail(c, err, "an error occurred while fetching the action")
		return
	}
	response.Data(c, action)
}

func (h *Handlers) handleCreateAction(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	content := strings.TrimSpace(c.PostForm("content"))
	if title == "" || content == "" {
		response.Fail(c, http.StatusBadRequest, "title and content are required")
		return
	}

	action := models.Action{
		Title:   title,
		Content: content,
		Status:  c.PostForm("status"),
	}
	if link := strings.TrimSpace(c.PostForm("link")); link != "" {
		action.Link = &link
	}
	if admin := models.CurrentAdmin(c); admin != nil {
		action.AdminID = admin.ID
	}

	var image *stores.Upload
	if fh, err := c.FormFile("image"); err == nil {
		up := stores.FromFileHeader(fh)
		image = &up
	}

	created, err := models.CreateAction(c.Request.Context(), h.db, h.store, &action, image)
	if err != nil {
		h.fail(c, err, "an error occurred while creating the action")
		return
	}
	response.Created(c, "action created successfully", created)
}

func (h *Handlers) handleDeleteAction(c *gin.Context) {
	id, ok := actionID(c)
	if !ok {
		return
	}
	if err := models.DeleteAction(c.Request.Context(), h.db, h.store, id); err != nil {
		h.fail(c, err, "an error occurred while deleting the action")
		return
	}
	response.Success(c, "action deleted successfully", nil)
}

func actionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusNotFound, "action not found")
		return 0, false
	}
	return uint(id), true
}
