package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"whistleline/internal/forms"
	"whistleline/internal/models"
	"whistleline/pkg/response"
)

func (h *Handlers) handleCreateContact(c *gin.Context) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" || body.Email == "" || body.Message == "" {
		response.Fail(c, http.StatusBadRequest, "all required fields must be filled in")
		return
	}
	if !forms.ValidEmail(body.Email) {
		response.Fail(c, http.StatusBadRequest, "please provide a valid email address")
		return
	}

	msg, err := models.CreateContactMessage(h.db, body.Name, body.Email, body.Subject, body.Message)
	if err != nil {
		h.fail(c, err, "an error occurred while sending the message")
		return
	}
	response.Created(c, "message sent successfully", gin.H{"id": msg.ID})
}

func (h *Handlers) handleListContacts(c *gin.Context) {
	var status *models.ContactStatus
	if raw := c.Query("status"); raw != "" {
		parsed := models.ContactStatus(raw)
		if !parsed.Valid() {
			response.Fail(c, http.StatusBadRequest, "invalid status filter, must be one of: new, in_progress, resolved")
			return
		}
		status = &parsed
	}
	var isRead *bool
	if raw := c.Query("is_read"); raw != "" {
		v := raw == "true"
		isRead = &v
	}

	msgs, err := models.ListContactMessages(h.db, status, isRead)
	if err != nil {
		h.fail(c, err, "an error occurred while fetching messages")
		return
	}
	response.Data(c, msgs)
}

func (h *Handlers) handleGetContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	msg, err := models.GetContactMessage(h.db, id)
	if err != nil {
		h.fail(c, err, "an error occurred while fetching the message")
		return
	}
	response.Data(c, msg)
}

func (h *Handlers) handleUpdateContactStatus(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !models.ContactStatus(body.Status).Valid() {
		response.Fail(c, http.StatusBadRequest, "invalid status, must be one of: new, in_progress, resolved")
		return
	}

	msg, err := models.UpdateContactStatus(h.db, id, models.ContactStatus(body.Status))
	if err != nil {
		h.fail(c, err, "an error occurred while updating the message status")
		return
	}
	response.Data(c, msg)
}

func (h *Handlers) handleToggleContactRead(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var body struct {
		IsRead bool `json:"isRead"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Fail(c, http.StatusBadRequest, "isRead must be a boolean")
		return
	}

	msg, err := models.SetContactRead(h.db, id, body.IsRead)
	if err != nil {
		h.fail(c, err, "an error occurred while updating the read flag")
		return
	}
	response.Data(c, msg)
}

func (h *Handlers) handleDeleteContact(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	if err := models.DeleteContactMessage(h.db, id); err != nil {
		h.fail(c, err, "an error occurred while deleting the message")
		return
	}
	response.Success(c, "message deleted successfully", nil)
}

func contactID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusNotFound, "message not found")
		return 0, false
	}
	return uint(id), true
}
