package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whistleline/internal/models"
	"whistleline/pkg/logger"
	"whistleline/pkg/response"
)

func (h *Handlers) handleLogin(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Password == "" {
		response.Fail(c, http.StatusBadRequest, "please provide an email and a password")
		return
	}

	admin, err := models.FindAdminByEmail(h.db, body.Email)
	if err != nil || !admin.CheckPassword(body.Password) {
		response.Fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	ttl := time.Duration(h.cfg.JWTExpireHour) * time.Hour
	token, err := admin.GenerateToken(h.cfg.JWTSecret, ttl)
	if err != nil {
		logger.Error("generate auth token", zap.Error(err))
		response.Fail(c, http.StatusInternalServerError, "an error occurred while generating the authentication token")
		return
	}
	if err := admin.TouchLogin(h.db); err != nil {
		logger.Warn("stamp last login", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}

func (h *Handlers) handleMe(c *gin.Context) {
	admin := models.CurrentAdmin(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": admin})
}

func (h *Handlers) handleCheckAuth(c *gin.Context) {
	admin := models.CurrentAdmin(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "authentication valid",
		"user": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}
