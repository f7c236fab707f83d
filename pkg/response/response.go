package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError mirrors the per-field validation error shape exposed by the API.
type FieldError struct {
	Param    string      `json:"param"`
	Msg      string      `json:"msg"`
	Value    interface{} `json:"value,omitempty"`
	Location string      `json:"location"`
}

func Success(c *gin.Context, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// FailWithDetails adds a details field outside production mode.
func FailWithDetails(c *gin.Context, status int, message, details string, production bool) {
	body := gin.H{"success": false, "error": message}
	if !production && details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}

// ValidationFailed renders field-level errors in the stable validation shape.
func ValidationFailed(c *gin.Context, errs []FieldError, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":    false,
		"errors":     errs,
		"message":    message,
		"validation": true,
	})
}
