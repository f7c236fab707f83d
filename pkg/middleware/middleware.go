package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	constants "whistleline/pkg/constant"
)

// InjectDB makes the shared gorm handle available to downstream
// middleware and model helpers via the request context.
func InjectDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.DbField, db)
		c.Next()
	}
}
