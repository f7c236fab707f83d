package models

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	constants "whistleline/pkg/constant"
)

type Admin struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"size:100"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	Role         string     `json:"role" gorm:"size:50"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func FindAdminByEmail(db *gorm.DB, email string) (*Admin, error) {
	var admin Admin
	if err := db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

func (a *Admin) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// TouchLogin stamps the last successful login.
func (a *Admin) TouchLogin(db *gorm.DB) error {
	now := time.Now()
	a.LastLoginAt = &now
	return db.Model(a).Update("last_login_at", now).Error
}

// GenerateToken issues an HS256 bearer token for the admin.
func (a *Admin) GenerateToken(secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":    a.ID,
		"email": a.Email,
		"role":  a.Role,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// AuthRequired verifies the bearer token and loads the admin row into
// the request context. Moderation routes sit behind this gate.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token claims"})
			return
		}
		id, ok := claims["id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token claims"})
			return
		}

		db := c.MustGet(constants.DbField).(*gorm.DB)
		var admin Admin
		if err := db.First(&admin, uint(id)).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "account no longer exists"})
			return
		}
		c.Set(constants.AdminField, &admin)
		c.Next()
	}
}

// CurrentAdmin returns the authenticated admin, or nil outside the gate.
func CurrentAdmin(c *gin.Context) *Admin {
	v, ok := c.Get(constants.AdminField)
	if !ok {
		return nil
	}
	admin, _ := v.(*Admin)
	return admin
}
