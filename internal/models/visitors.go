package models

import (
	"net"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
	"gorm.io/gorm"

	constants "whistleline/pkg/constant"
	"whistleline/pkg/logger"
)

// Visitor is one public request, recorded for the site statistics.
type Visitor struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Path            string    `json:"path" gorm:"size:255"`
	IPAddress       string    `json:"ip_address" gorm:"size:45"`
	UserAgent       string    `json:"user_agent" gorm:"size:512"`
	Device          string    `json:"device" gorm:"size:100"`
	Browser         string    `json:"browser" gorm:"size:100"`
	OperatingSystem string    `json:"operating_system" gorm:"size:100"`
	Location        string    `json:"location" gorm:"size:100"`
	CreatedAt       time.Time `json:"created_at"`
}

var geoReader *geoip2.Reader

// InitGeo opens the GeoIP database when one is configured. Lookup is
// skipped entirely when the path is empty.
func InitGeo(path string) error {
	if path == "" {
		return nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	geoReader = reader
	return nil
}

func geoCity(address string) string {
	if geoReader == nil {
		return ""
	}
	ip := net.ParseIP(address)
	if ip == nil {
		return ""
	}
	record, err := geoReader.City(ip)
	if err != nil {
		return ""
	}
	return record.City.Names["en"]
}

// VisitorLogMiddleware records public traffic. Recording failures are
// logged, never propagated to the request.
func VisitorLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		db := c.MustGet(constants.DbField).(*gorm.DB)

		ua := user_agent.New(c.GetHeader("User-Agent"))
		browser, version := ua.Browser()

		visitor := Visitor{
			Path:            c.Request.URL.Path,
			IPAddress:       c.ClientIP(),
			UserAgent:       c.GetHeader("User-Agent"),
			Device:          ua.Platform(),
			Browser:         browser + " " + version,
			OperatingSystem: ua.OS(),
			Location:        geoCity(c.ClientIP()),
		}
		if err := db.Create(&visitor).Error; err != nil {
			logger.Warn("record visitor failed", zap.Error(err))
		}

		c.Next()
	}
}
