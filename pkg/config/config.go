package config

import (
	"log"
	"os"

	"whistleline/pkg/logger"
	"whistleline/pkg/util"
)

type Config struct {
	DBDriver  string `env:"DB_DRIVER"`
	DSN       string `env:"DSN"`
	Addr      string `env:"ADDR"`
	Mode      string `env:"MODE"` // "production" hides error details
	APIPrefix string `env:"API_PREFIX"`

	Log logger.LogConfig

	JWTSecret     string `env:"JWT_SECRET"`
	JWTExpireHour int64  `env:"JWT_EXPIRE_HOURS"`

	UploadDir      string `env:"UPLOAD_DIR"`
	StorageBackend string `env:"STORAGE_BACKEND"` // disk|minio

	SubmitRate string `env:"SUBMIT_RATE"` // e.g. "10-M"

	CacheType string `env:"CACHE_TYPE"` // local|redis
	RedisAddr string `env:"REDIS_ADDR"`

	GeoIPDB string `env:"GEOIP_DB"`

	SweepSchedule string `env:"SWEEP_SCHEDULE"`
	SearchEnabled bool   `env:"SEARCH_ENABLED"`
}

var GlobalConfig *Config

func Load() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("Failed to load .env file: %v", err)
	}

	GlobalConfig = &Config{
		DBDriver:  util.GetEnvDefault("DB_DRIVER", "sqlite"),
		DSN:       util.GetEnv("DSN"),
		Addr:      util.GetEnvDefault("ADDR", ":8080"),
		Mode:      util.GetEnvDefault("MODE", "development"),
		APIPrefix: util.GetEnvDefault("API_PREFIX", "/api"),
		Log: logger.LogConfig{
			Level:      util.GetEnv("LOG_LEVEL"),
			Filename:   util.GetEnv("LOG_FILENAME"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		JWTSecret:      util.GetEnvDefault("JWT_SECRET", "change-me"),
		JWTExpireHour:  util.GetIntEnv("JWT_EXPIRE_HOURS"),
		UploadDir:      util.GetEnvDefault("UPLOAD_DIR", "uploads"),
		StorageBackend: util.GetEnvDefault("STORAGE_BACKEND", "disk"),
		SubmitRate:     util.GetEnvDefault("SUBMIT_RATE", "10-M"),
		CacheType:      util.GetEnvDefault("CACHE_TYPE", "local"),
		RedisAddr:      util.GetEnv("REDIS_ADDR"),
		GeoIPDB:        util.GetEnv("GEOIP_DB"),
		SweepSchedule:  util.GetEnvDefault("SWEEP_SCHEDULE", "0 3 * * *"),
		SearchEnabled:  util.GetBoolEnv("SEARCH_ENABLED"),
	}
	if GlobalConfig.JWTExpireHour == 0 {
		GlobalConfig.JWTExpireHour = 24
	}
	return nil
}

// Production reports whether the process runs in production mode.
func (c *Config) Production() bool { return c.Mode == "production" }
