package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	handlers "whistleline/internal/handler"
	"whistleline/internal/models"
	"whistleline/internal/sweeper"
	"whistleline/pkg/cache"
	"whistleline/pkg/config"
	"whistleline/pkg/logger"
	"whistleline/pkg/scheduler"
	"whistleline/pkg/search"
	stores "whistleline/pkg/storage"
	"whistleline/pkg/util"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := util.OpenDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("open database", zap.Error(err))
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Alert{},
		&models.Attachment{},
		&models.Admin{},
		&models.ContactMessage{},
		&models.Action{},
		&models.Visitor{},
	); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}

	var store stores.Store
	if cfg.StorageBackend == "minio" {
		store = stores.NewMinioStore()
	} else {
		store = stores.NewDiskStore(cfg.UploadDir)
	}
	if err := store.Init(models.AttachmentCategory, models.ActionImageCategory); err != nil {
		log.Fatalf("init storage: %v", err)
	}

	if err := models.InitGeo(cfg.GeoIPDB); err != nil {
		logger.Warn("geoip database unavailable", zap.Error(err))
	}

	var engine *search.Engine
	if cfg.SearchEnabled {
		engine, err = search.NewMemEngine()
		if err != nil {
			log.Fatalf("init search: %v", err)
		}
		if err := indexPublished(db, engine); err != nil {
			logger.Warn("rebuild search index", zap.Error(err))
		}
	}

	c := cache.New(cache.Config{
		Type:      cfg.CacheType,
		RedisAddr: cfg.RedisAddr,
	})
	defer c.Close()

	cron := scheduler.NewCron(nil)
	if cfg.StorageBackend == "disk" {
		sw := sweeper.New(db, cfg.UploadDir)
		if _, err := cron.Add(cfg.SweepSchedule, sw); err != nil {
			logger.Warn("schedule orphan sweep", zap.Error(err))
		}
	}
	cron.Start()
	defer cron.Stop()

	router := gin.New()
	router.Use(gin.Recovery())

	h := handlers.NewHandlers(db, store, c, engine, cfg)
	h.Register(router)

	logger.Info("server starting", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		log.Fatalf("server stopped: %v", err)
	}
}

func indexPublished(db *gorm.DB, engine *search.Engine) error {
	var alerts []models.Alert
	if err := db.Where("status = ?", models.AlertStatusPublished).Find(&alerts).Error; err != nil {
		return err
	}
	for _, a := range alerts {
		if err := engine.Index(a.ID, a.Title, a.Description, a.Category); err != nil {
			return err
		}
	}
	return nil
}
