// Command sweep runs the orphaned-file cleanup once and exits. The
// server schedules the same sweep on a cron; this is the manual knob.
package main

import (
	"context"
	"log"

	"whistleline/internal/sweeper"
	"whistleline/pkg/config"
	"whistleline/pkg/logger"
	"whistleline/pkg/util"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	if cfg.StorageBackend != "disk" {
		log.Fatal("the sweep only applies to the disk storage backend")
	}

	db, err := util.OpenDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	sweeper.New(db, cfg.UploadDir).Run(context.Background())
}
