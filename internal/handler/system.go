package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"whistleline/pkg/response"
)

var startTime = time.Now()

// HealthCheck reports liveness plus database reachability.
func (h *Handlers) HealthCheck(c *gin.Context) {
	dbStatus := "up"
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	status := http.StatusOK
	if dbStatus != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"success":  dbStatus == "up",
		"status":   dbStatus,
		"uptime":   time.Since(startTime).Round(time.Second).String(),
		"database": dbStatus,
	})
}

// handleSystemStats exposes host and process resource usage for the
// admin dashboard.
func (h *Handlers) handleSystemStats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := gin.H{
		"goroutines":   runtime.NumGoroutine(),
		"heap_alloc":   m.HeapAlloc,
		"heap_objects": m.HeapObjects,
		"gc_cycles":    m.NumGC,
		"uptime":       time.Since(startTime).Round(time.Second).String(),
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats["mem_total"] = vm.Total
		stats["mem_used"] = vm.Used
		stats["mem_percent"] = vm.UsedPercent
	}

	response.Data(c, stats)
}
