package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whistleline/internal/models"
	"whistleline/pkg/logger"
	"whistleline/pkg/response"
)

const statsCacheTTL = 60 * time.Second

// handleSiteStats serves the dashboard aggregates through a short-lived
// cache so repeated dashboard refreshes do not hammer the database.
func (h *Handlers) handleSiteStats(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	key := "site-stats:" + start + ":" + end

	if cached, ok := h.cache.Get(c.Request.Context(), key); ok {
		response.Data(c, cached)
		return
	}

	stats, err := models.GetSiteStats(h.db, start, end)
	if err != nil {
		h.fail(c, err, "an error occurred while computing statistics")
		return
	}
	if err := h.cache.Set(c.Request.Context(), key, stats, statsCacheTTL); err != nil {
		logger.Warn("cache site stats", zap.Error(err))
	}

	response.Data(c, stats)
}
