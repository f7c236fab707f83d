package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"whistleline/internal/models"
	"whistleline/pkg/response"
)

const searchResultLimit = 20

// handleSearchAlerts runs a full-text query over published alerts and
// returns the matching rows in relevance order.
func (h *Handlers) handleSearchAlerts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.Fail(c, http.StatusBadRequest, "a search query is required")
		return
	}

	hits, err := h.search.Search(query, searchResultLimit)
	if err != nil {
		h.fail(c, err, "an error occurred while searching")
		return
	}
	if len(hits) == 0 {
		response.Data(c, []models.Alert{})
		return
	}

	ids := make([]uint, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}
	var rows []models.Alert
	if err := h.db.Preload("Attachments").
		Where("id IN ? AND status = ?", ids, models.AlertStatusPublished).
		Find(&rows).Error; err != nil {
		h.fail(c, err, "an error occurred while loading search results")
		return
	}

	byID := make(map[uint]models.Alert, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	ordered := make([]models.Alert, 0, len(rows))
	for _, hit := range hits {
		if row, ok := byID[hit.ID]; ok {
			ordered = append(ordered, row)
		}
	}

	response.Data(c, ordered)
}
