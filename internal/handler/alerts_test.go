package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whistleline/internal/models"
)

func TestCreateAlertEndpoint(t *testing.T) {
	t.Run("valid submission returns reference", func(t *testing.T) {
		s := newTestServer(t)
		body, ct := multipartBody(t, validAlertFields())
		w := s.do(t, http.MethodPost, "/api/alerts", "", body, ct)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]interface{})
		assert.Equal(t, "ALERT-000001", data["reference"])
		assert.Equal(t, "pending", data["status"])
	})

	t.Run("validation reports every failing field", func(t *testing.T) {
		s := newTestServer(t)
		body, ct := multipartBody(t, map[string]string{
			"title":       "abc",
			"description": "short",
		})
		w := s.do(t, http.MethodPost, "/api/alerts", "", body, ct)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, true, resp["validation"])
		errs := resp["errors"].([]interface{})
		require.Len(t, errs, 2)
		params := []string{
			errs[0].(map[string]interface{})["param"].(string),
			errs[1].(map[string]interface{})["param"].(string),
		}
		assert.Contains(t, params, "title")
		assert.Contains(t, params, "description")

		var count int64
		s.db.Model(&models.Alert{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("submission with attachments stores files", func(t *testing.T) {
		s := newTestServer(t)
		body, ct := multipartBody(t, validAlertFields(),
			formFile{field: "files", name: "proof.pdf", contentType: "application/pdf", content: []byte("%PDF-1.4")},
			formFile{field: "files", name: "photo.png", contentType: "image/png", content: []byte("png-bytes")},
		)
		w := s.do(t, http.MethodPost, "/api/alerts", "", body, ct)
		require.Equal(t, http.StatusCreated, w.Code)

		var attachments []models.Attachment
		require.NoError(t, s.db.Find(&attachments).Error)
		require.Len(t, attachments, 2)
		for _, att := range attachments {
			_, err := os.Stat(filepath.Join(s.cfg.UploadDir, filepath.FromSlash(att.FilePath)))
			assert.NoError(t, err)
		}
	})

	t.Run("oversized attachment leaves no trace", func(t *testing.T) {
		s := newTestServer(t)
		big := make([]byte, models.MaxAttachmentSize+1)
		body, ct := multipartBody(t, validAlertFields(),
			formFile{field: "files", name: "big.bin", contentType: "application/octet-stream", content: big},
		)
		w := s.do(t, http.MethodPost, "/api/alerts", "", body, ct)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var alerts, attachments int64
		s.db.Model(&models.Alert{}).Count(&alerts)
		s.db.Model(&models.Attachment{}).Count(&attachments)
		assert.Zero(t, alerts)
		assert.Zero(t, attachments)

		entries, err := os.ReadDir(filepath.Join(s.cfg.UploadDir, models.AttachmentCategory))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestModerationEndpoints(t *testing.T) {
	t.Run("status change requires authentication", func(t *testing.T) {
		s := newTestServer(t)
		id := s.submitAlert(t)
		w := s.doJSON(t, http.MethodPatch, "/api/alerts/1/status", "", map[string]string{"status": "published"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var alert models.Alert
		require.NoError(t, s.db.First(&alert, id).Error)
		assert.Equal(t, models.AlertStatusPending, alert.Status)
	})

	t.Run("publish then filter", func(t *testing.T) {
		s := newTestServer(t)
		token := s.adminToken(t)
		id := s.submitAlert(t)
		s.submitAlert(t)

		w := s.doJSON(t, http.MethodPatch, "/api/alerts/1/status", token, map[string]string{"status": "published"})
		require.Equal(t, http.StatusOK, w.Code)
		data := decodeBody(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "published", data["status"])
		assert.NotNil(t, data["published_at"])

		w = s.do(t, http.MethodGet, "/api/alerts?status=published", "", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		list := decodeBody(t, w)["data"].([]interface{})
		require.Len(t, list, 1)
		assert.Equal(t, float64(id), list[0].(map[string]interface{})["id"])

		w = s.do(t, http.MethodGet, "/api/alerts?status=pending", "", nil, "")
		list = decodeBody(t, w)["data"].([]interface{})
		assert.Len(t, list, 1)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodGet, "/api/alerts?status=archived", "", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid target status", func(t *testing.T) {
		s := newTestServer(t)
		token := s.adminToken(t)
		s.submitAlert(t)
		w := s.doJSON(t, http.MethodPatch, "/api/alerts/1/status", token, map[string]string{"status": "archived"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestServer(t)
		token := s.adminToken(t)
		id := s.submitAlert(t)

		w := s.do(t, http.MethodDelete, "/api/alerts/99999", token, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodDelete, "/api/alerts/1", token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		s.db.Model(&models.Alert{}).Where("id = ?", id).Count(&count)
		assert.Zero(t, count)
	})
}
