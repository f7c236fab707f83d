package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"whistleline/internal/models"
	"whistleline/pkg/cache"
	"whistleline/pkg/config"
	stores "whistleline/pkg/storage"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Alert{}, &models.Attachment{}, &models.Admin{},
		&models.ContactMessage{}, &models.Action{}, &models.Visitor{},
	))

	cfg := &config.Config{
		Mode:           "development",
		APIPrefix:      "/api",
		JWTSecret:      "test-secret",
		JWTExpireHour:  1,
		UploadDir:      t.TempDir(),
		StorageBackend: "disk",
		SubmitRate:     "100-M",
		CacheType:      "local",
	}

	store := stores.NewDiskStore(cfg.UploadDir)
	require.NoError(t, store.Init(models.AttachmentCategory, models.ActionImageCategory))

	c := cache.New(cache.Config{Type: "local"})
	t.Cleanup(func() { c.Close() })

	router := gin.New()
	NewHandlers(db, store, c, nil, cfg).Register(router)

	return &testServer{router: router, db: db, cfg: cfg}
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	admin := models.Admin{Name: "Test Admin", Email: "admin@example.org", Role: "admin"}
	require.NoError(t, admin.SetPassword("hunter22"))
	require.NoError(t, s.db.Create(&admin).Error)
	token, err := admin.GenerateToken(s.cfg.JWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(t, method, path, token, bytes.NewReader(raw), "application/json")
}

type formFile struct {
	field, name, contentType string
	content                  []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		hdr := make(map[string][]string)
		hdr["Content-Disposition"] = []string{`form-data; name="` + f.field + `"; filename="` + f.name + `"`}
		hdr["Content-Type"] = []string{f.contentType}
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func validAlertFields() map[string]string {
	return map[string]string{
		"title":       "Suspicious invoicing in procurement",
		"description": strings.Repeat("Invoices approved without supporting documents. ", 2),
	}
}

func (s *testServer) submitAlert(t *testing.T) uint {
	t.Helper()
	body, ct := multipartBody(t, validAlertFields())
	w := s.do(t, http.MethodPost, "/api/alerts", "", body, ct)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	return uint(data["id"].(float64))
}
