package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"whistleline/internal/models"
	"whistleline/pkg/cache"
	"whistleline/pkg/config"
	apperrors "whistleline/pkg/errors"
	"whistleline/pkg/logger"
	"whistleline/pkg/metrics"
	"whistleline/pkg/middleware"
	"whistleline/pkg/response"
	"whistleline/pkg/search"
	stores "whistleline/pkg/storage"
)

type Handlers struct {
	db     *gorm.DB
	store  stores.Store
	cache  cache.Cache
	search *search.Engine
	cfg    *config.Config
}

func NewHandlers(db *gorm.DB, store stores.Store, c cache.Cache, engine *search.Engine, cfg *config.Config) *Handlers {
	return &Handlers{
		db:     db,
		store:  store,
		cache:  c,
		search: engine,
		cfg:    cfg,
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	engine.Use(metrics.Middleware())
	engine.GET("/metrics", metrics.Handler())

	// Attachments are served straight from the upload tree; read access
	// is deliberately unauthenticated, matching the current product
	// decision (see DESIGN.md).
	if h.cfg.StorageBackend == "disk" {
		engine.Static("/uploads", h.cfg.UploadDir)
	}

	r := engine.Group(h.cfg.APIPrefix)
	r.Use(middleware.InjectDB(h.db))

	h.registerSystemRoutes(r)
	h.registerAuthRoutes(r)
	h.registerAlertRoutes(r)
	h.registerUploadRoutes(r)
	h.registerContactRoutes(r)
	h.registerActionRoutes(r)
	h.registerStatsRoutes(r)

	if h.search != nil {
		r.GET("/search", models.VisitorLogMiddleware(), h.handleSearchAlerts)
	}
}

func (h *Handlers) registerAlertRoutes(r *gin.RouterGroup) {
	alerts := r.Group("alerts")
	{
		alerts.POST("", middleware.RateLimit(h.cfg.SubmitRate), models.VisitorLogMiddleware(), h.handleCreateAlert)

		alerts.GET("", h.handleListAlerts)

		auth := models.AuthRequired(h.cfg.JWTSecret)

		alerts.PATCH("/:id/status", auth, h.handleUpdateAlertStatus)

		alerts.DELETE("/:id", auth, h.handleDeleteAlert)
	}
}

func (h *Handlers) registerUploadRoutes(r *gin.RouterGroup) {
	uploads := r.Group("uploads")
	uploads.Use(models.AuthRequired(h.cfg.JWTSecret))
	{
		uploads.POST("/:alertId", h.handleUploadAttachment)

		uploads.GET("/:alertId", h.handleListAttachments)

		uploads.DELETE("/:id", h.handleDeleteAttachment)
	}
}

func (h *Handlers) registerContactRoutes(r *gin.RouterGroup) {
	contact := r.Group("contact")
	{
		contact.POST("", middleware.RateLimit(h.cfg.SubmitRate), models.VisitorLogMiddleware(), h.handleCreateContact)

		auth := models.AuthRequired(h.cfg.JWTSecret)

		contact.GET("", auth, h.handleListContacts)

		contact.GET("/:id", auth, h.handleGetContact)

		contact.PATCH("/:id/status", auth, h.handleUpdateContactStatus)

		contact.PATCH("/:id/read", auth, h.handleToggleContactRead)

		contact.DELETE("/:id", auth, h.handleDeleteContact)
	}
}

func (h *Handlers) registerActionRoutes(r *gin.RouterGroup) {
	actions := r.Group("actions")
	{
		actions.GET("", models.VisitorLogMiddleware(), h.handleListActions)

		actions.GET("/:id", models.VisitorLogMiddleware(), h.handleGetAction)

		auth := models.AuthRequired(h.cfg.JWTSecret)

		actions.POST("", auth, h.handleCreateAction)

		actions.DELETE("/:id", auth, h.handleDeleteAction)
	}
}

func (h *Handlers) registerAuthRoutes(r *gin.RouterGroup) {
	auth := r.Group("auth")
	{
		auth.POST("/login", h.handleLogin)

		auth.GET("/me", models.AuthRequired(h.cfg.JWTSecret), h.handleMe)

		auth.GET("/check", models.AuthRequired(h.cfg.JWTSecret), h.handleCheckAuth)
	}
}

func (h *Handlers) registerStatsRoutes(r *gin.RouterGroup) {
	r.GET("/stats", models.AuthRequired(h.cfg.JWTSecret), h.handleSiteStats)
}

func (h *Handlers) registerSystemRoutes(r *gin.RouterGroup) {
	system := r.Group("system")
	{
		system.GET("/health", h.HealthCheck)

		system.GET("/stats", models.AuthRequired(h.cfg.JWTSecret), h.handleSystemStats)
	}
}

// fail maps coded errors onto the stable error response shape. Internal
// causes are logged and only surfaced outside production.
func (h *Handlers) fail(c *gin.Context, err error, genericMsg string) {
	switch apperrors.GetCode(err) {
	case apperrors.CodeNotFound:
		response.Fail(c, http.StatusNotFound, apperrors.GetMessage(err))
	case apperrors.CodeValidation, apperrors.CodeInvalidStatus, apperrors.CodeInvalidFilter,
		apperrors.CodeFileTooLarge, apperrors.CodeUnsupportedFileType:
		response.Fail(c, http.StatusBadRequest, apperrors.GetMessage(err))
	default:
		logger.Error(genericMsg, zap.Error(err))
		response.FailWithDetails(c, http.StatusInternalServerError, genericMsg, err.Error(), h.cfg.Production())
	}
}
