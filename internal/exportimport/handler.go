package exportimport

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressforge/core/internal/middleware"
	"github.com/pressforge/core/internal/pages"
	"github.com/pressforge/core/internal/pkg/response"
	"github.com/pressforge/core/internal/storage"
	"go.uber.org/zap"
)

// Handler exposes settings export and restore over the admin API.
type Handler struct {
	store    *storage.Store
	pages    *pages.Handler
	uploader *S3Uploader
	siteURL  string
	log      *zap.Logger
}

// NewHandler builds the export/import handler. uploader may be nil when no
// object storage is configured; the s3 endpoint then reports bad request.
func NewHandler(store *storage.Store, pageHandler *pages.Handler, uploader *S3Uploader, siteURL string, log *zap.Logger) *Handler {
	return &Handler{store: store, pages: pageHandler, uploader: uploader, siteURL: siteURL, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/settings", authMW, middleware.RequireCapability("manage_options"))
	g.GET("/export", h.export)
	g.POST("/export/s3", h.exportToS3)
	g.POST("/import", h.importSettings)
	g.POST("/import/validate", h.validate)
}

func (h *Handler) export(c *gin.Context) {
	env := Export(c.Request.Context(), h.store, h.pages.Pages(), h.siteURL)
	filename := fmt.Sprintf("settings-%s.json", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(200, env)
}

func (h *Handler) exportToS3(c *gin.Context) {
	if h.uploader == nil {
		response.BadRequest(c, "object storage is not configured")
		return
	}
	env := Export(c.Request.Context(), h.store, h.pages.Pages(), h.siteURL)
	payload, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	key := fmt.Sprintf("settings/settings-%s.json", time.Now().UTC().Format("20060102-150405"))
	url, err := h.uploader.Upload(c.Request.Context(), key, payload, "application/json")
	if err != nil {
		h.log.Error("settings export to s3 failed", zap.Error(err))
		response.InternalError(c, err)
		return
	}
	h.log.Info("settings exported to s3", zap.String("key", key))
	response.OK(c, gin.H{"key": key, "url": url})
}

func (h *Handler) importSettings(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 8<<20))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	allowed := make([]string, 0)
	for _, p := range h.pages.Pages() {
		allowed = append(allowed, p.OptionKey)
	}
	res := Import(c.Request.Context(), h.store, raw, allowed)
	h.log.Info("settings import",
		zap.Bool("success", res.Success),
		zap.Int("imported", len(res.Imported)),
		zap.Int("errors", len(res.Errors)))
	if len(res.Imported) == 0 && len(res.Errors) > 0 {
		c.AbortWithStatusJSON(422, res)
		return
	}
	response.OK(c, res)
}

func (h *Handler) validate(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 8<<20))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, Validate(raw))
}
