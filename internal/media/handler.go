package media

import (
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pressforge/core/internal/middleware"
	"github.com/pressforge/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Handler serves the media library over the admin API.
type Handler struct {
	lib *Library
}

func NewHandler(lib *Library) *Handler {
	return &Handler{lib: lib}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/media")

	g.GET("/file/:name", h.serveFile)

	g.Use(authMW, middleware.RequireCapability("upload_files"))
	g.POST("/upload", h.upload)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.remove)
}

func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()
	payload, err := io.ReadAll(io.LimitReader(f, 32<<20))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	att, err := h.lib.Add(c.Request.Context(), fileHeader.Filename, payload)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, att)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, total, err := h.lib.List(c.Request.Context(), c.Query("type"), limit, offset)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(200, gin.H{"data": items, "total": total})
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid attachment id")
		return
	}
	att, err := h.lib.Get(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, att)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid attachment id")
		return
	}
	if err := h.lib.Remove(c.Request.Context(), id); err != nil {
		if err == gorm.ErrRecordNotFound {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) serveFile(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	path, ok := h.lib.FilePath(name)
	if !ok {
		response.NotFound(c)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}
