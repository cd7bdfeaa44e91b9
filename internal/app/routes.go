package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressforge/core/internal/exportimport"
	"github.com/pressforge/core/internal/media"
	"github.com/pressforge/core/internal/metabox"
	"github.com/pressforge/core/internal/middleware"
	"github.com/pressforge/core/internal/pages"
	"github.com/pressforge/core/internal/pkg/nonce"
	pkgredis "github.com/pressforge/core/internal/pkg/redis"
	"github.com/pressforge/core/internal/pkg/response"
	"github.com/pressforge/core/internal/render"
	"github.com/pressforge/core/internal/sanitize"
	"github.com/pressforge/core/internal/users"
	"go.uber.org/zap"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
			"ok": 0, "code": http.StatusMethodNotAllowed, "message": "method not allowed",
		})
	})

	appInfo := gin.H{
		"name":    "pressforge-core",
		"version": "1.0.0",
	}

	lib := media.NewLibrary(a.db, a.cfg.UploadDir(), a.cfg.SiteURL)
	san := sanitize.New(lib)
	renderer := render.New(a.Framework())
	issuer := nonce.NewIssuer(rc)

	pageHandler := pages.NewHandler(a.store, san, renderer, a.logger)
	boxHandler := metabox.NewHandler(a.store, san, renderer, issuer, a.logger)
	registerDemoSchemas(pageHandler, boxHandler)

	var uploader *exportimport.S3Uploader
	if a.cfg.S3Enabled() {
		var err error
		uploader, err = exportimport.NewS3Uploader(exportimport.S3Options{
			Bucket:          a.cfg.S3.Bucket,
			Region:          a.cfg.S3.Region,
			Endpoint:        a.cfg.S3.Endpoint,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			CustomDomain:    a.cfg.S3.CustomDomain,
			PathStyleAccess: a.cfg.S3.PathStyleAccess,
			Prefix:          a.cfg.S3.Prefix,
		})
		if err != nil {
			a.logger.Warn("s3 export disabled", zap.Error(err))
		}
	}

	api := r.Group("/api/v1")
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	users.NewHandler(users.NewService(a.db)).RegisterRoutes(api, authMW)
	media.NewHandler(lib).RegisterRoutes(api, authMW)

	admin := api.Group("/admin")
	pageHandler.RegisterRoutes(admin, authMW)
	boxHandler.RegisterRoutes(admin, authMW)
	exportimport.NewHandler(a.store, pageHandler, uploader, a.cfg.SiteURL, a.logger).RegisterRoutes(admin, authMW)
}
