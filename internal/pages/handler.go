package pages

import (
	"github.com/gin-gonic/gin"
	"github.com/pressforge/core/internal/pkg/response"
	"github.com/pressforge/core/internal/render"
	"github.com/pressforge/core/internal/sanitize"
	"github.com/pressforge/core/internal/storage"
	"go.uber.org/zap"
)

// Handler serves registered options pages over the admin API.
type Handler struct {
	store    *storage.Store
	san      *sanitize.Sanitizer
	renderer *render.Renderer
	log      *zap.Logger

	order []string
	pages map[string]*OptionsPage
}

func NewHandler(store *storage.Store, san *sanitize.Sanitizer, renderer *render.Renderer, log *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		san:      san,
		renderer: renderer,
		log:      log,
		pages:    map[string]*OptionsPage{},
	}
}

// Register adds a page to the admin menu. Last registration wins on slug
// collision.
func (h *Handler) Register(p *OptionsPage) {
	if _, seen := h.pages[p.Slug]; !seen {
		h.order = append(h.order, p.Slug)
	}
	h.pages[p.Slug] = p
}

// Pages returns registered pages in registration order.
func (h *Handler) Pages() []*OptionsPage {
	out := make([]*OptionsPage, 0, len(h.order))
	for _, slug := range h.order {
		out = append(out, h.pages[slug])
	}
	return out
}

// Page returns one registered page by slug.
func (h *Handler) Page(slug string) (*OptionsPage, bool) {
	p, ok := h.pages[slug]
	return p, ok
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/pages", authMW)
	g.GET("", h.list)
	g.GET("/:slug", h.renderPage)
	g.GET("/:slug/schema", h.pageSchema)
	g.GET("/:slug/values", h.pageValues)
	g.POST("/:slug/save", h.save)
}

func (h *Handler) list(c *gin.Context) {
	items := make([]gin.H, 0, len(h.order))
	for _, p := range h.Pages() {
		items = append(items, gin.H{"slug": p.Slug, "title": p.Title, "option_key": p.OptionKey})
	}
	response.OK(c, items)
}

func (h *Handler) renderPage(c *gin.Context) {
	p, ok := h.pages[c.Param("slug")]
	if !ok {
		response.NotFound(c)
		return
	}
	response.HTML(c, p.RenderPage(c.Request.Context(), h.renderer, h.store, c.Query("tab")))
}

// pageSchema returns the declarative schema for admin SPA clients, defaults
// included, mirroring the stored form-schema endpoint shape.
func (h *Handler) pageSchema(c *gin.Context) {
	p, ok := h.pages[c.Param("slug")]
	if !ok {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{
		"slug":     p.Slug,
		"title":    p.Title,
		"tabs":     p.Tabs,
		"defaults": p.Defaults(),
	})
}

func (h *Handler) pageValues(c *gin.Context) {
	p, ok := h.pages[c.Param("slug")]
	if !ok {
		response.NotFound(c)
		return
	}
	response.OK(c, p.Values(c.Request.Context(), h.store))
}

func (h *Handler) save(c *gin.Context) {
	p, ok := h.pages[c.Param("slug")]
	if !ok {
		response.NotFound(c)
		return
	}
	var submitted map[string]any
	if err := c.ShouldBindJSON(&submitted); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res := p.Save(c.Request.Context(), h.store, h.san, submitted)
	h.log.Info("options page saved",
		zap.String("slug", p.Slug),
		zap.Int("keys", len(res.Saved)),
		zap.Int("errors", len(res.Errors)))
	response.OK(c, res)
}
