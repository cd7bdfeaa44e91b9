package metabox

import (
	"github.com/gin-gonic/gin"
	"github.com/pressforge/core/internal/middleware"
	"github.com/pressforge/core/internal/pkg/nonce"
	"github.com/pressforge/core/internal/pkg/response"
	"github.com/pressforge/core/internal/render"
	"github.com/pressforge/core/internal/sanitize"
	"github.com/pressforge/core/internal/storage"
	"go.uber.org/zap"
)

// Handler serves registered meta boxes over the admin API.
type Handler struct {
	store    *storage.Store
	san      *sanitize.Sanitizer
	renderer *render.Renderer
	issuer   *nonce.Issuer
	log      *zap.Logger

	order []string
	boxes map[string]*MetaBox
}

func NewHandler(store *storage.Store, san *sanitize.Sanitizer, renderer *render.Renderer, issuer *nonce.Issuer, log *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		san:      san,
		renderer: renderer,
		issuer:   issuer,
		log:      log,
		boxes:    map[string]*MetaBox{},
	}
}

// Register adds a meta box. Last registration wins on id collision.
func (h *Handler) Register(m *MetaBox) {
	if _, seen := h.boxes[m.ID]; !seen {
		h.order = append(h.order, m.ID)
	}
	h.boxes[m.ID] = m
}

// Box returns one registered box by id.
func (h *Handler) Box(id string) (*MetaBox, bool) {
	m, ok := h.boxes[id]
	return m, ok
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/metaboxes", authMW)
	g.GET("", h.list)
	g.GET("/:id/render", h.renderBox)
	g.POST("/:id/save", h.save)
}

func (h *Handler) list(c *gin.Context) {
	screen := c.Query("screen")
	items := make([]gin.H, 0, len(h.order))
	for _, id := range h.order {
		m := h.boxes[id]
		if screen != "" && !m.AppliesTo(screen) {
			continue
		}
		items = append(items, gin.H{"id": m.ID, "title": m.Title, "screens": m.Screens, "target": m.Target})
	}
	response.OK(c, items)
}

func (h *Handler) renderBox(c *gin.Context) {
	m, ok := h.boxes[c.Param("id")]
	if !ok {
		response.NotFound(c)
		return
	}
	objectID := c.Query("object_id")
	if objectID == "" {
		response.BadRequest(c, "object_id is required")
		return
	}
	userID := middleware.CurrentUserID(c)
	response.HTML(c, m.Render(c.Request.Context(), h.renderer, h.store, h.issuer, userID, objectID))
}

type saveDTO struct {
	ObjectID string         `json:"object_id" binding:"required"`
	Nonce    string         `json:"_nonce"`
	Autosave bool           `json:"_autosave"`
	Fields   map[string]any `json:"fields"`
}

// save runs the guarded save pipeline. Guard failures return 200 with
// status=skipped: the host never surfaces them as errors.
func (h *Handler) save(c *gin.Context) {
	m, ok := h.boxes[c.Param("id")]
	if !ok {
		response.NotFound(c)
		return
	}
	var dto saveDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.Nonce == "" {
		dto.Nonce = c.GetHeader("X-PF-Nonce")
	}
	if !dto.Autosave {
		dto.Autosave = c.GetHeader("X-Autosave") == "1"
	}

	claims := middleware.CurrentClaims(c)
	req := SaveRequest{
		ObjectID: dto.ObjectID,
		Form:     dto.Fields,
		Nonce:    dto.Nonce,
		Autosave: dto.Autosave,
		HasCapability: func(capability string) bool {
			return claims != nil && claims.HasCapability(capability)
		},
	}
	status := m.Save(c.Request.Context(), h.store, h.san, h.issuer, req)
	h.log.Info("meta box save",
		zap.String("box", m.ID),
		zap.String("object", dto.ObjectID),
		zap.String("status", string(status)))
	response.OK(c, gin.H{"status": status})
}
