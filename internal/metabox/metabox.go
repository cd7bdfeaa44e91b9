package metabox

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pressforge/core/internal/pkg/nonce"
	"github.com/pressforge/core/internal/render"
	"github.com/pressforge/core/internal/sanitize"
	"github.com/pressforge/core/internal/schema"
	"github.com/pressforge/core/internal/storage"
)

// MetaBox binds a flat field list to per-object meta rows: one row per
// top-level field id. Group and repeater values are stored nested inside
// their single row.
type MetaBox struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Screens    []string           `json:"screens"`
	Target     storage.TargetKind `json:"target"`
	Capability string             `json:"capability"`
	Fields     []*schema.Field    `json:"fields"`
}

// NewMetaBox normalizes the schema and fills defaults: post-meta target,
// edit_posts capability.
func NewMetaBox(id, title string, screens []string, fields []*schema.Field) *MetaBox {
	for _, f := range fields {
		schema.ApplyTypeDefaults(f)
	}
	return &MetaBox{
		ID:         id,
		Title:      title,
		Screens:    screens,
		Target:     storage.KindPostMeta,
		Capability: "edit_posts",
		Fields:     fields,
	}
}

// NonceScope names the scope save nonces for this box are bound to.
func (m *MetaBox) NonceScope() string { return "metabox:" + m.ID }

// AppliesTo reports whether the box registers on the given screen.
func (m *MetaBox) AppliesTo(screen string) bool {
	for _, s := range m.Screens {
		if s == screen {
			return true
		}
	}
	return false
}

// Values loads the box's current values for one object, one meta row per
// top-level field.
func (m *MetaBox) Values(ctx context.Context, store *storage.Store, objectID string) map[string]any {
	out := make(map[string]any, len(m.Fields))
	for _, f := range m.Fields {
		if f.IsLayoutOnly() {
			continue
		}
		if v := store.Get(ctx, m.Target, objectID, f.ID, nil); v != nil {
			out[f.ID] = v
		}
	}
	return out
}

// Render produces the box markup in the div-based meta layout, including the
// hidden nonce field the save path requires.
func (m *MetaBox) Render(ctx context.Context, r *render.Renderer, store *storage.Store, issuer *nonce.Issuer, userID, objectID string) string {
	values := m.Values(ctx, store, objectID)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="pf-metabox" id="metabox-%s" data-object-id="%s">`,
		html.EscapeString(m.ID), html.EscapeString(objectID))
	if m.Title != "" {
		fmt.Fprintf(&b, `<h2 class="pf-metabox-title">%s</h2>`, html.EscapeString(m.Title))
	}
	if token, err := issuer.Issue(userID, m.NonceScope()); err == nil {
		fmt.Fprintf(&b, `<input type="hidden" name="_nonce" value="%s">`, html.EscapeString(token))
	}
	for _, f := range m.Fields {
		b.WriteString(r.RenderRow(f, values[f.ID], render.ContextMeta, values))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// SaveStatus is the terminal state of one save attempt.
type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusSkipped SaveStatus = "skipped"
)

// SaveRequest carries everything the guards need.
type SaveRequest struct {
	ObjectID string
	Form     map[string]any
	Nonce    string
	Autosave bool
	// HasCapability answers whether the caller holds a capability.
	HasCapability func(capability string) bool
}

// Save persists the box's fields for one object. Guard failures (bad nonce,
// autosave, missing capability) skip the save silently with no partial
// writes. For each declared field an empty sanitized value deletes the meta
// row; a missing key means delete, not leave-unchanged.
func (m *MetaBox) Save(ctx context.Context, store *storage.Store, san *sanitize.Sanitizer, issuer *nonce.Issuer, req SaveRequest) SaveStatus {
	if req.Autosave {
		return StatusSkipped
	}
	if !issuer.Verify(ctx, req.Nonce, m.NonceScope()) {
		return StatusSkipped
	}
	if req.HasCapability == nil || !req.HasCapability(m.Capability) {
		return StatusSkipped
	}

	for _, f := range m.Fields {
		if f.IsLayoutOnly() {
			continue
		}
		clean := san.Sanitize(req.Form[f.ID], f)
		if isEmptyValue(clean) {
			store.Delete(ctx, m.Target, req.ObjectID, f.ID)
			continue
		}
		store.Update(ctx, m.Target, req.ObjectID, f.ID, clean)
	}
	return StatusSaved
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case []map[string]any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	}
	return schema.IsEmpty(v)
}
