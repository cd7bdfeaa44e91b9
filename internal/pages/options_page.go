package pages

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pressforge/core/internal/render"
	"github.com/pressforge/core/internal/sanitize"
	"github.com/pressforge/core/internal/schema"
	"github.com/pressforge/core/internal/storage"
	"github.com/pressforge/core/internal/uimap"
)

// Section is a titled run of fields inside a tab.
type Section struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Fields []*schema.Field `json:"fields"`
}

// Tab groups sections. Pages without explicit tabs use one implicit tab.
type Tab struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// OptionsPage binds a tabbed field tree to a single option key. All values of
// the page live in one stored associative array keyed by flattened field id;
// group and accordion children are stored under {parent}_{child} keys.
type OptionsPage struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	OptionKey  string `json:"option_key"`
	Capability string `json:"capability"`
	Tabs       []Tab  `json:"tabs"`

	index *schema.Index
}

// NewOptionsPage normalizes the schema (type defaults) and builds the
// flattened field index.
func NewOptionsPage(slug, title, optionKey string, tabs []Tab) *OptionsPage {
	p := &OptionsPage{
		Slug:       slug,
		Title:      title,
		OptionKey:  optionKey,
		Capability: "manage_options",
		Tabs:       tabs,
	}
	for _, f := range p.allFields() {
		schema.ApplyTypeDefaults(f)
	}
	p.index = schema.Flatten(p.allFields())
	return p
}

func (p *OptionsPage) allFields() []*schema.Field {
	var out []*schema.Field
	for _, tab := range p.Tabs {
		for _, section := range tab.Sections {
			out = append(out, section.Fields...)
		}
	}
	return out
}

// Index returns the flattened field index for the whole page.
func (p *OptionsPage) Index() *schema.Index { return p.index }

// Tabbed reports whether the page renders tab navigation.
func (p *OptionsPage) Tabbed() bool { return len(p.Tabs) > 1 }

// Defaults returns the page's declared default values keyed by flattened id.
func (p *OptionsPage) Defaults() map[string]any { return p.index.Defaults() }

// Values reads the page's stored map merged over nothing: absent keys are
// simply missing; defaults are substituted at render time per field.
func (p *OptionsPage) Values(ctx context.Context, store *storage.Store) map[string]any {
	m, ok := store.GetOption(ctx, p.OptionKey, nil).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// SaveResult reports what one submission did.
type SaveResult struct {
	Saved  []string `json:"saved"`
	Errors []string `json:"errors,omitempty"`
}

// Save sanitizes the submitted payload key-by-key against declared fields and
// merges each key into the stored option individually. Keys not submitted are
// left untouched, so saving one tab never erases another tab's values.
// Undeclared keys pass through the generic sanitizer instead of being dropped.
func (p *OptionsPage) Save(ctx context.Context, store *storage.Store, san *sanitize.Sanitizer, submitted map[string]any) SaveResult {
	res := SaveResult{}
	for key, raw := range submitted {
		field, declared := p.index.Get(key)
		var clean any
		if declared {
			clean = san.Sanitize(raw, field)
			if v := sanitize.Validate(clean, field); !v.Valid {
				res.Errors = append(res.Errors, v.Errors...)
			}
		} else {
			clean = sanitize.Generic(raw)
		}
		if store.UpdateOptionKey(ctx, p.OptionKey, key, clean) {
			res.Saved = append(res.Saved, key)
		} else {
			res.Errors = append(res.Errors, fmt.Sprintf("failed to save %s", key))
		}
	}
	return res
}

// RenderPage renders the page (or one tab of it) as admin markup: tab nav,
// section tables, and rows for every field with current values.
func (p *OptionsPage) RenderPage(ctx context.Context, r *render.Renderer, store *storage.Store, activeTab string) string {
	values := p.Values(ctx, store)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="%s pf-options-page" data-page="%s">`,
		html.EscapeString(uimap.Resolve(r.Framework, "container")), html.EscapeString(p.Slug))
	fmt.Fprintf(&b, `<h1>%s</h1>`, html.EscapeString(p.Title))

	tabs := p.Tabs
	if p.Tabbed() {
		b.WriteString(`<nav class="pf-tabs">`)
		for _, tab := range p.Tabs {
			cls := "pf-tab"
			if tab.ID == activeTab {
				cls += " pf-tab-active"
			}
			fmt.Fprintf(&b, `<a class="%s" href="?tab=%s">%s</a>`,
				cls, html.EscapeString(tab.ID), html.EscapeString(tab.Title))
		}
		b.WriteString(`</nav>`)
		if activeTab != "" {
			for _, tab := range p.Tabs {
				if tab.ID == activeTab {
					tabs = []Tab{tab}
					break
				}
			}
		}
	}

	for _, tab := range tabs {
		for _, section := range tab.Sections {
			if section.Title != "" {
				fmt.Fprintf(&b, `<h2 class="pf-section-title">%s</h2>`, html.EscapeString(section.Title))
			}
			fmt.Fprintf(&b, `<table class="%s pf-section" data-section="%s"><tbody>`,
				html.EscapeString(uimap.Resolve(r.Framework, "table")), html.EscapeString(section.ID))
			renderFields(&b, r, section.Fields, "", values)
			b.WriteString(`</tbody></table>`)
		}
	}

	fmt.Fprintf(&b, `<button type="submit" class="%s pf-save">Save Changes</button>`,
		html.EscapeString(uimap.Resolve(r.Framework, "btn-primary")))
	b.WriteString(`</div>`)
	return b.String()
}

// renderFields walks a section's tree the same way Flatten does: group and
// accordion children render as their own rows under prefixed ids, reading
// values from the page's flat map.
func renderFields(b *strings.Builder, r *render.Renderer, fields []*schema.Field, prefix string, values map[string]any) {
	for _, f := range fields {
		switch f.Type {
		case schema.TypeGroup, schema.TypeAccordion:
			if f.Label != "" {
				fmt.Fprintf(b, `<tr class="pf-group-row"><th colspan="2">%s</th></tr>`, html.EscapeString(f.Label))
			}
			renderFields(b, r, f.Fields, schema.PrefixID(prefix, f.ID), values)
		default:
			entry := f
			if prefix != "" {
				entry = f.Clone()
				entry.ID = schema.PrefixID(prefix, f.ID)
			}
			b.WriteString(r.RenderRow(entry, values[entry.ID], render.ContextOptions, values))
		}
	}
}
