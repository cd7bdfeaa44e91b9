package pages

import (
	"context"
	"testing"

	"github.com/pressforge/core/internal/render"
	"github.com/pressforge/core/internal/sanitize"
	"github.com/pressforge/core/internal/schema"
	"github.com/pressforge/core/internal/storage"
	"github.com/pressforge/core/internal/uimap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPage() *OptionsPage {
	return NewOptionsPage("theme-options", "Theme Options", "theme_options", []Tab{
		{
			ID: "general", Title: "General",
			Sections: []Section{{
				ID: "branding", Title: "Branding",
				Fields: []*schema.Field{
					{ID: "site_title", Type: schema.TypeText, Label: "Site Title", Required: true},
					{
						ID: "social", Type: schema.TypeGroup, Label: "Social",
						Fields: []*schema.Field{
							{ID: "twitter", Type: schema.TypeURL, Label: "Twitter"},
						},
					},
				},
			}},
		},
		{
			ID: "layout", Title: "Layout",
			Sections: []Section{{
				ID: "header",
				Fields: []*schema.Field{
					{ID: "sticky", Type: schema.TypeCheckbox, Label: "Sticky header"},
				},
			}},
		},
	})
}

func testStore() *storage.Store {
	return storage.New(storage.NewMemoryBackend(), nil, zap.NewNop())
}

func TestNewOptionsPageBuildsFlatIndex(t *testing.T) {
	p := testPage()
	assert.True(t, p.Tabbed())
	assert.Equal(t, "manage_options", p.Capability)
	assert.Equal(t, []string{"site_title", "social_twitter", "sticky"}, p.Index().IDs())

	// type defaults got applied during construction
	defaults := p.Defaults()
	assert.Equal(t, false, defaults["sticky"])
}

func TestOptionsPageValues(t *testing.T) {
	p := testPage()
	store := testStore()
	ctx := context.Background()

	assert.Empty(t, p.Values(ctx, store))

	require.True(t, store.UpdateOption(ctx, "theme_options", map[string]any{"site_title": "My Site"}))
	assert.Equal(t, map[string]any{"site_title": "My Site"}, p.Values(ctx, store))
}

func TestOptionsPageSaveSanitizesDeclaredFields(t *testing.T) {
	p := testPage()
	store := testStore()
	san := sanitize.New(nil)
	ctx := context.Background()

	res := p.Save(ctx, store, san, map[string]any{
		"site_title":     "  <b>My Site</b>  ",
		"social_twitter": "javascript:alert(1)",
	})
	assert.Empty(t, res.Errors)
	assert.ElementsMatch(t, []string{"site_title", "social_twitter"}, res.Saved)

	values := p.Values(ctx, store)
	assert.Equal(t, "My Site", values["site_title"])
	// disallowed scheme sanitizes to empty
	assert.Equal(t, "", values["social_twitter"])
}

func TestOptionsPageSaveUndeclaredKeysGetGenericTreatment(t *testing.T) {
	p := testPage()
	store := testStore()
	ctx := context.Background()

	res := p.Save(ctx, store, sanitize.New(nil), map[string]any{
		"mystery": "<script>x</script>ok",
	})
	assert.Equal(t, []string{"mystery"}, res.Saved)
	assert.Equal(t, "xok", p.Values(ctx, store)["mystery"])
}

func TestOptionsPageSaveKeepsOtherTabsIntact(t *testing.T) {
	p := testPage()
	store := testStore()
	san := sanitize.New(nil)
	ctx := context.Background()

	p.Save(ctx, store, san, map[string]any{"site_title": "Kept"})
	p.Save(ctx, store, san, map[string]any{"sticky": "1"})

	values := p.Values(ctx, store)
	assert.Equal(t, "Kept", values["site_title"])
	assert.Equal(t, true, values["sticky"])
}

func TestOptionsPageSaveRecordsValidationErrors(t *testing.T) {
	p := testPage()
	store := testStore()
	ctx := context.Background()

	res := p.Save(ctx, store, sanitize.New(nil), map[string]any{"site_title": ""})
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "required")
	// the sanitized value is still persisted alongside the reported error
	assert.Equal(t, []string{"site_title"}, res.Saved)
}

func TestRenderPageTabs(t *testing.T) {
	p := testPage()
	store := testStore()
	r := render.New(uimap.Bootstrap)
	ctx := context.Background()

	out := p.RenderPage(ctx, r, store, "layout")
	assert.Contains(t, out, `<nav class="pf-tabs">`)
	assert.Contains(t, out, `class="pf-tab pf-tab-active" href="?tab=layout"`)
	assert.Contains(t, out, `data-section="header"`)
	// only the active tab's sections render
	assert.NotContains(t, out, `data-section="branding"`)
	assert.Contains(t, out, `pf-save">Save Changes</button>`)
}

func TestRenderPageAllTabsWhenNoneActive(t *testing.T) {
	p := testPage()
	store := testStore()
	r := render.New(uimap.Bootstrap)

	out := p.RenderPage(context.Background(), r, store, "")
	assert.Contains(t, out, `data-section="branding"`)
	assert.Contains(t, out, `data-section="header"`)
}

func TestRenderPageGroupRowsUsePrefixedIDs(t *testing.T) {
	p := testPage()
	store := testStore()
	ctx := context.Background()
	require.True(t, store.UpdateOption(ctx, "theme_options", map[string]any{
		"social_twitter": "https://t.co/x",
	}))

	out := p.RenderPage(ctx, render.New(uimap.Bootstrap), store, "general")
	assert.Contains(t, out, `<tr class="pf-group-row"><th colspan="2">Social</th></tr>`)
	assert.Contains(t, out, `name="social_twitter"`)
	assert.Contains(t, out, `value="https://t.co/x"`)
}

func TestRenderPageSingleTabHasNoNav(t *testing.T) {
	p := NewOptionsPage("simple", "Simple", "simple_opts", []Tab{
		{ID: "only", Sections: []Section{{
			ID:     "main",
			Fields: []*schema.Field{{ID: "x", Type: schema.TypeText, Label: "X"}},
		}}},
	})
	out := p.RenderPage(context.Background(), render.New(uimap.Bootstrap), testStore(), "")
	assert.False(t, p.Tabbed())
	assert.NotContains(t, out, "pf-tabs")
}
