package exportimport

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pressforge/core/internal/pages"
	"github.com/pressforge/core/internal/schema"
	"github.com/pressforge/core/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStore() *storage.Store {
	return storage.New(storage.NewMemoryBackend(), nil, zap.NewNop())
}

func themePage() *pages.OptionsPage {
	return pages.NewOptionsPage("theme-options", "Theme Options", "theme_options", []pages.Tab{
		{ID: "general", Sections: []pages.Section{{
			ID: "main",
			Fields: []*schema.Field{
				{ID: "site_title", Type: schema.TypeText, Default: "My Site"},
				{ID: "accent", Type: schema.TypeColor, Default: "#0073aa"},
			},
		}}},
	})
}

func TestExportMergesStoredOverDefaults(t *testing.T) {
	store := testStore()
	ctx := context.Background()
	require.True(t, store.UpdateOption(ctx, "theme_options", map[string]any{
		"site_title": "Renamed",
	}))

	env := Export(ctx, store, []*pages.OptionsPage{themePage()}, "https://example.com")
	assert.Equal(t, FormatVersion, env.Version)
	assert.Equal(t, "https://example.com", env.SiteURL)

	exported, err := time.Parse(time.RFC3339, env.Exported)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), exported, time.Minute)

	settings := env.Settings["theme_options"]
	require.NotNil(t, settings)
	assert.Equal(t, "Renamed", settings["site_title"])
	// untouched keys fall back to their declared defaults
	assert.Equal(t, "#0073aa", settings["accent"])
}

func TestImportRoundTrip(t *testing.T) {
	src := testStore()
	ctx := context.Background()
	require.True(t, src.UpdateOption(ctx, "theme_options", map[string]any{
		"site_title": "Carried over",
	}))

	env := Export(ctx, src, []*pages.OptionsPage{themePage()}, "https://a.example")
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	dst := testStore()
	res := Import(ctx, dst, raw, []string{"theme_options"})
	require.True(t, res.Success)
	assert.Equal(t, []string{"theme_options"}, res.Imported)
	assert.Empty(t, res.Errors)

	got := dst.GetOption(ctx, "theme_options", nil).(map[string]any)
	assert.Equal(t, "Carried over", got["site_title"])
	assert.Equal(t, "#0073aa", got["accent"])
}

func TestImportWhitelistRejection(t *testing.T) {
	store := testStore()
	ctx := context.Background()
	raw := []byte(`{"version":"1.0.0","settings":{
		"theme_options":{"site_title":"ok"},
		"sneaky_options":{"admin":"1"}
	}}`)

	res := Import(ctx, store, raw, []string{"theme_options"})
	assert.False(t, res.Success)
	assert.Equal(t, []string{"theme_options"}, res.Imported)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "sneaky_options")

	// the rejected entry was never written
	assert.Nil(t, store.GetOption(ctx, "sneaky_options", nil))
	assert.NotNil(t, store.GetOption(ctx, "theme_options", nil))
}

func TestImportNilWhitelistAllowsAll(t *testing.T) {
	store := testStore()
	ctx := context.Background()
	raw := []byte(`{"settings":{"anything":{"k":"v"}}}`)

	res := Import(ctx, store, raw, nil)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"anything"}, res.Imported)
}

func TestImportStructuralErrorsAbortBeforeWrites(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"not an object", `[1,2,3]`},
		{"missing settings", `{"version":"1.0.0"}`},
		{"null settings", `{"settings":null}`},
		{"settings not an object", `{"settings":{"theme_options":"text"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := testStore()
			res := Import(ctx, store, []byte(tc.raw), nil)
			assert.False(t, res.Success)
			assert.Empty(t, res.Imported)
			require.NotEmpty(t, res.Errors)
		})
	}
}

func TestValidate(t *testing.T) {
	raw := []byte(`{"version":"1.0.0","exported":"2026-01-02T03:04:05Z","site_url":"https://a.example",
		"settings":{"theme_options":{"k":"v"}}}`)
	res := Validate(raw)
	require.True(t, res.Valid)
	assert.Equal(t, []string{"theme_options"}, res.Options)
	assert.Equal(t, map[string]string{
		"version":  "1.0.0",
		"exported": "2026-01-02T03:04:05Z",
		"site_url": "https://a.example",
	}, res.Meta)

	bad := Validate([]byte(`{"version":"1.0.0"}`))
	assert.False(t, bad.Valid)
	assert.Contains(t, bad.Errors[0], "settings")
}
