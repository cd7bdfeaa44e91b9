package app

import (
	"github.com/pressforge/core/internal/metabox"
	"github.com/pressforge/core/internal/pages"
	"github.com/pressforge/core/internal/schema"
)

// registerDemoSchemas installs the built-in "Theme Options" page and a post
// SEO meta box. Hosts typically replace these with their own registrations.
func registerDemoSchemas(pageHandler *pages.Handler, boxHandler *metabox.Handler) {
	pageHandler.Register(themeOptionsPage())
	boxHandler.Register(seoMetaBox())
}

func themeOptionsPage() *pages.OptionsPage {
	return pages.NewOptionsPage("theme-options", "Theme Options", "theme_options", []pages.Tab{
		{
			ID:    "general",
			Title: "General",
			Sections: []pages.Section{
				{
					ID:    "branding",
					Title: "Branding",
					Fields: []*schema.Field{
						{ID: "site_title", Type: schema.TypeText, Label: "Site Title", Required: true, Default: "My Site"},
						{ID: "tagline", Type: schema.TypeText, Label: "Tagline", Placeholder: "Just another site"},
						{ID: "logo", Type: schema.TypeImage, Label: "Logo"},
						{ID: "accent_color", Type: schema.TypeColor, Label: "Accent Color", Default: "#0073aa"},
					},
				},
				{
					ID:    "contact",
					Title: "Contact",
					Fields: []*schema.Field{
						{ID: "contact_email", Type: schema.TypeEmail, Label: "Contact Email"},
						{ID: "contact_url", Type: schema.TypeURL, Label: "Website"},
						{
							ID:    "social",
							Type:  schema.TypeGroup,
							Label: "Social Profiles",
							Fields: []*schema.Field{
								{ID: "twitter", Type: schema.TypeURL, Label: "Twitter"},
								{ID: "github", Type: schema.TypeURL, Label: "GitHub"},
							},
						},
					},
				},
			},
		},
		{
			ID:    "layout",
			Title: "Layout",
			Sections: []pages.Section{
				{
					ID:    "header",
					Title: "Header",
					Fields: []*schema.Field{
						{
							ID: "layout_style", Type: schema.TypeSelect, Label: "Layout",
							Default: "wide",
							Options: []schema.Option{
								{Value: "wide", Label: "Wide"},
								{Value: "boxed", Label: "Boxed"},
							},
						},
						{ID: "sticky_header", Type: schema.TypeSwitch, Label: "Sticky Header", Default: false},
						{
							ID: "header_height", Type: schema.TypeRange, Label: "Header Height",
							Min: f64(40), Max: f64(200), Default: 64,
							Conditional: &schema.Conditional{
								Field: "sticky_header", Value: true, Condition: schema.OpEqual,
							},
						},
					},
				},
				{
					ID:    "menus",
					Title: "Menus",
					Fields: []*schema.Field{
						{
							ID: "menu_items", Type: schema.TypeRepeater, Label: "Menu Items",
							MinRows: 0, MaxRows: 10,
							Fields: []*schema.Field{
								{ID: "label", Type: schema.TypeText, Label: "Label", Required: true},
								{ID: "url", Type: schema.TypeURL, Label: "URL"},
								{ID: "new_tab", Type: schema.TypeCheckbox, Label: "Open in new tab", Default: false},
							},
						},
					},
				},
			},
		},
		{
			ID:    "advanced",
			Title: "Advanced",
			Sections: []pages.Section{
				{
					ID:    "custom",
					Title: "Custom Code",
					Fields: []*schema.Field{
						{ID: "custom_css", Type: schema.TypeCode, Label: "Custom CSS"},
						{ID: "footer_text", Type: schema.TypeWysiwyg, Label: "Footer Text"},
						{ID: "maintenance_mode", Type: schema.TypeSwitch, Label: "Maintenance Mode", Default: false},
						{
							ID: "maintenance_message", Type: schema.TypeTextarea, Label: "Maintenance Message",
							Default: "Back soon.",
							Conditional: &schema.Conditional{
								Field: "maintenance_mode", Value: true, Condition: schema.OpEqual,
							},
						},
					},
				},
			},
		},
	})
}

func seoMetaBox() *metabox.MetaBox {
	return metabox.NewMetaBox("post-seo", "SEO", []string{"post", "page"}, []*schema.Field{
		{ID: "seo_title", Type: schema.TypeText, Label: "SEO Title", MaxLength: intp(70)},
		{ID: "seo_description", Type: schema.TypeTextarea, Label: "Meta Description", MaxLength: intp(160)},
		{
			ID: "robots", Type: schema.TypeSelect, Label: "Robots",
			Default: "index",
			Options: []schema.Option{
				{Value: "index", Label: "Index"},
				{Value: "noindex", Label: "No Index"},
			},
		},
		{ID: "og_image", Type: schema.TypeImage, Label: "Social Image"},
	})
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
