package render

import (
	"testing"

	"github.com/pressforge/core/internal/schema"
	"github.com/pressforge/core/internal/uimap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer() *Renderer { return New(uimap.Bootstrap) }

func TestRenderTextInput(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{ID: "t", Type: schema.TypeText}
	// attributes come out in sorted key order
	assert.Equal(t,
		`<input class="form-control" id="t" name="t" type="text" value="hi">`,
		r.Render(f, "hi"))
}

func TestRenderNilAndUnsupported(t *testing.T) {
	r := newTestRenderer()
	assert.Equal(t, "", r.Render(nil, "x"))

	f := &schema.Field{ID: "x", Type: schema.FieldType("made-up")}
	assert.Equal(t,
		`<div class="alert alert-danger">unsupported field type: made-up</div>`,
		r.Render(f, "x"))
}

func TestRenderUsesDefaultWhenValueNil(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{ID: "t", Type: schema.TypeText, Default: "fallback"}
	assert.Contains(t, r.Render(f, nil), `value="fallback"`)
	assert.Contains(t, r.Render(f, "set"), `value="set"`)
}

func TestRenderInputFlagsAndOverrides(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{
		ID: "n", Type: schema.TypeNumber,
		Required: true, Placeholder: "0-10",
		Min: f64(0), Max: f64(10), Step: "0.5",
	}
	out := r.Render(f, 5)
	assert.Contains(t, out, `type="number"`)
	assert.Contains(t, out, `required="required"`)
	assert.Contains(t, out, `placeholder="0-10"`)
	assert.Contains(t, out, `min="0"`)
	assert.Contains(t, out, `max="10"`)
	assert.Contains(t, out, `step="0.5"`)

	dt := &schema.Field{ID: "d", Type: schema.TypeDatetime}
	assert.Contains(t, r.Render(dt, nil), `type="datetime-local"`)
}

func TestRenderTextareaEscapesValue(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{ID: "t", Type: schema.TypeTextarea}
	out := r.Render(f, `<script>`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestRenderSelect(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{
		ID: "layout", Type: schema.TypeSelect,
		Options: []schema.Option{
			{Value: "wide", Label: "Wide"},
			{Value: "boxed", Label: "Boxed"},
		},
	}
	out := r.Render(f, "boxed")
	assert.Contains(t, out, `<option value="wide">Wide</option>`)
	assert.Contains(t, out, `<option value="boxed" selected="selected">Boxed</option>`)
}

func TestRenderMultiselectNameAndSelection(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{
		ID: "tags", Type: schema.TypeMultiselect,
		Options: []schema.Option{
			{Value: "a", Label: "A"},
			{Value: "b", Label: "B"},
		},
	}
	out := r.Render(f, []string{"b"})
	assert.Equal(t,
		`<select class="form-select" id="tags" multiple="multiple" name="tags[]">`+
			`<option value="a">A</option><option value="b" selected="selected">B</option></select>`,
		out)
}

func TestRenderSelectOptgroups(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{
		ID: "sel", Type: schema.TypeSelect,
		Options: []schema.Option{
			{Label: "Social", Children: []schema.Option{{Value: "tw", Label: "Twitter"}}},
		},
	}
	out := r.Render(f, "tw")
	assert.Contains(t, out, `<optgroup label="Social">`)
	assert.Contains(t, out, `<option value="tw" selected="selected">Twitter</option>`)
}

func TestRenderCheckbox(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{ID: "c", Type: schema.TypeCheckbox}
	assert.Equal(t,
		`<input checked="checked" class="form-check-input" id="c" name="c" type="checkbox" value="1">`,
		r.Render(f, true))
	assert.NotContains(t, r.Render(f, false), "checked")

	labeled := &schema.Field{ID: "c", Type: schema.TypeSwitch, Sublabel: "Enable it"}
	out := r.Render(labeled, "1")
	assert.Contains(t, out, `type="checkbox"`)
	assert.Contains(t, out, `<label for="c">Enable it</label>`)
}

func TestRenderRadioAndCheckboxes(t *testing.T) {
	r := newTestRenderer()
	radio := &schema.Field{
		ID: "mode", Type: schema.TypeRadio,
		Options: []schema.Option{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}},
	}
	out := r.Render(radio, "b")
	assert.Contains(t, out, `id="mode_0"`)
	assert.Contains(t, out, `name="mode" value="b" class="form-check-input" checked="checked"`)

	boxes := &schema.Field{
		ID: "feat", Type: schema.TypeCheckboxes,
		Options: []schema.Option{{Value: "x", Label: "X"}, {Value: "y", Label: "Y"}},
	}
	out = r.Render(boxes, []any{"y"})
	assert.Contains(t, out, `name="feat[]" value="y" class="form-check-input" checked="checked"`)
	assert.NotContains(t, out, `value="x" class="form-check-input" checked`)
}

func TestRenderMediaAndGallery(t *testing.T) {
	r := newTestRenderer()
	img := &schema.Field{ID: "logo", Type: schema.TypeImage}
	out := r.Render(img, 7)
	assert.Contains(t, out, `data-media-type="image"`)
	assert.Contains(t, out, `<input type="hidden" id="logo" name="logo" value="7">`)
	assert.Contains(t, out, `data-attachment-id="7"`)

	gal := &schema.Field{ID: "pics", Type: schema.TypeGallery}
	out = r.Render(gal, "1, 2,,3")
	assert.Contains(t, out, `<div class="pf-gallery-item" data-attachment-id="1">`)
	assert.Contains(t, out, `data-attachment-id="2"`)
	assert.Contains(t, out, `data-attachment-id="3"`)
}

func TestRenderLayoutTypes(t *testing.T) {
	r := newTestRenderer()
	assert.Equal(t, `<hr class="pf-separator">`,
		r.Render(&schema.Field{ID: "s", Type: schema.TypeSeparator}, nil))

	head := &schema.Field{ID: "h", Type: schema.TypeHeading, Label: "Section", Description: "intro"}
	out := r.Render(head, nil)
	assert.Contains(t, out, `<h3 class="pf-heading">Section</h3>`)
	assert.Contains(t, out, `<p class="pf-heading-desc">intro</p>`)

	// html fields pass the declared markup through untouched
	raw := &schema.Field{ID: "r", Type: schema.TypeHTML, Description: `<em>hi</em>`}
	assert.Equal(t, `<em>hi</em>`, r.Render(raw, nil))
}

func TestRenderGroupPrefixesChildNames(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{
		ID: "social", Type: schema.TypeGroup,
		Fields: []*schema.Field{{ID: "twitter", Type: schema.TypeURL, Label: "Twitter"}},
	}
	out := r.Render(f, map[string]any{"twitter": "https://t.co/x"})
	assert.Contains(t, out, `<div class="pf-group" id="social">`)
	assert.Contains(t, out, `name="social_twitter"`)
	assert.Contains(t, out, `value="https://t.co/x"`)
	// child definition in the schema stays unprefixed
	assert.Equal(t, "twitter", f.Fields[0].ID)
}

func TestRenderAccordion(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{
		ID: "adv", Type: schema.TypeAccordion, Label: "Advanced",
		Fields: []*schema.Field{{ID: "css", Type: schema.TypeCode, Label: "CSS"}},
	}
	out := r.Render(f, map[string]any{"css": "body{}"})
	assert.Contains(t, out, `<details class="pf-accordion" id="adv"><summary>Advanced</summary>`)
	assert.Contains(t, out, `name="adv_css"`)
}

func TestRenderRowContexts(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{ID: "t", Type: schema.TypeText, Label: "Title"}

	row := r.RenderRow(f, "v", ContextOptions, nil)
	assert.Contains(t, row, `<tr class="pf-field pf-field-text" data-field-id="t">`)
	assert.Contains(t, row, `<th scope="row"><label for="t">Title</label></th>`)

	div := r.RenderRow(f, "v", ContextMeta, nil)
	assert.Contains(t, div, `<div class="pf-field pf-field-text" data-field-id="t">`)
	assert.Contains(t, div, `<div class="pf-field-input">`)
}

func TestRenderRowConditional(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{
		ID: "msg", Type: schema.TypeTextarea, Label: "Message",
		Conditional: &schema.Conditional{Field: "maintenance", Value: true, Condition: schema.OpEqual},
	}

	hidden := r.RenderRow(f, "", ContextMeta, map[string]any{"maintenance": false})
	assert.Contains(t, hidden, `data-condition=`)
	assert.Contains(t, hidden, `style="display:none"`)

	shown := r.RenderRow(f, "", ContextMeta, map[string]any{"maintenance": true})
	assert.Contains(t, shown, `data-condition=`)
	assert.NotContains(t, shown, `display:none`)
}

func TestRenderRowSkipsWrapperForLayoutFields(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{ID: "s", Type: schema.TypeSeparator}
	assert.Equal(t, `<hr class="pf-separator">`, r.RenderRow(f, nil, ContextOptions, nil))
}

func TestRenderRowMarkdownDescription(t *testing.T) {
	r := newTestRenderer()
	f := &schema.Field{ID: "t", Type: schema.TypeText, Label: "T", Description: "see **docs**"}
	out := r.RenderRow(f, "", ContextMeta, nil)
	assert.Contains(t, out, `<div class="pf-description">`)
	assert.Contains(t, out, "<strong>docs</strong>")
}

func TestRenderFrameworkSelection(t *testing.T) {
	f := &schema.Field{ID: "t", Type: schema.TypeText}
	require.Contains(t, New(uimap.Bulma).Render(f, ""), `class="input"`)
	require.Contains(t, New(uimap.UIKit).Render(f, ""), `class="uk-input"`)
	// unknown framework falls back to the abstract names
	require.Contains(t, New(uimap.Framework("custom")).Render(f, ""), `class="form-input"`)
}

func f64(v float64) *float64 { return &v }
