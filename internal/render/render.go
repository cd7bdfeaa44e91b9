package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/pressforge/core/internal/schema"
	"github.com/pressforge/core/internal/uimap"
	"github.com/yuin/goldmark"
)

// Renderer turns field definitions plus current values into admin-form markup.
// Rendering never fails; unsupported types produce a visible inline notice.
type Renderer struct {
	Framework uimap.Framework
	md        goldmark.Markdown
}

func New(fw uimap.Framework) *Renderer {
	return &Renderer{Framework: fw, md: goldmark.New()}
}

type renderFunc func(r *Renderer, f *schema.Field, value any) string

var renderers map[schema.FieldType]renderFunc

func init() {
	renderers = map[schema.FieldType]renderFunc{
		schema.TypeText:        renderInput,
		schema.TypeEmail:       renderInput,
		schema.TypeURL:         renderInput,
		schema.TypePassword:    renderInput,
		schema.TypeTel:         renderInput,
		schema.TypeNumber:      renderInput,
		schema.TypeRange:       renderInput,
		schema.TypeHidden:      renderInput,
		schema.TypeDate:        renderInput,
		schema.TypeDatetime:    renderInput,
		schema.TypeTime:        renderInput,
		schema.TypeWeek:        renderInput,
		schema.TypeMonth:       renderInput,
		schema.TypeColor:       renderInput,
		schema.TypeTextarea:    renderTextarea,
		schema.TypeSelect:      renderSelect,
		schema.TypeMultiselect: renderSelect,
		schema.TypeRadio:       renderRadio,
		schema.TypeCheckbox:    renderCheckbox,
		schema.TypeSwitch:      renderCheckbox,
		schema.TypeCheckboxes:  renderCheckboxes,
		schema.TypeImage:       renderMedia,
		schema.TypeFile:        renderMedia,
		schema.TypeGallery:     renderGallery,
		schema.TypeWysiwyg:     renderWysiwyg,
		schema.TypeCode:        renderCode,
		schema.TypeHeading:     renderHeading,
		schema.TypeSeparator:   renderSeparator,
		schema.TypeHTML:        renderRawHTML,
		schema.TypeGroup:       renderGroup,
		schema.TypeAccordion:   renderAccordion,
		schema.TypeRepeater:    renderRepeaterField,
	}
}

// Render produces the bare input control for one field. Labels and
// descriptions are added by RenderRow.
func (r *Renderer) Render(f *schema.Field, value any) string {
	if f == nil {
		return ""
	}
	if !schema.Supported(f.Type) {
		return fmt.Sprintf(`<div class="%s">unsupported field type: %s</div>`,
			esc(uimap.Resolve(r.Framework, "alert-error")), esc(string(f.Type)))
	}
	if value == nil && f.Default != nil {
		value = f.Default
	}
	return renderers[f.Type](r, f, value)
}

func esc(s string) string { return html.EscapeString(s) }

// buildAttrs renders an attribute map in sorted key order for deterministic
// output.
func buildAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, esc(k), esc(attrs[k]))
	}
	return b.String()
}

func (r *Renderer) commonAttrs(f *schema.Field, inputType string) map[string]string {
	attrs := map[string]string{
		"id":   f.ID,
		"name": f.ID,
	}
	if inputType != "" {
		attrs["type"] = inputType
	}
	class := uimap.Resolve(r.Framework, "form-input")
	if f.Class != "" {
		class += " " + f.Class
	}
	attrs["class"] = class
	if f.Placeholder != "" {
		attrs["placeholder"] = f.Placeholder
	}
	if f.Disabled {
		attrs["disabled"] = "disabled"
	}
	if f.Readonly {
		attrs["readonly"] = "readonly"
	}
	if f.Required {
		attrs["required"] = "required"
	}
	for k, v := range f.Attributes {
		attrs[k] = v
	}
	return attrs
}

var inputTypeOverrides = map[schema.FieldType]string{
	schema.TypeDatetime: "datetime-local",
	schema.TypeSwitch:   "checkbox",
}

func htmlInputType(t schema.FieldType) string {
	if override, ok := inputTypeOverrides[t]; ok {
		return override
	}
	return string(t)
}

func renderInput(r *Renderer, f *schema.Field, value any) string {
	attrs := r.commonAttrs(f, htmlInputType(f.Type))
	attrs["value"] = asString(value)
	if f.Min != nil {
		attrs["min"] = trimFloat(*f.Min)
	}
	if f.Max != nil {
		attrs["max"] = trimFloat(*f.Max)
	}
	if f.Step != "" {
		attrs["step"] = f.Step
	}
	if f.Pattern != "" {
		attrs["pattern"] = f.Pattern
	}
	return "<input" + buildAttrs(attrs) + ">"
}

func renderTextarea(r *Renderer, f *schema.Field, value any) string {
	attrs := r.commonAttrs(f, "")
	return "<textarea" + buildAttrs(attrs) + ">" + esc(asString(value)) + "</textarea>"
}

func renderSelect(r *Renderer, f *schema.Field, value any) string {
	attrs := r.commonAttrs(f, "")
	attrs["class"] = uimap.Resolve(r.Framework, "form-select")
	selected := map[string]bool{}
	if f.IsMultiValue() {
		attrs["multiple"] = "multiple"
		attrs["name"] = f.ID + "[]"
		for _, v := range asStringSlice(value) {
			selected[v] = true
		}
	} else {
		selected[asString(value)] = true
	}

	var b strings.Builder
	b.WriteString("<select" + buildAttrs(attrs) + ">")
	for _, opt := range f.Options {
		if len(opt.Children) > 0 {
			fmt.Fprintf(&b, `<optgroup label="%s">`, esc(opt.Label))
			for _, child := range opt.Children {
				writeOption(&b, child, selected[child.Value])
			}
			b.WriteString("</optgroup>")
			continue
		}
		writeOption(&b, opt, selected[opt.Value])
	}
	b.WriteString("</select>")
	return b.String()
}

func writeOption(b *strings.Builder, opt schema.Option, selected bool) {
	sel := ""
	if selected {
		sel = ` selected="selected"`
	}
	fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, esc(opt.Value), sel, esc(opt.Label))
}

func renderRadio(r *Renderer, f *schema.Field, value any) string {
	current := asString(value)
	var b strings.Builder
	b.WriteString(`<fieldset class="pf-radio-set">`)
	for i, opt := range f.Options {
		id := fmt.Sprintf("%s_%d", f.ID, i)
		checked := ""
		if opt.Value == current {
			checked = ` checked="checked"`
		}
		disabled := ""
		if f.Disabled {
			disabled = ` disabled="disabled"`
		}
		fmt.Fprintf(&b,
			`<label for="%s"><input type="radio" id="%s" name="%s" value="%s" class="%s"%s%s> %s</label>`,
			esc(id), esc(id), esc(f.ID), esc(opt.Value),
			esc(uimap.Resolve(r.Framework, "form-check")), checked, disabled, esc(opt.Label))
	}
	b.WriteString("</fieldset>")
	return b.String()
}

func renderCheckbox(r *Renderer, f *schema.Field, value any) string {
	attrs := r.commonAttrs(f, "checkbox")
	attrs["class"] = uimap.Resolve(r.Framework, "form-check")
	attrs["value"] = "1"
	if asBool(value) {
		attrs["checked"] = "checked"
	}
	label := ""
	if f.Sublabel != "" {
		label = fmt.Sprintf(`<label for="%s">%s</label>`, esc(f.ID), esc(f.Sublabel))
	}
	return "<input" + buildAttrs(attrs) + ">" + label
}

func renderCheckboxes(r *Renderer, f *schema.Field, value any) string {
	selected := map[string]bool{}
	for _, v := range asStringSlice(value) {
		selected[v] = true
	}
	var b strings.Builder
	b.WriteString(`<fieldset class="pf-checkbox-set">`)
	for i, opt := range f.Options {
		id := fmt.Sprintf("%s_%d", f.ID, i)
		checked := ""
		if selected[opt.Value] {
			checked = ` checked="checked"`
		}
		fmt.Fprintf(&b,
			`<label for="%s"><input type="checkbox" id="%s" name="%s[]" value="%s" class="%s"%s> %s</label>`,
			esc(id), esc(id), esc(f.ID), esc(opt.Value),
			esc(uimap.Resolve(r.Framework, "form-check")), checked, esc(opt.Label))
	}
	b.WriteString("</fieldset>")
	return b.String()
}

// renderMedia emits the stable attachment-id hidden input plus a preview
// shell; resolving the file itself is the media library's job, client-side.
func renderMedia(r *Renderer, f *schema.Field, value any) string {
	id := asString(value)
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="pf-media" data-media-type="%s">`, esc(string(f.Type)))
	fmt.Fprintf(&b, `<input type="hidden" id="%s" name="%s" value="%s">`, esc(f.ID), esc(f.ID), esc(id))
	fmt.Fprintf(&b, `<div class="pf-media-preview" data-attachment-id="%s"></div>`, esc(id))
	fmt.Fprintf(&b, `<button type="button" class="%s pf-media-select">Select</button>`,
		esc(uimap.Resolve(r.Framework, "btn")))
	fmt.Fprintf(&b, `<button type="button" class="%s pf-media-remove">Remove</button>`,
		esc(uimap.Resolve(r.Framework, "btn-danger")))
	b.WriteString("</div>")
	return b.String()
}

func renderGallery(r *Renderer, f *schema.Field, value any) string {
	ids := asString(value)
	var b strings.Builder
	b.WriteString(`<div class="pf-gallery">`)
	fmt.Fprintf(&b, `<input type="hidden" id="%s" name="%s" value="%s">`, esc(f.ID), esc(f.ID), esc(ids))
	b.WriteString(`<div class="pf-gallery-preview">`)
	for _, id := range strings.Split(ids, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		fmt.Fprintf(&b, `<div class="pf-gallery-item" data-attachment-id="%s"></div>`, esc(id))
	}
	b.WriteString("</div>")
	fmt.Fprintf(&b, `<button type="button" class="%s pf-gallery-add">Add images</button>`,
		esc(uimap.Resolve(r.Framework, "btn")))
	b.WriteString("</div>")
	return b.String()
}

func renderWysiwyg(r *Renderer, f *schema.Field, value any) string {
	attrs := r.commonAttrs(f, "")
	attrs["class"] = attrs["class"] + " pf-wysiwyg"
	attrs["data-editor"] = "wysiwyg"
	return "<textarea" + buildAttrs(attrs) + ">" + esc(asString(value)) + "</textarea>"
}

func renderCode(r *Renderer, f *schema.Field, value any) string {
	attrs := r.commonAttrs(f, "")
	attrs["class"] = attrs["class"] + " pf-code"
	attrs["data-editor"] = "code"
	if lang, ok := f.Attributes["language"]; ok {
		attrs["data-language"] = lang
	}
	return "<textarea" + buildAttrs(attrs) + ">" + esc(asString(value)) + "</textarea>"
}

func renderHeading(_ *Renderer, f *schema.Field, _ any) string {
	out := fmt.Sprintf(`<h3 class="pf-heading">%s</h3>`, esc(f.Label))
	if f.Description != "" {
		out += fmt.Sprintf(`<p class="pf-heading-desc">%s</p>`, esc(f.Description))
	}
	return out
}

func renderSeparator(_ *Renderer, _ *schema.Field, _ any) string {
	return `<hr class="pf-separator">`
}

// renderRawHTML emits the field's declared markup verbatim. The schema is
// authored by the theme, not by end users, so it is trusted here.
func renderRawHTML(_ *Renderer, f *schema.Field, _ any) string {
	return f.Description
}

// renderGroup renders children with {group}_{child} id/name prefixes while
// looking their values up at the unprefixed child key.
func renderGroup(r *Renderer, f *schema.Field, value any) string {
	values := asMap(value)
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="pf-group" id="%s">`, esc(f.ID))
	for _, child := range f.Fields {
		prefixed := child.Clone()
		prefixed.ID = schema.PrefixID(f.ID, child.ID)
		b.WriteString(r.RenderRow(prefixed, values[child.ID], ContextMeta, values))
	}
	b.WriteString("</div>")
	return b.String()
}

func renderAccordion(r *Renderer, f *schema.Field, value any) string {
	values := asMap(value)
	var b strings.Builder
	fmt.Fprintf(&b, `<details class="pf-accordion" id="%s"><summary>%s</summary>`, esc(f.ID), esc(f.Label))
	for _, child := range f.Fields {
		prefixed := child.Clone()
		prefixed.ID = schema.PrefixID(f.ID, child.ID)
		b.WriteString(r.RenderRow(prefixed, values[child.ID], ContextMeta, values))
	}
	b.WriteString("</details>")
	return b.String()
}

func renderRepeaterField(r *Renderer, f *schema.Field, value any) string {
	return r.RenderRepeater(f, value)
}
