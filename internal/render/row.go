package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressforge/core/internal/schema"
)

// RowContext selects the wrapper layout for a rendered field row.
type RowContext string

const (
	// ContextOptions renders table rows for options pages.
	ContextOptions RowContext = "options"
	// ContextMeta renders div blocks for meta boxes and profile screens.
	ContextMeta RowContext = "meta"
)

// RenderRow wraps Render with label and description markup. siblings carries
// the current values of the field's schema scope for server-side conditional
// evaluation; layout-only types skip the wrapper entirely.
func (r *Renderer) RenderRow(f *schema.Field, value any, ctx RowContext, siblings map[string]any) string {
	if f == nil {
		return ""
	}
	if f.IsLayoutOnly() {
		return r.Render(f, value)
	}

	control := r.Render(f, value)
	label := esc(f.Label)
	desc := r.renderDescription(f.Description)

	visible := f.Conditional.Evaluate(siblings)
	rowAttrs := fmt.Sprintf(` class="pf-field pf-field-%s" data-field-id="%s"`, esc(string(f.Type)), esc(f.ID))
	if f.Conditional != nil {
		if cond, err := json.Marshal(f.Conditional); err == nil {
			rowAttrs += fmt.Sprintf(` data-condition="%s"`, esc(string(cond)))
		}
		if !visible {
			rowAttrs += ` style="display:none"`
		}
	}

	if ctx == ContextOptions {
		return fmt.Sprintf(
			`<tr%s><th scope="row"><label for="%s">%s</label></th><td>%s%s</td></tr>`,
			rowAttrs, esc(f.ID), label, control, desc)
	}
	return fmt.Sprintf(
		`<div%s><label for="%s">%s</label><div class="pf-field-input">%s%s</div></div>`,
		rowAttrs, esc(f.ID), label, control, desc)
}

// renderDescription runs the description through markdown; inline-only text
// comes back wrapped in a paragraph either way.
func (r *Renderer) renderDescription(desc string) string {
	if desc == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(desc), &buf); err != nil {
		return fmt.Sprintf(`<p class="pf-description">%s</p>`, esc(desc))
	}
	return fmt.Sprintf(`<div class="pf-description">%s</div>`, strings.TrimSpace(buf.String()))
}

func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "1"
		}
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	}
	return fmt.Sprintf("%v", v)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "1" || s == "true" || s == "on" || s == "yes"
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return false
}

func asStringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, asString(item))
		}
		return out
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	}
	return nil
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
