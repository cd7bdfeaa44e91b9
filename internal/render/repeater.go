package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pressforge/core/internal/schema"
	"github.com/pressforge/core/internal/uimap"
)

// TemplateIndexPlaceholder marks the row index slot in the hidden template
// block. The client replaces it when fabricating a new row; template inputs
// are disabled so the placeholder is never submitted.
const TemplateIndexPlaceholder = "__index__"

// RenderRepeater emits one block per stored row plus a hidden template block.
// Add/remove controls are disabled at the MinRows/MaxRows boundaries; that is
// a UX constraint only, the sanitizer owns what actually persists.
func (r *Renderer) RenderRepeater(f *schema.Field, value any) string {
	rows := asRows(value)

	var b strings.Builder
	fmt.Fprintf(&b,
		`<div class="pf-repeater" id="%s" data-min-rows="%d" data-max-rows="%d">`,
		esc(f.ID), f.MinRows, f.MaxRows)

	removeDisabled := ""
	if f.MinRows > 0 && len(rows) <= f.MinRows {
		removeDisabled = ` disabled="disabled"`
	}
	for i, row := range rows {
		b.WriteString(r.renderRepeaterRow(f, i, row, removeDisabled, false))
	}

	b.WriteString(r.renderRepeaterRow(f, -1, nil, "", true))

	addDisabled := ""
	if f.MaxRows > 0 && len(rows) >= f.MaxRows {
		addDisabled = ` disabled="disabled"`
	}
	fmt.Fprintf(&b, `<button type="button" class="%s pf-repeater-add"%s>Add row</button>`,
		esc(uimap.Resolve(r.Framework, "btn-primary")), addDisabled)
	b.WriteString("</div>")
	return b.String()
}

func (r *Renderer) renderRepeaterRow(f *schema.Field, index int, row map[string]any, removeDisabled string, isTemplate bool) string {
	idx := TemplateIndexPlaceholder
	if !isTemplate {
		idx = strconv.Itoa(index)
	}

	var b strings.Builder
	if isTemplate {
		fmt.Fprintf(&b, `<div class="pf-repeater-row pf-repeater-template" data-repeater="%s" hidden>`, esc(f.ID))
	} else {
		fmt.Fprintf(&b, `<div class="pf-repeater-row" data-repeater="%s" data-index="%s">`, esc(f.ID), idx)
	}

	for _, child := range f.Fields {
		scoped := child.Clone()
		scoped.ID = RowFieldName(f.ID, idx, child.ID)
		if isTemplate {
			// template inputs must never submit
			if scoped.Attributes == nil {
				scoped.Attributes = map[string]string{}
			}
			scoped.Attributes["disabled"] = "disabled"
		}
		var val any
		if row != nil {
			val = row[child.ID]
		}
		b.WriteString(r.RenderRow(scoped, val, ContextMeta, row))
	}

	fmt.Fprintf(&b, `<button type="button" class="%s pf-repeater-remove"%s>Remove</button>`,
		esc(uimap.Resolve(r.Framework, "btn-danger")), removeDisabled)
	fmt.Fprintf(&b, `<span class="pf-repeater-handle" title="Drag to reorder">⋮⋮</span>`)
	b.WriteString("</div>")
	return b.String()
}

// RowFieldName builds the submitted name for one child input of one row:
// repeater[index][child].
func RowFieldName(repeaterID, index, childID string) string {
	return fmt.Sprintf("%s[%s][%s]", repeaterID, index, childID)
}

var rowIndexPattern = regexp.MustCompile(`^([^\[\]]+)\[([0-9]+|` + TemplateIndexPlaceholder + `)\]`)

// SetRowIndex rewrites the row-index segment of a repeater field name.
// Deterministic and idempotent: applying the same index twice is a no-op.
func SetRowIndex(name string, index int) string {
	return rowIndexPattern.ReplaceAllString(name, fmt.Sprintf("${1}[%d]", index))
}

// ReindexNames rewrites a set of row name lists so row indexes become
// contiguous 0..N-1 in the given order. Running it on an already-contiguous
// sequence returns identical names.
func ReindexNames(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, names := range rows {
		renamed := make([]string, len(names))
		for j, name := range names {
			renamed[j] = SetRowIndex(name, i)
		}
		out[i] = renamed
	}
	return out
}

func asRows(v any) []map[string]any {
	switch val := v.(type) {
	case []map[string]any:
		return val
	case []any:
		out := make([]map[string]any, 0, len(val))
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
