package sanitize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pressforge/core/internal/schema"
)

// AttachmentResolver checks whether a media attachment id exists. The media
// module implements it; a nil resolver skips existence checks.
type AttachmentResolver interface {
	AttachmentExists(id int) bool
}

// Sanitizer coerces submitted values into safe, schema-conforming values.
// It never fails: every input produces a best-effort result.
type Sanitizer struct {
	Attachments AttachmentResolver
}

func New(resolver AttachmentResolver) *Sanitizer {
	return &Sanitizer{Attachments: resolver}
}

type sanitizeFunc func(s *Sanitizer, v any, f *schema.Field) any

// Static dispatch table: one sanitizer per field type. Types absent here
// (layout-only kinds) fall through to the generic sanitizer.
var sanitizers map[schema.FieldType]sanitizeFunc

// Populated in init to avoid an initialization cycle: the map references
// sanitizeGroup/sanitizeRepeater, which recurse through Sanitize back into
// the map.
func init() {
	sanitizers = map[schema.FieldType]sanitizeFunc{
		schema.TypeText:        sanitizeText,
		schema.TypePassword:    sanitizeText,
		schema.TypeTel:         sanitizeText,
		schema.TypeHidden:      sanitizeText,
		schema.TypeTextarea:    sanitizeTextarea,
		schema.TypeEmail:       sanitizeEmail,
		schema.TypeURL:         sanitizeURL,
		schema.TypeNumber:      sanitizeNumber,
		schema.TypeRange:       sanitizeNumber,
		schema.TypeCheckbox:    sanitizeCheckbox,
		schema.TypeSwitch:      sanitizeCheckbox,
		schema.TypeSelect:      sanitizeChoice,
		schema.TypeRadio:       sanitizeChoice,
		schema.TypeMultiselect: sanitizeMultiChoice,
		schema.TypeCheckboxes:  sanitizeMultiChoice,
		schema.TypeDate:        sanitizeTemporal,
		schema.TypeDatetime:    sanitizeTemporal,
		schema.TypeTime:        sanitizeTemporal,
		schema.TypeWeek:        sanitizeTemporal,
		schema.TypeMonth:       sanitizeTemporal,
		schema.TypeColor:       sanitizeColor,
		schema.TypeImage:       sanitizeAttachment,
		schema.TypeFile:        sanitizeAttachment,
		schema.TypeGallery:     sanitizeGallery,
		schema.TypeWysiwyg:     sanitizeRichText,
		schema.TypeCode:        sanitizeRichText,
		schema.TypeGroup:       sanitizeGroup,
		schema.TypeRepeater:    sanitizeRepeater,
	}
}

// Sanitize coerces value according to the field definition. A custom
// field-level Sanitize func replaces the built-in behavior entirely.
func (s *Sanitizer) Sanitize(value any, f *schema.Field) any {
	if f == nil {
		return Generic(value)
	}
	if f.Sanitize != nil {
		return f.Sanitize(value, f)
	}
	if fn, ok := sanitizers[f.Type]; ok {
		return fn(s, value, f)
	}
	return Generic(value)
}

// Generic is the conservative fallback for values without a declared field:
// strings are tag-stripped, scalars pass, everything else becomes "".
func Generic(value any) any {
	switch v := value.(type) {
	case string:
		return stripTags(v)
	case bool, int, int64, float64, float32:
		return v
	case nil:
		return ""
	}
	return ""
}

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbaPattern     = regexp.MustCompile(`^rgba\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*(?:0|1|0?\.\d+|1\.0)\s*\)$`)
	urlPattern      = regexp.MustCompile(`^(https?|ftp|mailto):`)
)

func stripTags(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func sanitizeText(_ *Sanitizer, v any, _ *schema.Field) any {
	return stripTags(toString(v))
}

// sanitizeTextarea strips tags but keeps paragraph structure.
func sanitizeTextarea(_ *Sanitizer, v any, _ *schema.Field) any {
	s := strings.ReplaceAll(toString(v), "\x00", "")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(tagPattern.ReplaceAllString(line, ""), " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func sanitizeEmail(_ *Sanitizer, v any, _ *schema.Field) any {
	s := strings.TrimSpace(toString(v))
	if s == "" || !emailPattern.MatchString(s) {
		return ""
	}
	return s
}

func sanitizeURL(_ *Sanitizer, v any, _ *schema.Field) any {
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return ""
	}
	if !urlPattern.MatchString(s) {
		return ""
	}
	return stripTags(s)
}

// sanitizeNumber coerces to int unless step carries a decimal point, then
// clamps into [min, max] when declared.
func sanitizeNumber(_ *Sanitizer, v any, f *schema.Field) any {
	n, ok := toNumber(v)
	if !ok {
		if f.Default != nil {
			if d, dok := toNumber(f.Default); dok {
				n = d
			} else {
				return ""
			}
		} else {
			return ""
		}
	}
	if f.Min != nil && n < *f.Min {
		n = *f.Min
	}
	if f.Max != nil && n > *f.Max {
		n = *f.Max
	}
	if strings.Contains(f.Step, ".") {
		return n
	}
	return int(math.Round(n))
}

func sanitizeCheckbox(_ *Sanitizer, v any, _ *schema.Field) any {
	return truthy(v)
}

// sanitizeChoice whitelists single-choice values against declared options,
// falling back to the field default when the submitted value is undeclared.
func sanitizeChoice(_ *Sanitizer, v any, f *schema.Field) any {
	s := toString(v)
	if f.HasOptionValue(s) {
		return s
	}
	if f.Default != nil {
		return toString(f.Default)
	}
	return ""
}

func sanitizeMultiChoice(_ *Sanitizer, v any, f *schema.Field) any {
	out := []string{}
	for _, item := range toStringSlice(v) {
		if f.HasOptionValue(item) {
			out = append(out, item)
		}
	}
	return out
}

var temporalPatterns = map[schema.FieldType]*regexp.Regexp{
	schema.TypeDate:     regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	schema.TypeDatetime: regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(?::\d{2})?$`),
	schema.TypeTime:     regexp.MustCompile(`^\d{2}:\d{2}(?::\d{2})?$`),
	schema.TypeWeek:     regexp.MustCompile(`^\d{4}-W\d{2}$`),
	schema.TypeMonth:    regexp.MustCompile(`^\d{4}-\d{2}$`),
}

var temporalLayouts = map[schema.FieldType]struct {
	parse  []string
	output string
}{
	schema.TypeDate:     {parse: []string{"2006-01-02", "2006/01/02", "01/02/2006", time.RFC3339}, output: "2006-01-02"},
	schema.TypeDatetime: {parse: []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04", time.RFC3339}, output: "2006-01-02T15:04"},
	schema.TypeTime:     {parse: []string{"15:04:05", "15:04", "3:04 PM"}, output: "15:04"},
	schema.TypeMonth:    {parse: []string{"2006-01", "2006/01"}, output: "2006-01"},
}

// sanitizeTemporal validates against the type's expected pattern, attempts a
// best-effort reparse on mismatch, and discards to "" when nothing fits.
func sanitizeTemporal(_ *Sanitizer, v any, f *schema.Field) any {
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return ""
	}
	if pattern, ok := temporalPatterns[f.Type]; ok && pattern.MatchString(s) {
		return s
	}
	layouts, ok := temporalLayouts[f.Type]
	if !ok {
		return ""
	}
	for _, layout := range layouts.parse {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(layouts.output)
		}
	}
	return ""
}

func sanitizeColor(_ *Sanitizer, v any, _ *schema.Field) any {
	s := strings.TrimSpace(toString(v))
	if hexColorPattern.MatchString(s) {
		return strings.ToLower(s)
	}
	if rgbaPattern.MatchString(strings.ReplaceAll(s, " ", "")) || rgbaPattern.MatchString(s) {
		return s
	}
	return ""
}

func (s *Sanitizer) attachmentID(v any) int {
	n, ok := toNumber(v)
	if !ok || n <= 0 {
		return 0
	}
	id := int(n)
	if s.Attachments != nil && !s.Attachments.AttachmentExists(id) {
		return 0
	}
	return id
}

func sanitizeAttachment(s *Sanitizer, v any, _ *schema.Field) any {
	return s.attachmentID(v)
}

// sanitizeGallery keeps a comma-separated list of verified attachment ids,
// dropping invalid entries.
func sanitizeGallery(s *Sanitizer, v any, _ *schema.Field) any {
	raw := toString(v)
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, ",")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := s.attachmentID(strings.TrimSpace(part)); id > 0 {
			kept = append(kept, strconv.Itoa(id))
		}
	}
	return strings.Join(kept, ",")
}

// sanitizeRichText is an HTML-safe passthrough: null bytes removed, markup kept.
func sanitizeRichText(_ *Sanitizer, v any, _ *schema.Field) any {
	return strings.ReplaceAll(toString(v), "\x00", "")
}

// sanitizeGroup recurses over declared children only; undeclared keys in the
// submitted map are dropped.
func sanitizeGroup(s *Sanitizer, v any, f *schema.Field) any {
	in := toMap(v)
	out := make(map[string]any, len(f.Fields))
	for _, child := range f.Fields {
		if child.IsLayoutOnly() && child.Type != schema.TypeHidden {
			continue
		}
		out[child.ID] = s.Sanitize(in[child.ID], child)
	}
	return out
}

// sanitizeRepeater sanitizes each submitted row in order, drops rows whose
// every child sanitized to empty, and reindexes the survivors contiguously.
// Rows beyond MaxRows are intentionally not rejected here; the add control is
// the only MaxRows enforcement point.
func sanitizeRepeater(s *Sanitizer, v any, f *schema.Field) any {
	rows := toRows(v)
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		clean := make(map[string]any, len(f.Fields))
		empty := true
		for _, child := range f.Fields {
			val := s.Sanitize(row[child.ID], child)
			clean[child.ID] = val
			if !schema.IsEmpty(val) && !isZeroScalar(val) {
				empty = false
			}
		}
		if empty {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// isZeroScalar treats false/0 as empty for row-compaction purposes so a row
// of untouched checkboxes and number inputs still counts as blank.
func isZeroScalar(v any) bool {
	switch val := v.(type) {
	case bool:
		return !val
	case int:
		return val == 0
	case float64:
		return val == 0
	}
	return false
}

func toString(v any) string {
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

func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	return 0, false
}

func truthy(v any) bool {
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

func toStringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, toString(item))
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

func toMap(v any) map[string]any {
	switch val := v.(type) {
	case map[string]any:
		return val
	}
	return map[string]any{}
}

func toRows(v any) []map[string]any {
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
