package schema

// FieldType identifies one of the supported field kinds.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextarea    FieldType = "textarea"
	TypeEmail       FieldType = "email"
	TypeURL         FieldType = "url"
	TypePassword    FieldType = "password"
	TypeTel         FieldType = "tel"
	TypeNumber      FieldType = "number"
	TypeRange       FieldType = "range"
	TypeHidden      FieldType = "hidden"
	TypeSelect      FieldType = "select"
	TypeRadio       FieldType = "radio"
	TypeCheckbox    FieldType = "checkbox"
	TypeSwitch      FieldType = "switch"
	TypeMultiselect FieldType = "multiselect"
	TypeCheckboxes  FieldType = "checkboxes"
	TypeDate        FieldType = "date"
	TypeDatetime    FieldType = "datetime"
	TypeTime        FieldType = "time"
	TypeWeek        FieldType = "week"
	TypeMonth       FieldType = "month"
	TypeColor       FieldType = "color"
	TypeImage       FieldType = "image"
	TypeFile        FieldType = "file"
	TypeGallery     FieldType = "gallery"
	TypeWysiwyg     FieldType = "wysiwyg"
	TypeCode        FieldType = "code"
	TypeHeading     FieldType = "heading"
	TypeSeparator   FieldType = "separator"
	TypeHTML        FieldType = "html"
	TypeGroup       FieldType = "group"
	TypeAccordion   FieldType = "accordion"
	TypeRepeater    FieldType = "repeater"
)

// SanitizeFunc overrides the built-in sanitizer for one field.
type SanitizeFunc func(value any, f *Field) any

// ValidateFunc overrides built-in validation. Returns ok plus an error message
// when ok is false.
type ValidateFunc func(value any, f *Field) (bool, string)

// Option is one selectable choice. Children holds one optgroup nesting level;
// an option with children is a group label and its own Value is ignored.
type Option struct {
	Value    string   `json:"value"`
	Label    string   `json:"label"`
	Children []Option `json:"children,omitempty"`
}

// Field is the atomic schema unit: one declarative input definition.
// The same definition drives rendering at display time and sanitization at
// save time.
type Field struct {
	ID          string            `json:"id"`
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Sublabel    string            `json:"sublabel,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Default     any               `json:"default,omitempty"`
	Required    bool              `json:"required,omitempty"`
	Disabled    bool              `json:"disabled,omitempty"`
	Readonly    bool              `json:"readonly,omitempty"`
	Class       string            `json:"class,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Options     []Option          `json:"options,omitempty"`

	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Step      string   `json:"step,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinLength *int     `json:"minlength,omitempty"`
	MaxLength *int     `json:"maxlength,omitempty"`

	MinRows int `json:"min_rows,omitempty"`
	MaxRows int `json:"max_rows,omitempty"`

	Conditional *Conditional `json:"conditional,omitempty"`

	// Fields holds child definitions for group, accordion and repeater.
	Fields []*Field `json:"fields,omitempty"`

	Sanitize SanitizeFunc `json:"-"`
	Validate ValidateFunc `json:"-"`
}

var supportedTypes = map[FieldType]struct{}{
	TypeText: {}, TypeTextarea: {}, TypeEmail: {}, TypeURL: {}, TypePassword: {},
	TypeTel: {}, TypeNumber: {}, TypeRange: {}, TypeHidden: {}, TypeSelect: {},
	TypeRadio: {}, TypeCheckbox: {}, TypeSwitch: {}, TypeMultiselect: {},
	TypeCheckboxes: {}, TypeDate: {}, TypeDatetime: {}, TypeTime: {}, TypeWeek: {},
	TypeMonth: {}, TypeColor: {}, TypeImage: {}, TypeFile: {}, TypeGallery: {},
	TypeWysiwyg: {}, TypeCode: {}, TypeHeading: {}, TypeSeparator: {}, TypeHTML: {},
	TypeGroup: {}, TypeAccordion: {}, TypeRepeater: {},
}

// Supported reports whether t is a known field type.
func Supported(t FieldType) bool {
	_, ok := supportedTypes[t]
	return ok
}

// IsLayoutOnly reports whether the type renders without a label/description
// wrapper and never stores a value.
func (f *Field) IsLayoutOnly() bool {
	switch f.Type {
	case TypeHeading, TypeSeparator, TypeHTML, TypeHidden:
		return true
	}
	return false
}

// IsComposite reports whether the field owns child definitions.
func (f *Field) IsComposite() bool {
	switch f.Type {
	case TypeGroup, TypeAccordion, TypeRepeater:
		return true
	}
	return false
}

// IsMultiValue reports whether the sanitized value is a list of option values.
func (f *Field) IsMultiValue() bool {
	return f.Type == TypeMultiselect || f.Type == TypeCheckboxes
}

// FlatOptionValues returns declared option values with one optgroup level
// flattened, in declared order.
func (f *Field) FlatOptionValues() []string {
	out := make([]string, 0, len(f.Options))
	for _, opt := range f.Options {
		if len(opt.Children) > 0 {
			for _, child := range opt.Children {
				out = append(out, child.Value)
			}
			continue
		}
		out = append(out, opt.Value)
	}
	return out
}

// HasOptionValue reports whether v is among the declared option values.
func (f *Field) HasOptionValue(v string) bool {
	for _, value := range f.FlatOptionValues() {
		if value == v {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy with its own Attributes map. Child fields and
// options are shared; callers rewriting IDs must not mutate children in place.
func (f *Field) Clone() *Field {
	cp := *f
	if f.Attributes != nil {
		cp.Attributes = make(map[string]string, len(f.Attributes))
		for k, v := range f.Attributes {
			cp.Attributes[k] = v
		}
	}
	return &cp
}

// ApplyTypeDefaults fills zero-value settings with per-type defaults, then
// recurses into child fields. Safe to call more than once.
func ApplyTypeDefaults(f *Field) {
	if f.Default == nil {
		switch f.Type {
		case TypeCheckbox, TypeSwitch:
			f.Default = false
		case TypeMultiselect, TypeCheckboxes:
			f.Default = []string{}
		case TypeRepeater:
			f.Default = []map[string]any{}
		case TypeGroup, TypeAccordion:
			f.Default = map[string]any{}
		}
	}
	if f.Type == TypeRange {
		if f.Min == nil {
			zero := 0.0
			f.Min = &zero
		}
		if f.Max == nil {
			hundred := 100.0
			f.Max = &hundred
		}
	}
	for _, child := range f.Fields {
		ApplyTypeDefaults(child)
	}
}
