package schema

// PrefixID joins a parent id and a child id into the flattened storage key.
func PrefixID(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "_" + child
}

// Flatten expands a field tree into the flat storage namespace. Children of
// group and accordion fields are hoisted with {parent}_{child} ids; repeater
// children stay inside their repeater (row values are nested, not flattened).
// On duplicate flattened ids the last definition wins.
func Flatten(fields []*Field) *Index {
	idx := &Index{byID: map[string]*Field{}}
	flattenInto(idx, fields, "")
	return idx
}

func flattenInto(idx *Index, fields []*Field, prefix string) {
	for _, f := range fields {
		switch f.Type {
		case TypeGroup, TypeAccordion:
			flattenInto(idx, f.Fields, PrefixID(prefix, f.ID))
		case TypeHeading, TypeSeparator, TypeHTML:
			// layout only, no storage key
		default:
			entry := f
			if prefix != "" {
				entry = f.Clone()
				entry.ID = PrefixID(prefix, f.ID)
			}
			idx.add(entry)
		}
	}
}

// Index is an ordered flat view over a schema tree.
type Index struct {
	order []string
	byID  map[string]*Field
}

func (i *Index) add(f *Field) {
	if _, seen := i.byID[f.ID]; !seen {
		i.order = append(i.order, f.ID)
	}
	i.byID[f.ID] = f
}

// Get returns the field for a flattened id.
func (i *Index) Get(id string) (*Field, bool) {
	f, ok := i.byID[id]
	return f, ok
}

// IDs returns flattened ids in schema order.
func (i *Index) IDs() []string {
	out := make([]string, len(i.order))
	copy(out, i.order)
	return out
}

// Len returns the number of flattened fields.
func (i *Index) Len() int { return len(i.order) }

// Defaults returns the default value map keyed by flattened id, for fields
// that declare one.
func (i *Index) Defaults() map[string]any {
	out := make(map[string]any, len(i.order))
	for _, id := range i.order {
		if f := i.byID[id]; f.Default != nil {
			out[id] = f.Default
		}
	}
	return out
}
