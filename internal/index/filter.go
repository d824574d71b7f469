package index

// Predicate is a single field-level constraint within a filter: a numeric
// range, an equality, or a "contains at least one of" set membership.
type Predicate struct {
	GTE *float64
	LTE *float64
	EQ  string
	In  []string
}

// Filter maps a metadata field name to its predicate. Fields with no
// constraint are absent, never present with an empty predicate.
type Filter map[string]Predicate

// Has reports whether the filter constrains the given field
func (f Filter) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Clone returns a shallow copy of the filter
func (f Filter) Clone() Filter {
	out := make(Filter, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Without returns a copy of the filter with the given field removed
func (f Filter) Without(field string) Filter {
	out := f.Clone()
	delete(out, field)
	return out
}

// Only returns a filter containing just the given field, or an empty
// filter if the field is not constrained
func (f Filter) Only(field string) Filter {
	out := Filter{}
	if p, ok := f[field]; ok {
		out[field] = p
	}
	return out
}
