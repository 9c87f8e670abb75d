package mediainfo

// Field is one display-ready label/value pair.
type Field struct {
	Label string
	Value string
}

// Record is an ordered collection of display fields. Order matters for
// rendering: fields appear in the report in the order they were added.
type Record struct {
	fields []Field
}

func (r *Record) add(label, value string) {
	r.fields = append(r.fields, Field{Label: label, Value: value})
}

// Fields returns the fields in insertion order. The returned slice must not
// be mutated by the caller.
func (r Record) Fields() []Field {
	return r.fields
}

// Get returns the value for label and whether the field is present.
func (r Record) Get(label string) (string, bool) {
	for _, f := range r.fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}
