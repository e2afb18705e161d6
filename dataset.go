package transitgate

import (
	"strconv"
	"time"
)

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// ParseKind maps a declared kind name ("string"/"number"/"time") to a Kind.
// An empty name defaults to string so YAML catalogs can omit it.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "", "string":
		return KindString, true
	case "number":
		return KindNumber, true
	case "time", "date":
		return KindTime, true
	case "null":
		return KindNull, true
	}
	return KindNull, false
}

// Value is a single typed cell. Values are immutable; the Cleaner produces new
// Values rather than editing them in place. The raw pre-cleaning text is kept
// alongside the typed payload so a failed coercion stays diagnosable.
type Value struct {
	kind Kind
	s    string
	n    float64
	t    time.Time
	raw  string
}

// Null returns the null Value.
func Null() Value { return Value{} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s, raw: s} }

// NumberValue wraps a float64.
func NumberValue(n float64) Value { return Value{kind: KindNumber, n: n} }

// TimeValue wraps a time.Time.
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind reports the runtime type.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload ("" unless Kind is KindString).
func (v Value) Str() string { return v.s }

// Number returns the numeric payload and whether the value is a number.
func (v Value) Number() (float64, bool) { return v.n, v.kind == KindNumber }

// Time returns the time payload and whether the value is a time.
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindTime }

// Raw returns the original text the value was loaded with, before any cleaning
// transform or coercion. Empty when the value never had a textual source.
func (v Value) Raw() string { return v.raw }

// WithRaw returns a copy of v carrying the given raw source text.
func (v Value) WithRaw(raw string) Value {
	v.raw = raw
	return v
}

// Text renders the value for human-readable output and CSV emission.
// Null renders as the empty string.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports deep equality including the raw source text.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.raw != o.raw {
		return false
	}
	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindNumber:
		return v.n == o.n
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// key returns a canonical, kind-prefixed key for index building. The prefix
// keeps "1" (string) and 1 (number) distinct.
func (v Value) key() string {
	switch v.kind {
	case KindString:
		return "s:" + v.s
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.n, 'g', -1, 64)
	case KindTime:
		return "t:" + v.t.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Compare orders two values of the same kind. It returns -1/0/+1 and false
// when the kinds differ or are not orderable.
func Compare(a, b Value) (int, bool) {
	if a.kind != b.kind {
		return 0, false
	}
	switch a.kind {
	case KindNumber:
		switch {
		case a.n < b.n:
			return -1, true
		case a.n > b.n:
			return 1, true
		}
		return 0, true
	case KindTime:
		switch {
		case a.t.Before(b.t):
			return -1, true
		case a.t.After(b.t):
			return 1, true
		}
		return 0, true
	case KindString:
		switch {
		case a.s < b.s:
			return -1, true
		case a.s > b.s:
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Record maps field names to Values for one row. Missing fields read as null.
type Record map[string]Value

// Value returns the named field, or null when the record has no such field.
func (r Record) Value(name string) Value { return r[name] }

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is a named, ordered sequence of Records. Row order is preserved
// end-to-end so findings can always be traced back to source rows.
type Table struct {
	Name   string
	Fields []string

	// SourceBase is the 1-based line number of the first data row in the
	// source file (0 when the table was built in memory). Reports add it to
	// the row index when rendering source locations.
	SourceBase int

	rows []Record
}

// NewTable creates an empty table with the given field declaration order.
func NewTable(name string, fields ...string) *Table {
	return &Table{Name: name, Fields: append([]string(nil), fields...)}
}

// Append adds a record at the end of the table.
func (t *Table) Append(r Record) { t.rows = append(t.rows, r) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the record at index i.
func (t *Table) Row(i int) Record { return t.rows[i] }

// Rows exposes the backing row slice for read-only scans. Callers must not
// mutate it; use Clone before editing.
func (t *Table) Rows() []Record { return t.rows }

// HasField reports whether the table declares the named column.
func (t *Table) HasField(name string) bool {
	for _, f := range t.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Name, t.Fields...)
	out.SourceBase = t.SourceBase
	out.rows = make([]Record, len(t.rows))
	for i, r := range t.rows {
		out.rows[i] = r.Clone()
	}
	return out
}

// Equal reports deep equality of name, field order, and every cell.
func (t *Table) Equal(o *Table) bool {
	if t.Name != o.Name || len(t.Fields) != len(o.Fields) || len(t.rows) != len(o.rows) {
		return false
	}
	for i, f := range t.Fields {
		if o.Fields[i] != f {
			return false
		}
	}
	for i, r := range t.rows {
		or := o.rows[i]
		if len(r) != len(or) {
			return false
		}
		for k, v := range r {
			ov, ok := or[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
	}
	return true
}

// Dataset is an ordered collection of Tables, the unit one pipeline run
// operates on. Identity is immutable once loaded: the Cleaner returns a new
// Dataset and validators only read.
type Dataset struct {
	names  []string
	tables map[string]*Table
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{tables: map[string]*Table{}}
}

// Add registers a table, keeping first-added order. Re-adding a name replaces
// the table in place without changing its position.
func (d *Dataset) Add(t *Table) {
	if _, ok := d.tables[t.Name]; !ok {
		d.names = append(d.names, t.Name)
	}
	d.tables[t.Name] = t
}

// Table returns the named table.
func (d *Dataset) Table(name string) (*Table, bool) {
	t, ok := d.tables[name]
	return t, ok
}

// Names returns the table names in insertion order.
func (d *Dataset) Names() []string { return append([]string(nil), d.names...) }

// Tables returns the tables in insertion order.
func (d *Dataset) Tables() []*Table {
	out := make([]*Table, 0, len(d.names))
	for _, n := range d.names {
		out = append(out, d.tables[n])
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := NewDataset()
	for _, t := range d.Tables() {
		out.Add(t.Clone())
	}
	return out
}

// Equal reports deep equality of table order and contents.
func (d *Dataset) Equal(o *Dataset) bool {
	if len(d.names) != len(o.names) {
		return false
	}
	for i, n := range d.names {
		if o.names[i] != n {
			return false
		}
		if !d.tables[n].Equal(o.tables[n]) {
			return false
		}
	}
	return true
}
