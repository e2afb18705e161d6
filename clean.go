package transitgate

import (
	"strconv"
	"strings"
	"time"
)

// Clean applies every table's declared cleaning transforms and returns a new
// Dataset. Row count and order are untouched and the input is never mutated.
// Cleaning is deterministic and idempotent; a coercion that fails keeps the
// raw string value so the Field Validator reports it as a kind mismatch;
// the Cleaner itself raises nothing.
func Clean(s *Schema, d *Dataset) *Dataset {
	out := NewDataset()
	for _, t := range d.Tables() {
		ts, ok := s.Table(t.Name)
		if !ok {
			out.Add(t.Clone())
			continue
		}
		out.Add(cleanTable(ts, t))
	}
	return out
}

func cleanTable(ts *TableSchema, t *Table) *Table {
	fields := append([]string(nil), t.Fields...)
	for i := range ts.Fields {
		if !t.HasField(ts.Fields[i].Name) && ts.Fields[i].Derive != nil {
			fields = append(fields, ts.Fields[i].Name)
		}
	}
	ct := NewTable(t.Name, fields...)
	ct.SourceBase = t.SourceBase
	for _, r := range t.Rows() {
		cr := make(Record, len(r)+2)
		for name, v := range r {
			if fs, ok := ts.Field(name); ok && fs.Derive == nil {
				cr[name] = cleanValue(fs, v)
			} else if !ok {
				cr[name] = v
			}
		}
		// Derived fields always recompute from their source field, which
		// keeps a second cleaning pass a no-op.
		for i := range ts.Fields {
			fs := &ts.Fields[i]
			if fs.Derive == nil {
				continue
			}
			cr[fs.Name] = deriveValue(fs, cr.Value(fs.Derive.From))
		}
		ct.Append(cr)
	}
	return ct
}

func deriveValue(fs *FieldSchema, src Value) Value {
	if src.Kind() != KindString {
		return Null()
	}
	parts := strings.Split(src.Str(), fs.Derive.Sep)
	if fs.Derive.Part >= len(parts) {
		return Null()
	}
	part := parts[fs.Derive.Part]
	return cleanValue(fs, StringValue(part))
}

func cleanValue(fs *FieldSchema, v Value) Value {
	if v.Kind() != KindString {
		return v
	}
	raw := v.Raw()
	if raw == "" {
		raw = v.Str()
	}
	s := v.Str()
	if fs.Clean.Trim {
		s = strings.TrimSpace(s)
	}
	if isNullSentinel(fs, s) {
		return Null().WithRaw(raw)
	}
	if fs.Clean.Upper {
		s = strings.ToUpper(s)
	}
	switch fs.Kind {
	case KindNumber:
		num := s
		for _, c := range fs.Clean.Strip {
			num = strings.ReplaceAll(num, string(c), "")
		}
		if n, err := strconv.ParseFloat(num, 64); err == nil {
			return NumberValue(n).WithRaw(raw)
		}
	case KindTime:
		layouts := fs.Clean.TimeLayouts
		if len(layouts) == 0 {
			layouts = DefaultTimeLayouts
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return TimeValue(t).WithRaw(raw)
			}
		}
	}
	return StringValue(s).WithRaw(raw)
}

func isNullSentinel(fs *FieldSchema, s string) bool {
	if s == "" {
		return true
	}
	for _, sentinel := range fs.Clean.Nulls {
		if s == sentinel {
			return true
		}
	}
	return false
}
