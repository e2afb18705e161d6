package transitgate

import (
	"github.com/reoring/transitgate/i18n"
)

// ValidateFields checks every declared field in isolation against its
// presence, kind, pattern, range, and enum rules. One finding is emitted per
// violated rule; emission order is table order, then row order, then field
// declaration order, then rule order, so reports are reproducible.
// The dataset is never mutated.
func ValidateFields(s *Schema, d *Dataset) Findings {
	var out Findings
	for ti := range s.Tables {
		ts := &s.Tables[ti]
		t, ok := d.Table(ts.Name)
		if !ok {
			out = append(out, Finding{
				RuleID:  RuleName(ts.Name, CodeRequired),
				Stage:   StageField,
				Table:   ts.Name,
				Message: i18n.T(CodeRequired, nil),
				Params:  map[string]any{"table": ts.Name},
			})
			continue
		}
		out = append(out, unknownColumns(ts, t)...)
		for i, r := range t.Rows() {
			for fi := range ts.Fields {
				out = append(out, checkField(s, ts, &ts.Fields[fi], i, r)...)
			}
		}
	}
	return out
}

// unknownColumns flags dataset columns the schema does not declare. These are
// table-level findings with no row attribution.
func unknownColumns(ts *TableSchema, t *Table) Findings {
	var out Findings
	for _, col := range t.Fields {
		if _, ok := ts.Field(col); ok {
			continue
		}
		out = append(out, Finding{
			RuleID:  RuleName(ts.Name, col, CodeUnknownField),
			Stage:   StageField,
			Table:   ts.Name,
			Field:   col,
			Message: i18n.T(CodeUnknownField, nil),
		})
	}
	return out
}

func checkField(s *Schema, ts *TableSchema, fs *FieldSchema, row int, r Record) Findings {
	var out Findings
	emit := func(code string, params map[string]any) {
		out = append(out, Finding{
			RuleID:  RuleName(ts.Name, fs.Name, code),
			Stage:   StageField,
			Table:   ts.Name,
			Rows:    []int{row},
			Field:   fs.Name,
			Message: i18n.T(code, nil),
			Params:  params,
		})
	}

	v := r.Value(fs.Name)
	if v.IsNull() {
		if fs.Required {
			emit(CodeRequired, nil)
		}
		// Nothing else can be evaluated on a null; domain rules skip it too.
		return out
	}
	if v.Kind() != fs.Kind {
		emit(CodeInvalidType, map[string]any{
			"expected": fs.Kind.String(),
			"got":      v.Kind().String(),
			"raw":      v.Raw(),
		})
		// The value is unusable for the remaining rules.
		return out
	}
	if re := s.pattern(ts.Name, fs.Name); re != nil && v.Kind() == KindString && !re.MatchString(v.Str()) {
		emit(CodePattern, map[string]any{"pattern": fs.Pattern, "got": v.Str()})
	}
	if n, ok := v.Number(); ok {
		if fs.Min != nil && n < *fs.Min {
			emit(CodeTooSmall, map[string]any{"min": *fs.Min, "got": n})
		}
		if fs.Max != nil && n > *fs.Max {
			emit(CodeTooBig, map[string]any{"max": *fs.Max, "got": n})
		}
	}
	if len(fs.Enum) > 0 && v.Kind() == KindString && !containsString(fs.Enum, v.Str()) {
		emit(CodeInvalidEnum, map[string]any{
			"allowed": fs.Enum,
			"got":     v.Str(),
		})
	}
	return out
}

func containsString(set []string, s string) bool {
	for _, e := range set {
		if e == s {
			return true
		}
	}
	return false
}
