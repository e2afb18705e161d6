package transitgate

import (
	"fmt"

	"github.com/reoring/transitgate/internal/index"
)

// ValidateRelational checks cross-record constraints over the whole cleaned
// dataset: uniqueness of primary keys and declared unique fields, foreign-key
// existence, and child completeness. Lookup indices are built privately per
// run and discarded afterwards; the dataset itself is never touched.
// Emission order is table order, then rule registration order (primary key,
// unique, foreign keys, child requirements), then first-offending-row order.
func ValidateRelational(s *Schema, d *Dataset) Findings {
	var out Findings
	for ti := range s.Tables {
		ts := &s.Tables[ti]
		t, ok := d.Table(ts.Name)
		if !ok {
			continue
		}
		if ts.PrimaryKey != "" {
			out = append(out, checkUnique(ts.Name, ts.PrimaryKey, t)...)
		}
		for _, u := range ts.Unique {
			out = append(out, checkUnique(ts.Name, u, t)...)
		}
		for _, fk := range ts.ForeignKeys {
			out = append(out, checkForeignKey(ts.Name, fk, t, d)...)
		}
		for _, cr := range ts.RequireChildren {
			out = append(out, checkChildren(ts.Name, cr, t, d)...)
		}
	}
	return out
}

// checkUnique reports one finding per duplicated key, attributed to every row
// sharing it, ordered by the key's first occurrence.
func checkUnique(table, field string, t *Table) Findings {
	ix := index.New()
	text := map[string]string{}
	for i, r := range t.Rows() {
		v := r.Value(field)
		if v.IsNull() {
			continue
		}
		k := v.key()
		if !ix.Has(k) {
			text[k] = v.Text()
		}
		ix.Add(k, i)
	}
	var out Findings
	for _, k := range ix.Keys() {
		rows := ix.Rows(k)
		if len(rows) < 2 {
			continue
		}
		out = append(out, Finding{
			RuleID:  RuleName(table, field, CodeDuplicate),
			Stage:   StageRelational,
			Table:   table,
			Rows:    append([]int(nil), rows...),
			Field:   field,
			Message: fmt.Sprintf("%s %q occurs %d times", field, text[k], len(rows)),
			Params:  map[string]any{"key": text[k], "count": len(rows)},
		})
	}
	return out
}

// checkForeignKey reports each broken reference once, on the referencing row,
// naming the missing key. Null references are skipped; required-ness is the
// Field Validator's concern.
func checkForeignKey(table string, fk ForeignKey, t *Table, d *Dataset) Findings {
	ref, ok := d.Table(fk.RefTable)
	if !ok {
		// The missing table was already reported at the field stage.
		return nil
	}
	ix := index.New()
	for i, r := range ref.Rows() {
		if v := r.Value(fk.RefField); !v.IsNull() {
			ix.Add(v.key(), i)
		}
	}
	var out Findings
	for i, r := range t.Rows() {
		v := r.Value(fk.Field)
		if v.IsNull() || ix.Has(v.key()) {
			continue
		}
		out = append(out, Finding{
			RuleID:  RuleName(table, fk.Field, CodeUnknownRef),
			Stage:   StageRelational,
			Table:   table,
			Rows:    []int{i},
			Field:   fk.Field,
			Message: fmt.Sprintf("%s %q not found in %s.%s", fk.Field, v.Text(), fk.RefTable, fk.RefField),
			Params:  map[string]any{"key": v.Text(), "ref_table": fk.RefTable, "ref_field": fk.RefField},
		})
	}
	return out
}

// checkChildren reports each parent row whose key is referenced by no child
// row at all.
func checkChildren(table string, cr ChildRequirement, t *Table, d *Dataset) Findings {
	child, ok := d.Table(cr.ChildTable)
	if !ok {
		return nil
	}
	ix := index.New()
	for i, r := range child.Rows() {
		if v := r.Value(cr.ChildField); !v.IsNull() {
			ix.Add(v.key(), i)
		}
	}
	var out Findings
	for i, r := range t.Rows() {
		v := r.Value(cr.KeyField)
		if v.IsNull() || ix.Has(v.key()) {
			continue
		}
		out = append(out, Finding{
			RuleID:  RuleName(table, cr.ChildTable, CodeMissingChild),
			Stage:   StageRelational,
			Table:   table,
			Rows:    []int{i},
			Field:   cr.KeyField,
			Message: fmt.Sprintf("%s %q has no rows in %s", cr.KeyField, v.Text(), cr.ChildTable),
			Params:  map[string]any{"key": v.Text(), "child_table": cr.ChildTable},
		})
	}
	return out
}
