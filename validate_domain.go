package transitgate

import "time"

// ValidateDomain runs every registered domain rule over the cleaned dataset:
// record rules one record at a time, group rules once per key group. Rules are
// stateless and independent; a record whose prerequisite fields are null is
// skipped, since the Field Validator already reported the missing field and a
// second finding for the same root cause would be noise.
// Emission order is table order, then rule registration order, then row order.
func ValidateDomain(s *Schema, d *Dataset, now func() time.Time) Findings {
	if now == nil {
		now = time.Now
	}
	var out Findings
	for ti := range s.Tables {
		ts := &s.Tables[ti]
		t, ok := d.Table(ts.Name)
		if !ok {
			continue
		}
		c := RuleContext{Table: ts.Name, Now: now}
		for ri := range ts.RecordRules {
			rule := &ts.RecordRules[ri]
			for i, r := range t.Rows() {
				if missingNeeds(rule.Needs, r) {
					continue
				}
				fs := rule.Check(c, i, r)
				out = append(out, stamp(fs, rule.ID, ts.Name, []int{i})...)
			}
		}
		for gi := range ts.GroupRules {
			rule := &ts.GroupRules[gi]
			for _, g := range groupRows(rule, t) {
				fs := rule.Check(c, g.rows, g.recs)
				out = append(out, stamp(fs, rule.ID, ts.Name, g.rows)...)
			}
		}
	}
	return out
}

func missingNeeds(needs []string, r Record) bool {
	for _, n := range needs {
		if r.Value(n).IsNull() {
			return true
		}
	}
	return false
}

// stamp fills in the attribution a rule closure left blank. Rules only state
// what they know; stage, table, and default rows come from the engine.
func stamp(fs []Finding, id, table string, rows []int) Findings {
	out := make(Findings, 0, len(fs))
	for _, f := range fs {
		f.Stage = StageDomain
		f.Table = table
		if f.RuleID == "" {
			f.RuleID = id
		}
		if f.Rows == nil {
			f.Rows = append([]int(nil), rows...)
		}
		out = append(out, f)
	}
	return out
}

type group struct {
	rows []int
	recs []Record
}

// groupRows partitions a table by the rule's key field, keeping first-seen
// group order and dataset row order within each group. Rows with a null key or
// null prerequisites are left out.
func groupRows(rule *GroupRule, t *Table) []group {
	order := []string{}
	byKey := map[string]*group{}
	for i, r := range t.Rows() {
		k := r.Value(rule.Key)
		if k.IsNull() || missingNeeds(rule.Needs, r) {
			continue
		}
		key := k.key()
		g, ok := byKey[key]
		if !ok {
			g = &group{}
			byKey[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, i)
		g.recs = append(g.recs, r)
	}
	out := make([]group, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
