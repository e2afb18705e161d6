// Package rules provides constructors for the transport-domain rule registry.
// Each constructor returns an independent, stateless rule; catalogs register
// them on a TableSchema instead of hand-coding branches into validators.
package rules

import (
	"fmt"
	"strings"
	"time"

	transitgate "github.com/reoring/transitgate"
)

// NotAfter requires value(a) <= value(b) on every record, e.g. arrival time
// not after departure time. Records where either side is null, or where the
// kinds are not comparable, are skipped; those were already reported by the
// Field Validator.
func NotAfter(id, a, b string) transitgate.RecordRule {
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{a, b},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			cmp, ok := transitgate.Compare(r.Value(a), r.Value(b))
			if !ok || cmp <= 0 {
				return nil
			}
			return []transitgate.Finding{{
				Field:   a,
				Message: fmt.Sprintf("%s %q is after %s %q", a, r.Value(a).Text(), b, r.Value(b).Text()),
				Params:  map[string]any{"a": r.Value(a).Text(), "b": r.Value(b).Text()},
			}}
		},
	}
}

// NotBefore requires value(a) >= value(b), e.g. a delivery window that must
// not start before the shipping window.
func NotBefore(id, a, b string) transitgate.RecordRule {
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{a, b},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			cmp, ok := transitgate.Compare(r.Value(a), r.Value(b))
			if !ok || cmp >= 0 {
				return nil
			}
			return []transitgate.Finding{{
				Field:   a,
				Message: fmt.Sprintf("%s %q is before %s %q", a, r.Value(a).Text(), b, r.Value(b).Text()),
				Params:  map[string]any{"a": r.Value(a).Text(), "b": r.Value(b).Text()},
			}}
		},
	}
}

// InRange requires min <= value(field) <= max, e.g. latitude within [-90, 90].
func InRange(id, field string, min, max float64) transitgate.RecordRule {
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{field},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			n, ok := r.Value(field).Number()
			if !ok || (n >= min && n <= max) {
				return nil
			}
			return []transitgate.Finding{{
				Field:   field,
				Message: fmt.Sprintf("%s %v outside [%v, %v]", field, n, min, max),
				Params:  map[string]any{"min": min, "max": max, "got": n},
			}}
		},
	}
}

// NonNegative requires value(field) >= 0.
func NonNegative(id, field string) transitgate.RecordRule {
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{field},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			n, ok := r.Value(field).Number()
			if !ok || n >= 0 {
				return nil
			}
			return []transitgate.Finding{{
				Field:   field,
				Message: fmt.Sprintf("%s is negative (%v)", field, n),
				Params:  map[string]any{"got": n},
			}}
		},
	}
}

// Positive requires value(field) > 0, e.g. shipment weight.
func Positive(id, field string) transitgate.RecordRule {
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{field},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			n, ok := r.Value(field).Number()
			if !ok || n > 0 {
				return nil
			}
			return []transitgate.Finding{{
				Field:   field,
				Message: fmt.Sprintf("%s is not positive (%v)", field, n),
				Params:  map[string]any{"got": n},
			}}
		},
	}
}

// NotFuture requires value(field) to be at or before the run clock.
func NotFuture(id, field string) transitgate.RecordRule {
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{field},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			t, ok := r.Value(field).Time()
			if !ok || !t.After(c.Now()) {
				return nil
			}
			return []transitgate.Finding{{
				Field:   field,
				Message: fmt.Sprintf("%s %s is in the future", field, t.Format(time.RFC3339)),
				Params:  map[string]any{"got": t.Format(time.RFC3339)},
			}}
		},
	}
}

// MinDate requires value(field) >= min, flagging implausibly old records.
func MinDate(id, field string, min time.Time) transitgate.RecordRule {
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{field},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			t, ok := r.Value(field).Time()
			if !ok || !t.Before(min) {
				return nil
			}
			return []transitgate.Finding{{
				Field:   field,
				Message: fmt.Sprintf("%s %s is before %s", field, t.Format("2006-01-02"), min.Format("2006-01-02")),
				Params:  map[string]any{"got": t.Format(time.RFC3339), "min": min.Format(time.RFC3339)},
			}}
		},
	}
}

// RequireAuthorizedAbove requires that records where value(field) >= threshold
// were created by one of the allowed actors. Actor values compare trimmed and
// case-insensitive; the allowlist is normalized once at construction.
func RequireAuthorizedAbove(id, field string, threshold float64, actorField string, allowed []string) transitgate.RecordRule {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[strings.ToLower(strings.TrimSpace(a))] = true
	}
	return transitgate.RecordRule{
		ID:    id,
		Needs: []string{field},
		Check: func(c transitgate.RuleContext, row int, r transitgate.Record) []transitgate.Finding {
			n, ok := r.Value(field).Number()
			if !ok || n < threshold {
				return nil
			}
			actor := strings.ToLower(strings.TrimSpace(r.Value(actorField).Str()))
			if set[actor] {
				return nil
			}
			return []transitgate.Finding{{
				Field:   field,
				Message: fmt.Sprintf("%s %v requires an authorized %s", field, n, actorField),
				Params:  map[string]any{"got": n, "threshold": threshold, "actor": actor},
			}}
		},
	}
}

// Monotonic requires value(field) to be strictly increasing across the rows
// sharing the same key, in dataset row order, e.g. stop_sequence within one
// trip. One finding per offending group, attributed to the rows that break
// the order.
func Monotonic(id, key, field string) transitgate.GroupRule {
	return transitgate.GroupRule{
		ID:    id,
		Key:   key,
		Needs: []string{field},
		Check: func(c transitgate.RuleContext, rows []int, recs []transitgate.Record) []transitgate.Finding {
			var bad []int
			for i := 1; i < len(recs); i++ {
				cmp, ok := transitgate.Compare(recs[i-1].Value(field), recs[i].Value(field))
				if ok && cmp >= 0 {
					bad = append(bad, rows[i])
				}
			}
			if len(bad) == 0 {
				return nil
			}
			groupKey := recs[0].Value(key).Text()
			return []transitgate.Finding{{
				Rows:    bad,
				Field:   field,
				Message: fmt.Sprintf("%s is not strictly increasing within %s %q", field, key, groupKey),
				Params:  map[string]any{"key": groupKey},
			}}
		},
	}
}
