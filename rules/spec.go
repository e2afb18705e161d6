package rules

import (
	"time"

	"github.com/cockroachdb/errors"

	transitgate "github.com/reoring/transitgate"
)

// Spec is the YAML form of one domain rule, so the rule catalog stays
// configuration rather than code. Which keys matter depends on Type.
type Spec struct {
	ID        string   `yaml:"id"`
	Type      string   `yaml:"type"`
	Field     string   `yaml:"field,omitempty"`
	Other     string   `yaml:"other,omitempty"`
	GroupBy   string   `yaml:"group_by,omitempty"`
	Min       *float64 `yaml:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty"`
	MinDate   string   `yaml:"min_date,omitempty"`
	Threshold *float64 `yaml:"threshold,omitempty"`
	Actor     string   `yaml:"actor,omitempty"`
	Allowed   []string `yaml:"allowed,omitempty"`
}

// Build materializes a Spec into a record or group rule. Exactly one of the
// returned rules is non-nil on success.
func Build(s Spec) (*transitgate.RecordRule, *transitgate.GroupRule, error) {
	if s.ID == "" {
		return nil, nil, errors.Mark(errors.Newf("rule of type %q has no id", s.Type), transitgate.ErrConfiguration)
	}
	switch s.Type {
	case "not_after":
		r := NotAfter(s.ID, s.Field, s.Other)
		return &r, nil, nil
	case "not_before":
		r := NotBefore(s.ID, s.Field, s.Other)
		return &r, nil, nil
	case "in_range":
		if s.Min == nil || s.Max == nil {
			return nil, nil, errors.Mark(errors.Newf("rule %q: in_range needs min and max", s.ID), transitgate.ErrConfiguration)
		}
		r := InRange(s.ID, s.Field, *s.Min, *s.Max)
		return &r, nil, nil
	case "non_negative":
		r := NonNegative(s.ID, s.Field)
		return &r, nil, nil
	case "positive":
		r := Positive(s.ID, s.Field)
		return &r, nil, nil
	case "not_future":
		r := NotFuture(s.ID, s.Field)
		return &r, nil, nil
	case "min_date":
		min, err := time.Parse("2006-01-02", s.MinDate)
		if err != nil {
			return nil, nil, errors.Mark(errors.Wrapf(err, "rule %q: bad min_date", s.ID), transitgate.ErrConfiguration)
		}
		r := MinDate(s.ID, s.Field, min)
		return &r, nil, nil
	case "authorized_above":
		if s.Threshold == nil {
			return nil, nil, errors.Mark(errors.Newf("rule %q: authorized_above needs a threshold", s.ID), transitgate.ErrConfiguration)
		}
		r := RequireAuthorizedAbove(s.ID, s.Field, *s.Threshold, s.Actor, s.Allowed)
		return &r, nil, nil
	case "monotonic":
		if s.GroupBy == "" {
			return nil, nil, errors.Mark(errors.Newf("rule %q: monotonic needs group_by", s.ID), transitgate.ErrConfiguration)
		}
		g := Monotonic(s.ID, s.GroupBy, s.Field)
		return nil, &g, nil
	}
	return nil, nil, errors.Mark(errors.Newf("rule %q: unknown type %q", s.ID, s.Type), transitgate.ErrConfiguration)
}
