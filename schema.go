package transitgate

import (
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrConfiguration marks fatal configuration problems (invalid schema or
// policy). Configuration errors abort before any pipeline stage runs; they are
// never folded into the error report.
var ErrConfiguration = errors.New("transitgate: invalid configuration")

func configErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrConfiguration)
}

// CleanSpec declares the deterministic cleaning transforms for one field.
// Cleaning never drops rows and never raises; a coercion that fails leaves the
// raw string value in place for the Field Validator to report.
type CleanSpec struct {
	// Trim removes surrounding whitespace before anything else.
	Trim bool `yaml:"trim"`
	// Upper folds the value to upper case (state codes, free-text columns).
	Upper bool `yaml:"upper"`
	// Strip removes every occurrence of these characters before numeric
	// coercion, e.g. "," for thousands separators.
	Strip string `yaml:"strip,omitempty"`
	// Nulls lists sentinel strings normalized to null after trimming. The
	// empty string is always a null sentinel.
	Nulls []string `yaml:"nulls,omitempty"`
	// TimeLayouts are the accepted layouts for time coercion. Defaults to
	// DefaultTimeLayouts when empty.
	TimeLayouts []string `yaml:"time_layouts,omitempty"`
}

// DefaultTimeLayouts are tried in order when a field declares KindTime and no
// layouts of its own.
var DefaultTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	time.RFC3339,
}

// Derive populates a field by splitting another field's text, the way range
// columns like "2024-01-02 - 2024-01-05" carry two dates in one cell.
type Derive struct {
	From string `yaml:"from"`
	Sep  string `yaml:"sep"`
	Part int    `yaml:"part"`
}

// FieldSchema declares one field: its kind, presence, format and range rules,
// and how it is cleaned. Field checks are emitted in the struct's rule order:
// required, kind, pattern, range, enum.
type FieldSchema struct {
	Name     string    `yaml:"name"`
	Kind     Kind      `yaml:"-"`
	Required bool      `yaml:"required"`
	Pattern  string    `yaml:"pattern,omitempty"`
	Min      *float64  `yaml:"min,omitempty"`
	Max      *float64  `yaml:"max,omitempty"`
	Enum     []string  `yaml:"enum,omitempty"`
	Clean    CleanSpec `yaml:"clean"`
	Derive   *Derive   `yaml:"derive,omitempty"`
}

// ForeignKey requires every non-null value of Field to exist in
// RefTable.RefField.
type ForeignKey struct {
	Field    string `yaml:"field"`
	RefTable string `yaml:"ref_table"`
	RefField string `yaml:"ref_field"`
}

// ChildRequirement requires every row of the parent table to be referenced by
// at least one row of ChildTable via ChildField = parent KeyField.
type ChildRequirement struct {
	ChildTable string `yaml:"child_table"`
	ChildField string `yaml:"child_field"`
	KeyField   string `yaml:"key_field"`
}

// RuleContext is handed to domain rules at evaluation time.
type RuleContext struct {
	Table string
	// Now supplies the clock so time-sensitive rules (future dates) stay
	// deterministic under test.
	Now func() time.Time
}

// RecordRule is a stateless domain rule over one record. The engine skips a
// record whenever any field in Needs is null there, since the missing field
// was already reported by the Field Validator.
type RecordRule struct {
	ID    string
	Needs []string
	Check func(c RuleContext, row int, r Record) []Finding
}

// GroupRule is a domain rule over the rows of one table sharing a Key value,
// e.g. stop-sequence monotonicity within a trip. Rows with a null key are
// skipped. The engine hands rows in dataset order.
type GroupRule struct {
	ID    string
	Key   string
	Needs []string
	Check func(c RuleContext, rows []int, recs []Record) []Finding
}

// TableSchema declares one table: field rules, relational constraints, and
// registered domain rules. Relational checks run in declaration order:
// primary key, unique fields, foreign keys, child requirements.
type TableSchema struct {
	Name            string
	Fields          []FieldSchema
	PrimaryKey      string
	Unique          []string
	ForeignKeys     []ForeignKey
	RequireChildren []ChildRequirement
	RecordRules     []RecordRule
	GroupRules      []GroupRule
}

// Field returns the schema for the named field.
func (t *TableSchema) Field(name string) (*FieldSchema, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// Schema is the ordered catalog of table schemas for one dataset family.
// The rule catalog is configuration: built-in catalogs live in the catalog
// package and arbitrary ones load from YAML.
type Schema struct {
	Tables []TableSchema

	patterns map[string]*regexp.Regexp
}

// Table returns the schema for the named table.
func (s *Schema) Table(name string) (*TableSchema, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Validate checks the catalog for internal consistency and compiles field
// patterns. It must be called (directly or via Run) before validation;
// problems are ConfigurationErrors.
func (s *Schema) Validate() error {
	if len(s.Tables) == 0 {
		return configErrorf("schema declares no tables")
	}
	s.patterns = map[string]*regexp.Regexp{}
	seen := map[string]bool{}
	for ti := range s.Tables {
		t := &s.Tables[ti]
		if seen[t.Name] {
			return configErrorf("duplicate table %q", t.Name)
		}
		seen[t.Name] = true
		for fi := range t.Fields {
			f := &t.Fields[fi]
			if f.Pattern != "" {
				re, err := regexp.Compile(f.Pattern)
				if err != nil {
					return errors.Mark(errors.Wrapf(err, "table %q field %q: bad pattern", t.Name, f.Name), ErrConfiguration)
				}
				s.patterns[t.Name+"\x00"+f.Name] = re
			}
			if f.Derive != nil {
				if _, ok := t.Field(f.Derive.From); !ok {
					return configErrorf("table %q field %q derives from unknown field %q", t.Name, f.Name, f.Derive.From)
				}
				if f.Derive.Sep == "" {
					return configErrorf("table %q field %q: derive needs a separator", t.Name, f.Name)
				}
			}
		}
		if t.PrimaryKey != "" {
			if _, ok := t.Field(t.PrimaryKey); !ok {
				return configErrorf("table %q: unknown primary key field %q", t.Name, t.PrimaryKey)
			}
		}
		for _, u := range t.Unique {
			if _, ok := t.Field(u); !ok {
				return configErrorf("table %q: unknown unique field %q", t.Name, u)
			}
		}
		for _, fk := range t.ForeignKeys {
			ref, ok := s.Table(fk.RefTable)
			if !ok {
				return configErrorf("table %q: foreign key %q references unknown table %q", t.Name, fk.Field, fk.RefTable)
			}
			if _, ok := ref.Field(fk.RefField); !ok {
				return configErrorf("table %q: foreign key %q references unknown field %q.%q", t.Name, fk.Field, fk.RefTable, fk.RefField)
			}
		}
		for _, cr := range t.RequireChildren {
			if _, ok := s.Table(cr.ChildTable); !ok {
				return configErrorf("table %q: child requirement references unknown table %q", t.Name, cr.ChildTable)
			}
			if _, ok := t.Field(cr.KeyField); !ok {
				return configErrorf("table %q: child requirement uses unknown key field %q", t.Name, cr.KeyField)
			}
		}
	}
	return nil
}

// pattern returns the compiled pattern for a field, nil when none declared.
func (s *Schema) pattern(table, field string) *regexp.Regexp {
	if s.patterns == nil {
		return nil
	}
	return s.patterns[table+"\x00"+field]
}
