package catalog

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	transitgate "github.com/reoring/transitgate"
	"github.com/reoring/transitgate/rules"
)

// fileSchema is the YAML layout of a catalog file. Domain rules appear as
// rules.Spec entries, so a full rule set needs no Go code at all.
type fileSchema struct {
	Tables []fileTable `yaml:"tables"`
}

type fileTable struct {
	Name            string                         `yaml:"name"`
	PrimaryKey      string                         `yaml:"primary_key,omitempty"`
	Unique          []string                       `yaml:"unique,omitempty"`
	Fields          []fileField                    `yaml:"fields"`
	ForeignKeys     []transitgate.ForeignKey       `yaml:"foreign_keys,omitempty"`
	RequireChildren []transitgate.ChildRequirement `yaml:"require_children,omitempty"`
	Rules           []rules.Spec                   `yaml:"rules,omitempty"`
}

type fileField struct {
	Name     string                `yaml:"name"`
	Kind     string                `yaml:"kind,omitempty"`
	Required bool                  `yaml:"required,omitempty"`
	Pattern  string                `yaml:"pattern,omitempty"`
	Min      *float64              `yaml:"min,omitempty"`
	Max      *float64              `yaml:"max,omitempty"`
	Enum     []string              `yaml:"enum,omitempty"`
	Clean    transitgate.CleanSpec `yaml:"clean,omitempty"`
	Derive   *transitgate.Derive   `yaml:"derive,omitempty"`
}

// Load reads a schema catalog from a YAML file and validates it.
func Load(path string) (*transitgate.Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading catalog %s", path), transitgate.ErrConfiguration)
	}
	return LoadBytes(buf)
}

// LoadBytes parses a YAML catalog.
func LoadBytes(buf []byte) (*transitgate.Schema, error) {
	var file fileSchema
	if err := yaml.Unmarshal(buf, &file); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing catalog"), transitgate.ErrConfiguration)
	}
	sch := &transitgate.Schema{}
	for _, ft := range file.Tables {
		ts := transitgate.TableSchema{
			Name:            ft.Name,
			PrimaryKey:      ft.PrimaryKey,
			Unique:          ft.Unique,
			ForeignKeys:     ft.ForeignKeys,
			RequireChildren: ft.RequireChildren,
		}
		for _, ff := range ft.Fields {
			kind, ok := transitgate.ParseKind(ff.Kind)
			if !ok {
				return nil, errors.Mark(errors.Newf("table %q field %q: unknown kind %q", ft.Name, ff.Name, ff.Kind), transitgate.ErrConfiguration)
			}
			ts.Fields = append(ts.Fields, transitgate.FieldSchema{
				Name:     ff.Name,
				Kind:     kind,
				Required: ff.Required,
				Pattern:  ff.Pattern,
				Min:      ff.Min,
				Max:      ff.Max,
				Enum:     ff.Enum,
				Clean:    ff.Clean,
				Derive:   ff.Derive,
			})
		}
		for _, spec := range ft.Rules {
			record, group, err := rules.Build(spec)
			if err != nil {
				return nil, errors.Wrapf(err, "table %q", ft.Name)
			}
			if record != nil {
				ts.RecordRules = append(ts.RecordRules, *record)
			}
			if group != nil {
				ts.GroupRules = append(ts.GroupRules, *group)
			}
		}
		sch.Tables = append(sch.Tables, ts)
	}
	if err := sch.Validate(); err != nil {
		return nil, err
	}
	return sch, nil
}

// Resolve maps a built-in catalog name to its schema and severity table.
func Resolve(name string) (*transitgate.Schema, transitgate.SeverityTable, bool) {
	switch name {
	case "transit":
		return Transit(), TransitSeverities(), true
	case "freight":
		return Freight(), FreightSeverities(), true
	}
	return nil, nil, false
}
