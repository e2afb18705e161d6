package transitgate

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Severity expresses the resolved tier of a classified finding.
// The ordering is meaningful: higher values are worse.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// ParseSeverity maps a severity name to its tier.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "critical":
		return SeverityCritical, nil
	}
	return SeverityWarning, fmt.Errorf("unknown severity %q", s)
}

// MarshalJSON renders the severity as its name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalYAML accepts severity names in YAML severity tables and policies.
func (s *Severity) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MarshalYAML renders the severity as its name.
func (s Severity) MarshalYAML() (any, error) { return s.String(), nil }

// Decision is the policy engine's run-level outcome.
type Decision uint8

const (
	DecisionPass Decision = iota
	DecisionPassWithWarnings
	DecisionHalt
)

func (d Decision) String() string {
	switch d {
	case DecisionPass:
		return "pass"
	case DecisionPassWithWarnings:
		return "pass_with_warnings"
	case DecisionHalt:
		return "halt"
	}
	return "unknown"
}

// MarshalJSON renders the decision as its name.
func (d Decision) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}
