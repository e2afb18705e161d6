package transitgate

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Policy controls how classified findings map to a Decision. It is owned by
// the caller for the run and never mutated mid-pipeline.
type Policy struct {
	// CriticalHalts halts the run on any critical finding.
	CriticalHalts bool `yaml:"critical_halts"`
	// ErrorThreshold is the error count at which the run halts. 1 means any
	// error halts; larger values configure a degraded mode where a few errors
	// still pass with warnings.
	ErrorThreshold int `yaml:"error_threshold"`
	// DefaultSeverity classifies findings whose rule id has no severity table
	// entry. Such findings are never dropped.
	DefaultSeverity Severity `yaml:"default_severity"`
}

// DefaultPolicy returns the documented defaults: critical halts, any error
// halts, unclassified findings are warnings.
func DefaultPolicy() Policy {
	return Policy{
		CriticalHalts:   true,
		ErrorThreshold:  1,
		DefaultSeverity: SeverityWarning,
	}
}

// Validate reports ConfigurationErrors for unusable policies.
func (p Policy) Validate() error {
	if p.ErrorThreshold < 1 {
		return configErrorf("policy: error_threshold must be at least 1, got %d", p.ErrorThreshold)
	}
	return nil
}

// LoadPolicy reads a YAML policy file over DefaultPolicy.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	buf, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Mark(errors.Wrapf(err, "reading policy %s", path), ErrConfiguration)
	}
	if err := yaml.Unmarshal(buf, &p); err != nil {
		return p, errors.Mark(errors.Wrapf(err, "parsing policy %s", path), ErrConfiguration)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// SeverityTable is the centralized rule_id -> Severity policy table the
// Classifier consults. Severities are tuned here, never in validators.
type SeverityTable map[string]Severity

// LoadSeverityTable reads a YAML mapping of rule ids to severity names.
func LoadSeverityTable(path string) (SeverityTable, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading severity table %s", path), ErrConfiguration)
	}
	var t SeverityTable
	if err := yaml.Unmarshal(buf, &t); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing severity table %s", path), ErrConfiguration)
	}
	return t, nil
}

// Merge overlays o on top of t, returning a new table.
func (t SeverityTable) Merge(o SeverityTable) SeverityTable {
	out := make(SeverityTable, len(t)+len(o))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}
