package transitgate

import (
	"errors"
	"fmt"
	"strings"
)

// Stage identifies the pipeline stage that raised a finding.
type Stage uint8

const (
	StageCleaning Stage = iota
	StageField
	StageDomain
	StageRelational
)

func (s Stage) String() string {
	switch s {
	case StageCleaning:
		return "cleaning"
	case StageField:
		return "field"
	case StageDomain:
		return "domain"
	case StageRelational:
		return "relational"
	}
	return "unknown"
}

// MarshalJSON renders the stage as its name; the report contract is textual.
func (s Stage) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Finding represents a single detected problem, before severity resolution.
// Validators create findings; nothing mutates them afterwards except the
// Classifier attaching a resolved severity via ClassifiedFinding.
type Finding struct {
	RuleID string `json:"rule_id"`
	Stage  Stage  `json:"stage"`
	Table  string `json:"table"`
	// Rows are 0-based dataset row indices. Relational and group rules may
	// attribute one finding to several rows.
	Rows    []int  `json:"rows"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Params carries structured parameters (e.g. {"min": 0, "got": -3}) for
	// message rendering and observability.
	Params map[string]any `json:"params,omitempty"`
}

// Code returns the rule code, the segment of the rule id after the last dot.
// Rule ids follow the "<table>.<field>.<code>" convention for field checks and
// catalog-chosen dotted names elsewhere.
func (f Finding) Code() string {
	if i := strings.LastIndexByte(f.RuleID, '.'); i >= 0 {
		return f.RuleID[i+1:]
	}
	return f.RuleID
}

// RuleName joins rule id segments with dots, skipping empty parts.
func RuleName(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ".")
}

// Findings is a collection of findings that implements error.
type Findings []Finding

// Error summarizes the first few findings.
func (fs Findings) Error() string {
	if len(fs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(fs)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		f := fs[i]
		fmt.Fprintf(b, "%s at %s rows %v", f.RuleID, f.Table, f.Rows)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendFindings appends findings to the destination, initializing the slice
// when needed.
func AppendFindings(dst Findings, more ...Finding) Findings {
	if dst == nil {
		dst = Findings{}
	}
	return append(dst, more...)
}

// AsFindings extracts Findings from an error using errors.As internally.
func AsFindings(err error) (Findings, bool) {
	if err == nil {
		return nil, false
	}
	var fs Findings
	if errors.As(err, &fs) {
		return fs, true
	}
	return nil, false
}
