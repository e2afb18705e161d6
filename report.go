package transitgate

import "time"

// ClassifiedFinding is a Finding with its resolved severity attached.
type ClassifiedFinding struct {
	Finding
	Severity Severity `json:"severity"`
}

// Report is the full outcome of one run: every classified finding in
// discovery order (field, then domain, then relational) plus the decision.
// It is created by the Orchestrator, finalized by the policy engine, and
// read-only thereafter. Its JSON form is the contract downstream consumers
// parse.
type Report struct {
	RunID    string              `json:"run_id"`
	Started  time.Time           `json:"started"`
	Finished time.Time           `json:"finished"`
	Findings []ClassifiedFinding `json:"findings"`
	Decision Decision            `json:"decision"`
}

// Empty reports whether the run produced no findings.
func (r *Report) Empty() bool { return len(r.Findings) == 0 }

// CountBySeverity tallies findings per severity tier.
func (r *Report) CountBySeverity() map[Severity]int {
	out := map[Severity]int{}
	for _, f := range r.Findings {
		out[f.Severity]++
	}
	return out
}
