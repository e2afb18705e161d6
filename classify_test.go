package transitgate_test

import (
	"testing"

	transitgate "github.com/reoring/transitgate"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func classifyInput() transitgate.Findings {
	return transitgate.Findings{
		{RuleID: "stops.stop_id.required", Stage: transitgate.StageField, Table: "stops", Rows: []int{0}},
		{RuleID: "stops.stop_id.duplicate", Stage: transitgate.StageRelational, Table: "stops", Rows: []int{0, 3}},
		{RuleID: "stops.stop_lat.out_of_range", Stage: transitgate.StageDomain, Table: "stops", Rows: []int{1}},
		{RuleID: "stops.zone.mystery", Stage: transitgate.StageDomain, Table: "stops", Rows: []int{2}},
	}
}

func TestClassify_Totality(t *testing.T) {
	table := transitgate.SeverityTable{
		"stops.stop_id.required": transitgate.SeverityCritical,
		"duplicate":              transitgate.SeverityCritical,
		"out_of_range":           transitgate.SeverityError,
	}
	c := transitgate.NewClassifier(table, transitgate.SeverityWarning, nil)
	in := classifyInput()
	out := c.Classify(in)
	if len(out) != len(in) {
		t.Fatalf("classification dropped findings: %d != %d", len(out), len(in))
	}
	want := []transitgate.Severity{
		transitgate.SeverityCritical, // exact rule id
		transitgate.SeverityCritical, // code family
		transitgate.SeverityError,    // code family
		transitgate.SeverityWarning,  // default
	}
	for i, cf := range out {
		if cf.Severity != want[i] {
			t.Errorf("finding %d (%s): severity %s, want %s", i, cf.RuleID, cf.Severity, want[i])
		}
		if cf.RuleID != in[i].RuleID {
			t.Errorf("order not preserved at %d: %s", i, cf.RuleID)
		}
	}
}

func TestClassify_ExactRuleBeatsCodeFamily(t *testing.T) {
	table := transitgate.SeverityTable{
		"required":               transitgate.SeverityWarning,
		"stops.stop_id.required": transitgate.SeverityCritical,
	}
	c := transitgate.NewClassifier(table, transitgate.SeverityInfo, nil)
	out := c.Classify(transitgate.Findings{{RuleID: "stops.stop_id.required"}})
	if out[0].Severity != transitgate.SeverityCritical {
		t.Fatalf("exact entry must win: got %s", out[0].Severity)
	}
}

func TestClassify_DefaultIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := transitgate.NewClassifier(transitgate.SeverityTable{}, transitgate.SeverityWarning, zap.New(core))

	c.Classify(transitgate.Findings{{RuleID: "stops.zone.mystery"}})

	entries := logs.FilterMessage("finding classified by default severity").All()
	if len(entries) != 1 {
		t.Fatalf("want one default-severity log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["rule_id"] != "stops.zone.mystery" {
		t.Fatalf("log missing rule id: %v", fields)
	}
}

func TestClassify_OrderIndependent(t *testing.T) {
	table := transitgate.SeverityTable{"duplicate": transitgate.SeverityCritical}
	c := transitgate.NewClassifier(table, transitgate.SeverityWarning, nil)

	in := classifyInput()
	rev := make(transitgate.Findings, len(in))
	for i, f := range in {
		rev[len(in)-1-i] = f
	}
	fwd := c.Classify(in)
	bwd := c.Classify(rev)
	for i := range fwd {
		j := len(bwd) - 1 - i
		if fwd[i].RuleID != bwd[j].RuleID || fwd[i].Severity != bwd[j].Severity {
			t.Fatalf("severity depends on position: %v vs %v", fwd[i], bwd[j])
		}
	}
}
