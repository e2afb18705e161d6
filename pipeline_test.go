package transitgate_test

import (
	"context"
	"encoding/json"
	"testing"

	goccy "github.com/goccy/go-json"
	transitgate "github.com/reoring/transitgate"
	"github.com/reoring/transitgate/catalog"
)

func transitDataset() *transitgate.Dataset {
	stops := transitgate.NewTable("stops", "stop_id", "stop_name", "stop_lat", "stop_lon")
	stops.Append(transitgate.Record{
		"stop_id":   transitgate.StringValue("S1"),
		"stop_name": transitgate.StringValue("Central"),
		"stop_lat":  transitgate.StringValue("35.681"),
		"stop_lon":  transitgate.StringValue("139.767"),
	})
	stops.Append(transitgate.Record{
		"stop_id":   transitgate.StringValue(" S2 "),
		"stop_name": transitgate.StringValue("Harbor"),
		"stop_lat":  transitgate.StringValue("35.630"),
		"stop_lon":  transitgate.StringValue("139.740"),
	})

	trips := transitgate.NewTable("trips", "trip_id", "route_id")
	trips.Append(transitgate.Record{
		"trip_id":  transitgate.StringValue("T1"),
		"route_id": transitgate.StringValue("R1"),
	})

	st := transitgate.NewTable("stop_times", "trip_id", "stop_id", "stop_sequence", "arrival_time", "departure_time")
	st.Append(transitgate.Record{
		"trip_id":        transitgate.StringValue("T1"),
		"stop_id":        transitgate.StringValue("S1"),
		"stop_sequence":  transitgate.StringValue("1"),
		"arrival_time":   transitgate.StringValue("08:00:00"),
		"departure_time": transitgate.StringValue("08:01:00"),
	})
	st.Append(transitgate.Record{
		"trip_id":        transitgate.StringValue("T1"),
		"stop_id":        transitgate.StringValue("S2"),
		"stop_sequence":  transitgate.StringValue("2"),
		"arrival_time":   transitgate.StringValue("08:10:00"),
		"departure_time": transitgate.StringValue("08:11:00"),
	})

	ds := transitgate.NewDataset()
	ds.Add(stops)
	ds.Add(trips)
	ds.Add(st)
	return ds
}

func runTransit(t *testing.T, ds *transitgate.Dataset) transitgate.Result {
	t.Helper()
	res, err := transitgate.Run(context.Background(), catalog.Transit(), ds, transitgate.DefaultPolicy(),
		transitgate.WithSeverityTable(catalog.TransitSeverities()))
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestRun_CleanFeedPasses(t *testing.T) {
	res := runTransit(t, transitDataset())
	if res.Report.Decision != transitgate.DecisionPass {
		t.Fatalf("decision %s, findings %+v", res.Report.Decision, res.Report.Findings)
	}
	if !res.Report.Empty() {
		t.Fatalf("clean feed produced findings: %+v", res.Report.Findings)
	}
	stops, _ := res.Cleaned.Table("stops")
	if got := stops.Row(1).Value("stop_id").Str(); got != "S2" {
		t.Fatalf("cleaning not applied: %q", got)
	}
}

func TestRun_WarningsOnlyPassWithWarnings(t *testing.T) {
	ds := transitDataset()
	trips, _ := ds.Table("trips")
	trips.Append(transitgate.Record{
		"trip_id":  transitgate.StringValue("T2"),
		"route_id": transitgate.StringValue("R1"),
	})

	res := runTransit(t, ds)
	if res.Report.Decision != transitgate.DecisionPassWithWarnings {
		t.Fatalf("decision %s, findings %+v", res.Report.Decision, res.Report.Findings)
	}
	if n := res.Report.CountBySeverity()[transitgate.SeverityWarning]; n != 1 {
		t.Fatalf("want one warning (trip without stop_times), got %+v", res.Report.Findings)
	}
}

func TestRun_BrokenReferenceHalts(t *testing.T) {
	ds := transitDataset()
	st, _ := ds.Table("stop_times")
	st.Append(transitgate.Record{
		"trip_id":       transitgate.StringValue("T1"),
		"stop_id":       transitgate.StringValue("S404"),
		"stop_sequence": transitgate.StringValue("3"),
	})

	res := runTransit(t, ds)
	if res.Report.Decision != transitgate.DecisionHalt {
		t.Fatalf("decision %s", res.Report.Decision)
	}
	var hit bool
	for _, f := range res.Report.Findings {
		if f.RuleID == "stop_times.stop_id.unknown_ref" {
			hit = true
			if f.Severity != transitgate.SeverityCritical {
				t.Fatalf("unknown_ref classified %s", f.Severity)
			}
		}
	}
	if !hit {
		t.Fatalf("broken reference not reported: %+v", res.Report.Findings)
	}
}

// A halt must not truncate diagnostics: every stage's findings are in the
// report even when the first one already forces the halt.
func TestRun_HaltReportIsComplete(t *testing.T) {
	ds := transitDataset()
	stops, _ := ds.Table("stops")
	stops.Append(transitgate.Record{ // null stop_id (critical) + bad latitude
		"stop_lat": transitgate.StringValue("95"),
		"stop_lon": transitgate.StringValue("10"),
	})
	st, _ := ds.Table("stop_times")
	st.Append(transitgate.Record{ // out-of-order sequence in T1
		"trip_id":       transitgate.StringValue("T1"),
		"stop_id":       transitgate.StringValue("S1"),
		"stop_sequence": transitgate.StringValue("1"),
	})

	res := runTransit(t, ds)
	if res.Report.Decision != transitgate.DecisionHalt {
		t.Fatalf("decision %s", res.Report.Decision)
	}
	want := map[string]transitgate.Stage{
		"stops.stop_id.required":              transitgate.StageField,
		"stops.stop_lat.out_of_range":         transitgate.StageDomain,
		"stop_times.stop_sequence.out_of_order": transitgate.StageDomain,
	}
	seen := map[string]bool{}
	for _, f := range res.Report.Findings {
		if st, ok := want[f.RuleID]; ok {
			if f.Stage != st {
				t.Errorf("%s attributed to %s, want %s", f.RuleID, f.Stage, st)
			}
			seen[f.RuleID] = true
		}
	}
	for id := range want {
		if !seen[id] {
			t.Errorf("halt report missing %s", id)
		}
	}
}

// Same input, same report. The validators fan out, so repeated runs guard the
// fixed merge order.
func TestRun_Deterministic(t *testing.T) {
	ds := transitDataset()
	stops, _ := ds.Table("stops")
	stops.Append(transitgate.Record{
		"stop_id":  transitgate.StringValue("S1"), // duplicate
		"stop_lat": transitgate.StringValue("200"),
		"stop_lon": transitgate.StringValue("10"),
	})

	base := runTransit(t, ds).Report
	for i := 0; i < 10; i++ {
		rep := runTransit(t, ds.Clone()).Report
		if len(rep.Findings) != len(base.Findings) {
			t.Fatalf("run %d: %d findings, want %d", i, len(rep.Findings), len(base.Findings))
		}
		for j := range rep.Findings {
			a, b := rep.Findings[j], base.Findings[j]
			if a.RuleID != b.RuleID || a.Severity != b.Severity || a.Stage != b.Stage {
				t.Fatalf("run %d: finding %d differs: %+v vs %+v", i, j, a, b)
			}
		}
	}
}

func TestRun_InputNotMutated(t *testing.T) {
	ds := transitDataset()
	before := ds.Clone()
	runTransit(t, ds)
	if !ds.Equal(before) {
		t.Fatal("Run mutated its input dataset")
	}
}

func TestRun_RejectsBadConfiguration(t *testing.T) {
	_, err := transitgate.Run(context.Background(), catalog.Transit(), transitDataset(),
		transitgate.Policy{ErrorThreshold: 0})
	if err == nil {
		t.Fatal("invalid policy must fail the run")
	}
}

// The report's JSON form is the downstream contract: stable keys, severities
// and stages as lowercase names.
func TestRun_ReportJSONContract(t *testing.T) {
	ds := transitDataset()
	st, _ := ds.Table("stop_times")
	st.Append(transitgate.Record{
		"trip_id":       transitgate.StringValue("T1"),
		"stop_id":       transitgate.StringValue("S404"),
		"stop_sequence": transitgate.StringValue("3"),
	})

	res := runTransit(t, ds)
	buf, err := goccy.Marshal(res.Report)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		RunID    string `json:"run_id"`
		Decision string `json:"decision"`
		Findings []struct {
			RuleID   string `json:"rule_id"`
			Stage    string `json:"stage"`
			Table    string `json:"table"`
			Rows     []int  `json:"rows"`
			Severity string `json:"severity"`
		} `json:"findings"`
	}
	if err := json.Unmarshal(buf, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.RunID == "" || doc.Decision != "halt" {
		t.Fatalf("unexpected envelope: run_id=%q decision=%q", doc.RunID, doc.Decision)
	}
	f := doc.Findings[len(doc.Findings)-1]
	if f.RuleID != "stop_times.stop_id.unknown_ref" || f.Stage != "relational" ||
		f.Table != "stop_times" || f.Severity != "critical" || len(f.Rows) != 1 {
		t.Fatalf("unexpected finding encoding: %+v", f)
	}
}
