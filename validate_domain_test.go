package transitgate_test

import (
	"testing"
	"time"

	transitgate "github.com/reoring/transitgate"
	"github.com/reoring/transitgate/rules"
)

func stopTimesTable(rows ...[3]string) *transitgate.Table {
	t := transitgate.NewTable("stop_times", "trip_id", "stop_sequence", "dist")
	for _, r := range rows {
		rec := transitgate.Record{}
		if r[0] != "" {
			rec["trip_id"] = transitgate.StringValue(r[0])
		}
		if r[1] != "" {
			rec["stop_sequence"] = transitgate.StringValue(r[1])
		}
		if r[2] != "" {
			rec["dist"] = transitgate.StringValue(r[2])
		}
		t.Append(rec)
	}
	return t
}

func domainSchema() *transitgate.Schema {
	return &transitgate.Schema{Tables: []transitgate.TableSchema{{
		Name: "stop_times",
		Fields: []transitgate.FieldSchema{
			{Name: "trip_id", Kind: transitgate.KindString, Required: true},
			{Name: "stop_sequence", Kind: transitgate.KindNumber, Required: true},
			{Name: "dist", Kind: transitgate.KindNumber},
		},
		RecordRules: []transitgate.RecordRule{
			rules.NonNegative("stop_times.dist.negative", "dist"),
		},
		GroupRules: []transitgate.GroupRule{
			rules.Monotonic("stop_times.stop_sequence.out_of_order", "trip_id", "stop_sequence"),
		},
	}}}
}

func TestValidateDomain_MonotonicPerGroup(t *testing.T) {
	sch := domainSchema()
	ds := transitgate.NewDataset()
	ds.Add(stopTimesTable(
		[3]string{"T1", "1", "0"},
		[3]string{"T1", "3", "1.5"},
		[3]string{"T1", "2", "2.0"}, // breaks T1's order
		[3]string{"T2", "1", "0"},
		[3]string{"T2", "2", "1.0"},
	))
	cleaned := transitgate.Clean(sch, ds)

	fs := transitgate.ValidateDomain(sch, cleaned, nil)
	if len(fs) != 1 {
		t.Fatalf("want one finding for the broken trip only, got %v", fs)
	}
	f := fs[0]
	if f.RuleID != "stop_times.stop_sequence.out_of_order" || f.Stage != transitgate.StageDomain {
		t.Fatalf("unexpected finding: %+v", f)
	}
	if len(f.Rows) != 1 || f.Rows[0] != 2 {
		t.Fatalf("wrong rows: %v", f.Rows)
	}
	if f.Params["key"] != "T1" {
		t.Fatalf("group key missing from params: %v", f.Params)
	}
}

func TestValidateDomain_NullPrerequisiteSkips(t *testing.T) {
	sch := domainSchema()
	ds := transitgate.NewDataset()
	ds.Add(stopTimesTable(
		[3]string{"T1", "1", ""},  // dist null: NonNegative skipped
		[3]string{"T1", "", "-1"}, // sequence null: excluded from the group
		[3]string{"T1", "2", "0"},
	))
	cleaned := transitgate.Clean(sch, ds)

	fs := transitgate.ValidateDomain(sch, cleaned, nil)
	if len(fs) != 1 || fs[0].RuleID != "stop_times.dist.negative" {
		t.Fatalf("want only the negative-dist finding, got %v", fs)
	}
	if fs[0].Rows[0] != 1 {
		t.Fatalf("wrong row: %v", fs[0].Rows)
	}
}

func TestValidateDomain_NotAfterAndClock(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sch := &transitgate.Schema{Tables: []transitgate.TableSchema{{
		Name: "shipments",
		Fields: []transitgate.FieldSchema{
			{Name: "start", Kind: transitgate.KindTime},
			{Name: "end", Kind: transitgate.KindTime},
			{Name: "created", Kind: transitgate.KindTime},
		},
		RecordRules: []transitgate.RecordRule{
			rules.NotAfter("shipments.start.ends_before_start", "start", "end"),
			rules.NotFuture("shipments.created.future_date", "created"),
		},
	}}}
	tab := transitgate.NewTable("shipments", "start", "end", "created")
	tab.Append(transitgate.Record{
		"start":   transitgate.TimeValue(now.AddDate(0, 0, 3)),
		"end":     transitgate.TimeValue(now.AddDate(0, 0, 1)),
		"created": transitgate.TimeValue(now.AddDate(0, 0, 10)),
	})
	ds := transitgate.NewDataset()
	ds.Add(tab)

	fs := transitgate.ValidateDomain(sch, ds, func() time.Time { return now })
	want := []string{"shipments.start.ends_before_start", "shipments.created.future_date"}
	if len(fs) != len(want) {
		t.Fatalf("want %d findings, got %v", len(want), fs)
	}
	for i, id := range want {
		if fs[i].RuleID != id {
			t.Fatalf("finding %d: want %s, got %s", i, id, fs[i].RuleID)
		}
	}
}
