package sink_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	transitgate "github.com/reoring/transitgate"
	"github.com/reoring/transitgate/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(decision transitgate.Decision) transitgate.Result {
	tbl := transitgate.NewTable("stops", "stop_id", "stop_lat")
	tbl.Append(transitgate.Record{
		"stop_id":  transitgate.StringValue("S1"),
		"stop_lat": transitgate.NumberValue(35.681),
	})
	tbl.Append(transitgate.Record{
		"stop_id": transitgate.StringValue("S2"), // stop_lat null
	})
	ds := transitgate.NewDataset()
	ds.Add(tbl)

	return transitgate.Result{
		Cleaned: ds,
		Report: &transitgate.Report{
			RunID:    "run-1",
			Started:  time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
			Finished: time.Date(2024, 6, 1, 8, 0, 1, 0, time.UTC),
			Findings: []transitgate.ClassifiedFinding{{
				Finding: transitgate.Finding{
					RuleID:  "stops.stop_id.duplicate",
					Stage:   transitgate.StageRelational,
					Table:   "stops",
					Rows:    []int{0, 1},
					Field:   "stop_id",
					Message: "stop_id \"S1\" occurs 2 times",
				},
				Severity: transitgate.SeverityCritical,
			}},
			Decision: decision,
		},
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sink.WriteReport(&buf, sampleResult(transitgate.DecisionHalt).Report))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Equal(t, "halt", doc["decision"])
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	tbl, _ := sampleResult(transitgate.DecisionPass).Cleaned.Table("stops")
	require.NoError(t, sink.WriteTable(&buf, tbl))

	want := "stop_id,stop_lat\nS1,35.681\nS2,\n"
	assert.Equal(t, want, buf.String())
}

func TestWrite_PassPersistsTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, sink.Write(dir, sampleResult(transitgate.DecisionPass)))

	_, err := os.Stat(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "stops.csv"))
	require.NoError(t, err)
}

// A halted run still writes its report, but never the cleaned data.
func TestWrite_HaltWithholdsTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, sink.Write(dir, sampleResult(transitgate.DecisionHalt)))

	_, err := os.Stat(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "stops.csv"))
	assert.True(t, os.IsNotExist(err))
}
