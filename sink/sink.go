// Package sink persists run outcomes. The error report is always written,
// while the cleaned dataset is withheld when
// the run halted, so downstream consumers can never pick up gated data.
package sink

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	transitgate "github.com/reoring/transitgate"
)

// WriteReport renders the report as indented JSON, the contract downstream
// consumers parse.
func WriteReport(w io.Writer, r *transitgate.Report) error {
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	buf = append(buf, '\n')
	_, err = w.Write(buf)
	return err
}

// WriteTable renders one cleaned table as CSV in its field order. Null cells
// render empty.
func WriteTable(w io.Writer, t *transitgate.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Fields); err != nil {
		return err
	}
	row := make([]string, len(t.Fields))
	for _, r := range t.Rows() {
		for i, f := range t.Fields {
			row[i] = r.Value(f).Text()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write persists one run under dir: report.json always, the cleaned tables
// as <table>.csv only when the decision is not a halt.
func Write(dir string, res transitgate.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	rf, err := os.Create(filepath.Join(dir, "report.json"))
	if err != nil {
		return errors.Wrap(err, "creating report.json")
	}
	defer rf.Close()
	if err := WriteReport(rf, res.Report); err != nil {
		return err
	}
	if res.Report.Decision == transitgate.DecisionHalt {
		return nil
	}
	for _, t := range res.Cleaned.Tables() {
		f, err := os.Create(filepath.Join(dir, t.Name+".csv"))
		if err != nil {
			return errors.Wrapf(err, "creating %s.csv", t.Name)
		}
		if err := WriteTable(f, t); err != nil {
			f.Close()
			return errors.Wrapf(err, "writing %s.csv", t.Name)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
