// Package loader reads datasets from disk into the in-memory tabular
// representation. A load failure is fatal and reported before any pipeline
// stage runs; the loader itself makes no validity decisions.
package loader

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	transitgate "github.com/reoring/transitgate"
)

// ErrLoad marks unreadable or structurally unusable dataset sources.
var ErrLoad = errors.New("loader: dataset unreadable")

// CSVFile reads one table from a CSV file. The header row declares the field
// order; every cell loads as a raw string for the Cleaner to type.
func CSVFile(path, name string) (*transitgate.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "opening %s", path), ErrLoad)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing %s", path), ErrLoad)
	}
	if len(rows) == 0 {
		return nil, errors.Mark(errors.Newf("%s: missing header row", path), ErrLoad)
	}
	header := rows[0]
	t := transitgate.NewTable(name, header...)
	// Data starts on line 2: one header line before the first row.
	t.SourceBase = 2
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, errors.Mark(errors.Newf("%s: row %d has %d cells, header has %d", path, i+1, len(row), len(header)), ErrLoad)
		}
		rec := make(transitgate.Record, len(header))
		for j, cell := range row {
			if cell == "" {
				continue
			}
			rec[header[j]] = transitgate.StringValue(cell)
		}
		t.Append(rec)
	}
	return t, nil
}

// CSVDir reads every *.csv file in a directory as one dataset; table names
// come from the file base names, in lexical order for determinism.
func CSVDir(dir string) (*transitgate.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", dir), ErrLoad)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, errors.Mark(errors.Newf("%s: no csv files", dir), ErrLoad)
	}
	sort.Strings(names)
	ds := transitgate.NewDataset()
	for _, n := range names {
		t, err := CSVFile(filepath.Join(dir, n), strings.TrimSuffix(n, ".csv"))
		if err != nil {
			return nil, err
		}
		ds.Add(t)
	}
	return ds, nil
}

// jsonDataset is the JSON layout: {"tables": [{"name", "fields", "rows"}]}.
// Row cells may be strings, numbers, or null.
type jsonDataset struct {
	Tables []jsonTable `json:"tables"`
}

type jsonTable struct {
	Name   string           `json:"name"`
	Fields []string         `json:"fields"`
	Rows   []map[string]any `json:"rows"`
}

// JSONFile reads a whole dataset from one JSON document.
func JSONFile(path string) (*transitgate.Dataset, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", path), ErrLoad)
	}
	var doc jsonDataset
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing %s", path), ErrLoad)
	}
	ds := transitgate.NewDataset()
	for _, jt := range doc.Tables {
		t := transitgate.NewTable(jt.Name, jt.Fields...)
		for _, row := range jt.Rows {
			rec := make(transitgate.Record, len(row))
			for k, v := range row {
				switch v := v.(type) {
				case nil:
					// absent and null read the same
				case string:
					rec[k] = transitgate.StringValue(v)
				case float64:
					rec[k] = transitgate.NumberValue(v)
				case bool:
					rec[k] = transitgate.StringValue(strconvBool(v))
				default:
					return nil, errors.Mark(errors.Newf("%s: table %q field %q: unsupported cell type %T", path, jt.Name, k, v), ErrLoad)
				}
			}
			t.Append(rec)
		}
		ds.Add(t)
	}
	return ds, nil
}

func strconvBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
