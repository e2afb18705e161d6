// Package catalog ships the built-in table schemas and their severity tables.
// A schema is configuration: these constructors cover the common transport
// dataset families, and Load reads arbitrary catalogs from YAML.
package catalog

import (
	transitgate "github.com/reoring/transitgate"
	"github.com/reoring/transitgate/rules"
)

func f64(v float64) *float64 { return &v }

// Transit returns the schema for a transit feed: stops, trips, and stop_times
// with foreign keys into both, strictly increasing stop sequences per trip,
// and arrival-before-departure at every stop.
func Transit() *transitgate.Schema {
	trim := transitgate.CleanSpec{Trim: true}
	clock := transitgate.CleanSpec{Trim: true, TimeLayouts: []string{"15:04:05", "15:04"}}
	return &transitgate.Schema{
		Tables: []transitgate.TableSchema{
			{
				Name:       "stops",
				PrimaryKey: "stop_id",
				Fields: []transitgate.FieldSchema{
					{Name: "stop_id", Kind: transitgate.KindString, Required: true, Clean: trim},
					{Name: "stop_name", Kind: transitgate.KindString, Clean: trim},
					{Name: "stop_lat", Kind: transitgate.KindNumber, Required: true, Clean: trim},
					{Name: "stop_lon", Kind: transitgate.KindNumber, Required: true, Clean: trim},
				},
				RecordRules: []transitgate.RecordRule{
					rules.InRange("stops.stop_lat.out_of_range", "stop_lat", -90, 90),
					rules.InRange("stops.stop_lon.out_of_range", "stop_lon", -180, 180),
				},
			},
			{
				Name:       "trips",
				PrimaryKey: "trip_id",
				Fields: []transitgate.FieldSchema{
					{Name: "trip_id", Kind: transitgate.KindString, Required: true, Clean: trim},
					{Name: "route_id", Kind: transitgate.KindString, Required: true, Clean: trim},
					{Name: "trip_headsign", Kind: transitgate.KindString, Clean: trim},
				},
				RequireChildren: []transitgate.ChildRequirement{
					{ChildTable: "stop_times", ChildField: "trip_id", KeyField: "trip_id"},
				},
			},
			{
				Name: "stop_times",
				Fields: []transitgate.FieldSchema{
					{Name: "trip_id", Kind: transitgate.KindString, Required: true, Clean: trim},
					{Name: "stop_id", Kind: transitgate.KindString, Required: true, Clean: trim},
					{Name: "stop_sequence", Kind: transitgate.KindNumber, Required: true, Clean: trim, Min: f64(0)},
					{Name: "arrival_time", Kind: transitgate.KindTime, Clean: clock},
					{Name: "departure_time", Kind: transitgate.KindTime, Clean: clock},
					{Name: "shape_dist_traveled", Kind: transitgate.KindNumber, Clean: trim},
				},
				ForeignKeys: []transitgate.ForeignKey{
					{Field: "trip_id", RefTable: "trips", RefField: "trip_id"},
					{Field: "stop_id", RefTable: "stops", RefField: "stop_id"},
				},
				RecordRules: []transitgate.RecordRule{
					rules.NotAfter("stop_times.arrival_time.ends_before_start", "arrival_time", "departure_time"),
					rules.NonNegative("stop_times.shape_dist_traveled.negative", "shape_dist_traveled"),
				},
				GroupRules: []transitgate.GroupRule{
					rules.Monotonic("stop_times.stop_sequence.out_of_order", "trip_id", "stop_sequence"),
				},
			},
		},
	}
}

// TransitSeverities is the default severity table for Transit. Broken
// identity and broken references halt the gate; shape problems are errors;
// advisory findings stay warnings or lower.
func TransitSeverities() transitgate.SeverityTable {
	return transitgate.SeverityTable{
		// code families
		transitgate.CodeRequired:        transitgate.SeverityError,
		transitgate.CodeInvalidType:     transitgate.SeverityError,
		transitgate.CodeInvalidEnum:     transitgate.SeverityError,
		transitgate.CodePattern:         transitgate.SeverityError,
		transitgate.CodeTooSmall:        transitgate.SeverityError,
		transitgate.CodeTooBig:          transitgate.SeverityError,
		transitgate.CodeOutOfRange:      transitgate.SeverityError,
		transitgate.CodeOutOfOrder:      transitgate.SeverityError,
		transitgate.CodeEndsBeforeStart: transitgate.SeverityError,
		transitgate.CodeNegative:        transitgate.SeverityError,
		transitgate.CodeDuplicate:       transitgate.SeverityCritical,
		transitgate.CodeUnknownRef:      transitgate.SeverityCritical,
		transitgate.CodeMissingChild:    transitgate.SeverityWarning,
		transitgate.CodeUnknownField:    transitgate.SeverityInfo,

		// per-rule overrides
		"stops.stop_id.required":      transitgate.SeverityCritical,
		"trips.trip_id.required":      transitgate.SeverityCritical,
		"stop_times.trip_id.required": transitgate.SeverityCritical,
		"stop_times.stop_id.required": transitgate.SeverityCritical,
	}
}
