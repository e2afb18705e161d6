package catalog

import (
	"time"

	transitgate "github.com/reoring/transitgate"
	"github.com/reoring/transitgate/rules"
)

// usStates and caProvinces are the accepted two-letter region codes for
// freight origin and destination columns.
var usStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var caProvinces = []string{
	"AB", "BC", "MB", "NB", "NL", "NS", "ON", "PE", "QC", "SK",
	"NT", "NU", "YT",
}

// overweightOperators may book shipments at or above the overweight threshold.
var overweightOperators = []string{
	"overweight_ops_1@company.com",
	"overweight_ops_2@company.com",
	"overweight_ops_3@company.com",
	"overweight_ops_4@company.com",
}

// overweightLbs is the weight at which a shipment needs an authorized creator.
const overweightLbs = 49000

// Freight returns the schema for a freight shipment report: one shipments
// table with a unique primary reference, a plausibility window on the create
// date, region-code checks on both endpoints, and ship/delivery windows split
// out of their range columns.
func Freight() *transitgate.Schema {
	trim := transitgate.CleanSpec{Trim: true}
	region := transitgate.CleanSpec{Trim: true, Upper: true, Nulls: []string{"N/A"}}
	text := transitgate.CleanSpec{Trim: true, Upper: true}
	dates := []string{"01/02/2006", "2006-01-02", "2006-01-02 15:04:05"}
	regions := append(append([]string(nil), usStates...), caProvinces...)

	shipments := transitgate.TableSchema{
		Name:       "shipments",
		PrimaryKey: "primary_reference",
		Fields: []transitgate.FieldSchema{
			{Name: "primary_reference", Kind: transitgate.KindString, Required: true, Clean: trim},
			{Name: "weight", Kind: transitgate.KindNumber, Required: true, Clean: transitgate.CleanSpec{Trim: true, Strip: ","}},
			{Name: "created_by", Kind: transitgate.KindString, Clean: trim},
			{Name: "create_date", Kind: transitgate.KindTime, Required: true, Clean: transitgate.CleanSpec{Trim: true, TimeLayouts: dates}},
			{Name: "status", Kind: transitgate.KindString, Required: true, Clean: trim, Enum: []string{"Booked", "In Transit"}},
			{Name: "origin_name", Kind: transitgate.KindString, Clean: text},
			{Name: "origin_city", Kind: transitgate.KindString, Clean: text},
			{Name: "origin_state", Kind: transitgate.KindString, Required: true, Clean: region, Pattern: "^[A-Z]{2}$", Enum: regions},
			{Name: "dest_name", Kind: transitgate.KindString, Clean: text},
			{Name: "dest_city", Kind: transitgate.KindString, Clean: text},
			{Name: "dest_state", Kind: transitgate.KindString, Required: true, Clean: region, Pattern: "^[A-Z]{2}$", Enum: regions},
			{Name: "target_ship_range", Kind: transitgate.KindString, Clean: trim},
			{Name: "target_delivery_range", Kind: transitgate.KindString, Clean: trim},
			{Name: "ship_start", Kind: transitgate.KindTime, Required: true, Clean: transitgate.CleanSpec{Trim: true, TimeLayouts: dates},
				Derive: &transitgate.Derive{From: "target_ship_range", Sep: "-", Part: 0}},
			{Name: "ship_end", Kind: transitgate.KindTime, Required: true, Clean: transitgate.CleanSpec{Trim: true, TimeLayouts: dates},
				Derive: &transitgate.Derive{From: "target_ship_range", Sep: "-", Part: 1}},
			{Name: "delivery_start", Kind: transitgate.KindTime, Required: true, Clean: transitgate.CleanSpec{Trim: true, TimeLayouts: dates},
				Derive: &transitgate.Derive{From: "target_delivery_range", Sep: "-", Part: 0}},
			{Name: "delivery_end", Kind: transitgate.KindTime, Required: true, Clean: transitgate.CleanSpec{Trim: true, TimeLayouts: dates},
				Derive: &transitgate.Derive{From: "target_delivery_range", Sep: "-", Part: 1}},
		},
		RecordRules: []transitgate.RecordRule{
			rules.Positive("shipments.weight.not_positive", "weight"),
			rules.RequireAuthorizedAbove("shipments.weight.unauthorized", "weight", overweightLbs, "created_by", overweightOperators),
			rules.NotFuture("shipments.create_date.future_date", "create_date"),
			rules.MinDate("shipments.create_date.too_old", "create_date", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
			rules.NotAfter("shipments.ship_start.ends_before_start", "ship_start", "ship_end"),
			rules.NotAfter("shipments.delivery_start.ends_before_start", "delivery_start", "delivery_end"),
			rules.NotBefore("shipments.delivery_start.before_related", "delivery_start", "ship_start"),
		},
	}
	return &transitgate.Schema{Tables: []transitgate.TableSchema{shipments}}
}

// FreightSeverities mirrors the report's gating behavior: a missing or
// duplicated primary reference, a missing weight or date, and future dates
// are critical; the rest of the checks are errors, with plausibility-only
// findings kept as warnings.
func FreightSeverities() transitgate.SeverityTable {
	return transitgate.SeverityTable{
		// code families
		transitgate.CodeRequired:        transitgate.SeverityError,
		transitgate.CodeInvalidType:     transitgate.SeverityError,
		transitgate.CodeInvalidEnum:     transitgate.SeverityError,
		transitgate.CodePattern:         transitgate.SeverityError,
		transitgate.CodeNotPositive:     transitgate.SeverityError,
		transitgate.CodeUnauthorized:    transitgate.SeverityError,
		transitgate.CodeEndsBeforeStart: transitgate.SeverityError,
		transitgate.CodeBeforeRelated:   transitgate.SeverityError,
		transitgate.CodeTooOld:          transitgate.SeverityWarning,
		transitgate.CodeUnknownField:    transitgate.SeverityInfo,

		// per-rule overrides, the original report's critical set
		"shipments.primary_reference.required":  transitgate.SeverityCritical,
		"shipments.primary_reference.duplicate": transitgate.SeverityCritical,
		"shipments.weight.required":             transitgate.SeverityCritical,
		"shipments.create_date.required":        transitgate.SeverityCritical,
		"shipments.create_date.future_date":     transitgate.SeverityCritical,
	}
}
