// Package transitgate is a quality gate for tabular transport datasets.
//
// One run flows a Dataset through four stages:
//
//   - Clean: deterministic, non-destructive transforms (trim, null
//     normalization, declared-kind coercion); never drops rows.
//   - Validate: field, domain, and relational checks over the cleaned
//     dataset, each producing Findings tagged only by rule id.
//   - Classify: a centralized SeverityTable resolves each finding's
//     severity; validators never assign severities themselves.
//   - Decide: the Policy turns the classified report into
//     Pass / PassWithWarnings / Halt.
//
// Design policy:
//   - Keep only public APIs in the root package; put implementation details under internal/.
//   - Rule constructors live under rules/, built-in schemas under catalog/, the CLI under cmd/transitgate.
//   - The rule catalog and the severity table are configuration, not code branches.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	sch := catalog.Transit()
//	res, err := transitgate.Run(ctx, sch, ds, transitgate.DefaultPolicy(),
//	    transitgate.WithSeverityTable(catalog.TransitSeverities()))
//	if res.Report.Decision == transitgate.DecisionHalt { ... }
package transitgate
