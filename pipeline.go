package transitgate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reoring/transitgate/internal/fanout"
)

// Result is what one run hands back to the caller: the cleaned dataset and
// the finalized report. On a halt the cleaned dataset is still returned; it
// is the sink's responsibility to refuse to persist it.
type Result struct {
	Cleaned *Dataset
	Report  *Report
}

type runConfig struct {
	log        *zap.Logger
	clock      func() time.Time
	severities SeverityTable
}

// Option configures a run.
type Option func(*runConfig)

// WithLogger attaches a structured logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *runConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock fixes the clock used by time-sensitive domain rules, which keeps
// future-date checks deterministic under test.
func WithClock(now func() time.Time) Option {
	return func(c *runConfig) {
		if now != nil {
			c.clock = now
		}
	}
}

// WithSeverityTable sets the rule_id -> severity policy table consulted by
// the classifier. Defaults to an empty table, i.e. everything classifies to
// the policy's default severity.
func WithSeverityTable(t SeverityTable) Option {
	return func(c *runConfig) { c.severities = t }
}

// Run executes the full pipeline on one dataset: clean, validate (field,
// domain, relational), classify, decide. The three validators scan the shared
// read-only cleaned dataset concurrently and their findings are merged in
// fixed stage order, so concurrency never affects report ordering. Validators
// always run to completion; a halt never truncates diagnostics.
//
// The returned error is reserved for configuration problems; data problems
// land in the report and are signalled via Report.Decision, never via error.
func Run(ctx context.Context, sch *Schema, ds *Dataset, pol Policy, opts ...Option) (Result, error) {
	cfg := runConfig{log: zap.NewNop(), clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := pol.Validate(); err != nil {
		return Result{}, err
	}
	if err := sch.Validate(); err != nil {
		return Result{}, err
	}

	started := cfg.clock()
	runID := uuid.NewString()
	log := cfg.log.With(zap.String("run_id", runID))
	log.Info("pipeline started", zap.Int("tables", len(ds.Names())))

	cleaned := Clean(sch, ds)

	staged := fanout.Gather(ctx,
		func(context.Context) Findings { return ValidateFields(sch, cleaned) },
		func(context.Context) Findings { return ValidateDomain(sch, cleaned, cfg.clock) },
		func(context.Context) Findings { return ValidateRelational(sch, cleaned) },
	)
	var all Findings
	for _, fs := range staged {
		all = AppendFindings(all, fs...)
	}

	classified := NewClassifier(cfg.severities, pol.DefaultSeverity, log).Classify(all)
	decision := Decide(classified, pol)

	report := &Report{
		RunID:    runID,
		Started:  started,
		Finished: cfg.clock(),
		Findings: classified,
		Decision: decision,
	}
	log.Info("pipeline finished",
		zap.String("decision", decision.String()),
		zap.Int("findings", len(classified)),
	)
	return Result{Cleaned: cleaned, Report: report}, nil
}
