package transitgate

// Decide aggregates classified findings into the run-level Decision. It is a
// single pass evaluated only after classification is complete, so the full
// report always exists before any halt takes effect.
//
//   - Halt: any critical finding (when the policy says criticals halt), or
//     the error count meets the policy threshold.
//   - PassWithWarnings: anything was found but nothing reached the halt bar.
//   - Pass: nothing was found.
func Decide(fs []ClassifiedFinding, p Policy) Decision {
	criticals, errs := 0, 0
	for _, f := range fs {
		switch f.Severity {
		case SeverityCritical:
			criticals++
		case SeverityError:
			errs++
		}
	}
	if p.CriticalHalts && criticals > 0 {
		return DecisionHalt
	}
	if errs >= p.ErrorThreshold {
		return DecisionHalt
	}
	if len(fs) > 0 {
		return DecisionPassWithWarnings
	}
	return DecisionPass
}
